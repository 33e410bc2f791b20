package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WeightChanges.WithLabelValues(KindPump).Inc()
	m.WeightChanges.WithLabelValues(KindPump).Inc()
	m.ActiveSessions.Set(3)
	m.Commits.WithLabelValues("ok").Inc()
	m.HistoryOps.WithLabelValues("undo").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WeightChanges.WithLabelValues(KindPump)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveSessions))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}
