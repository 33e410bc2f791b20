package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Weight change kinds.
const (
	KindRank = "rank"
	KindPump = "pump"
	KindDrag = "drag"
	KindSet  = "set"
)

type Metrics struct {
	WeightChanges  *prometheus.CounterVec
	HistoryOps     *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
	Commits        *prometheus.CounterVec
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		WeightChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "valuecharts_weight_changes_total",
			Help: "Weight edits applied to user weight maps.",
		}, []string{"kind"}),
		HistoryOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "valuecharts_history_operations_total",
			Help: "Undo and redo operations that restored state.",
		}, []string{"op"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "valuecharts_active_sessions",
			Help: "Editing sessions held in memory.",
		}),
		Commits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "valuecharts_commits_total",
			Help: "Preference commits by result.",
		}, []string{"result"}),
	}
}

// NewNop returns collectors registered nowhere.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
