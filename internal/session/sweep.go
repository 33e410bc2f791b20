package session

import (
	"context"
	"time"

	"github.com/MikeSquared-Agency/ValueCharts/internal/hermes"
)

// Start runs the idle sweep and listens for chart updates published by
// other instances.
func (m *Manager) Start(ctx context.Context) {
	if m.hermes != nil {
		err := m.hermes.Subscribe(hermes.SubjectChartUpdates, func(subject string, _ []byte) {
			if id := hermes.ChartIDFromSubject(subject); id != "" {
				if n := m.EvictChart(id); n > 0 {
					m.logger.Info("sessions dropped after chart update", "chart_id", id, "count", n)
				}
			}
		})
		if err != nil {
			m.logger.Warn("failed to subscribe to chart updates", "error", err)
		}
	}

	if m.opts.SweepInterval <= 0 || m.opts.IdleTimeout <= 0 {
		return
	}
	m.wg.Add(1)
	go m.sweepLoop(ctx)
}

func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Manager) sweepLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep evicts sessions idle for longer than the idle timeout.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.opts.IdleTimeout)
	evicted := m.evictWhere(func(k Key, s *Session) bool {
		if s.LastAccess().Before(cutoff) {
			m.logger.Info("session idle, evicting", "chart_id", k.ChartID, "username", k.Username, "last_access", s.LastAccess())
			return true
		}
		return false
	})

	m.mu.Lock()
	active := len(m.sessions)
	m.mu.Unlock()
	m.publish(hermes.SubjectSessionStats, hermes.SessionStatsEvent{
		Active:    active,
		Evicted:   evicted,
		Timestamp: m.now().UTC(),
	})
	return evicted
}
