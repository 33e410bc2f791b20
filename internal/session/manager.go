package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/ValueCharts/internal/cache"
	"github.com/MikeSquared-Agency/ValueCharts/internal/hermes"
	"github.com/MikeSquared-Agency/ValueCharts/internal/history"
	"github.com/MikeSquared-Agency/ValueCharts/internal/metrics"
	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
	"github.com/MikeSquared-Agency/ValueCharts/internal/scoring"
	"github.com/MikeSquared-Agency/ValueCharts/internal/store"
)

type Options struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	HistoryDepth  int
}

// Manager maps (chart, user) pairs to live sessions, loading them lazily
// and evicting them once idle. The cache and hermes client are optional.
type Manager struct {
	store   store.Store
	cache   cache.Cache
	hermes  hermes.Client
	metrics *metrics.Metrics
	scorer  *scoring.Scorer
	opts    Options
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[Key]*Session

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewManager(s store.Store, c cache.Cache, h hermes.Client, m *metrics.Metrics, opts Options, logger *slog.Logger) *Manager {
	if m == nil {
		m = metrics.NewNop()
	}
	return &Manager{
		store:    s,
		cache:    c,
		hermes:   h,
		metrics:  m,
		scorer:   scoring.NewScorer(logger),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[Key]*Session),
		stopCh:   make(chan struct{}),
	}
}

// CreateChart validates and stores a new chart.
func (m *Manager) CreateChart(ctx context.Context, chart *preference.Chart) error {
	if err := chart.Validate(); err != nil {
		return err
	}
	if err := m.store.CreateChart(ctx, chart); err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	m.cacheChart(ctx, chart)
	m.publish(hermes.SubjectChartCreated(chart.ID), hermes.ChartEvent{
		ChartID:   chart.ID,
		Name:      chart.Name,
		Creator:   chart.Creator,
		Timestamp: m.now().UTC(),
	})
	m.logger.Info("chart created", "chart_id", chart.ID, "creator", chart.Creator)
	return nil
}

// UpdateChart stores a changed chart and drops every session on it.
func (m *Manager) UpdateChart(ctx context.Context, chart *preference.Chart) error {
	if err := chart.Validate(); err != nil {
		return err
	}
	existing, err := m.Chart(ctx, chart.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", ErrChartNotFound, chart.ID)
	}
	if err := m.store.UpdateChart(ctx, chart); err != nil {
		return fmt.Errorf("update chart: %w", err)
	}
	m.cacheChart(ctx, chart)
	m.EvictChart(chart.ID)
	m.publish(hermes.SubjectChartUpdated(chart.ID), hermes.ChartEvent{
		ChartID:   chart.ID,
		Name:      chart.Name,
		Creator:   chart.Creator,
		Timestamp: m.now().UTC(),
	})
	return nil
}

// Chart loads a chart through the cache. Returns (nil, nil) when missing.
func (m *Manager) Chart(ctx context.Context, chartID string) (*preference.Chart, error) {
	if m.cache != nil {
		chart, err := m.cache.GetChart(ctx, chartID)
		if err != nil {
			m.logger.Warn("chart cache read failed", "chart_id", chartID, "error", err)
		} else if chart != nil {
			return chart, nil
		}
	}
	chart, err := m.store.GetChart(ctx, chartID)
	if err != nil {
		return nil, fmt.Errorf("get chart: %w", err)
	}
	if chart != nil {
		m.cacheChart(ctx, chart)
	}
	return chart, nil
}

func (m *Manager) cacheChart(ctx context.Context, chart *preference.Chart) {
	if m.cache == nil {
		return
	}
	if err := m.cache.SetChart(ctx, chart); err != nil {
		m.logger.Warn("chart cache write failed", "chart_id", chart.ID, "error", err)
	}
}

func (m *Manager) preferences(ctx context.Context, chartID, username string) (*store.Preferences, error) {
	if m.cache != nil {
		p, err := m.cache.GetPreferences(ctx, chartID, username)
		if err != nil {
			m.logger.Warn("preference cache read failed", "chart_id", chartID, "username", username, "error", err)
		} else if p != nil {
			return p, nil
		}
	}
	p, err := m.store.GetPreferences(ctx, chartID, username)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return p, nil
}

// Get returns the live session for (chartID, username), creating it from
// committed preferences, or chart defaults, on first use.
func (m *Manager) Get(ctx context.Context, chartID, username string) (*Session, error) {
	key := Key{ChartID: chartID, Username: username}
	now := m.now()

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		s.touch(now)
		return s, nil
	}
	m.mu.Unlock()

	chart, err := m.Chart(ctx, chartID)
	if err != nil {
		return nil, err
	}
	if chart == nil {
		return nil, fmt.Errorf("%w: %s", ErrChartNotFound, chartID)
	}
	prefs, err := m.preferences(ctx, chartID, username)
	if err != nil {
		return nil, err
	}
	user, order := restoreUser(chart, username, prefs)
	s := m.newSession(key, chart, user, order, now)

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have loaded the same session meanwhile.
	if existing, ok := m.sessions[key]; ok {
		existing.touch(now)
		return existing, nil
	}
	m.sessions[key] = s
	m.metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.logger.Info("session opened", "chart_id", chartID, "username", username, "restored", prefs != nil)
	return s, nil
}

func (m *Manager) newSession(key Key, chart *preference.Chart, user *preference.User, order []string, now time.Time) *Session {
	h := history.NewManager(m.opts.HistoryDepth)
	s := newSession(key, chart, user, order, h, m.scorer, now)
	s.onWeights = func(kind string) {
		m.metrics.WeightChanges.WithLabelValues(kind).Inc()
	}
	h.Subscribe(func(ev history.Event) {
		m.metrics.HistoryOps.WithLabelValues(string(ev.Op)).Inc()
		subject := hermes.SubjectUndo(key.ChartID, key.Username)
		if ev.Op == history.OpRedo {
			subject = hermes.SubjectRedo(key.ChartID, key.Username)
		}
		m.publish(subject, hermes.PreferenceEvent{
			ChangeType:  string(ev.ChangeType),
			ChartID:     key.ChartID,
			Username:    key.Username,
			ObjectiveID: ev.ObjectiveID,
			Timestamp:   m.now().UTC(),
		})
	})
	return s
}

// restoreUser rebuilds a user from committed preferences. Entries for
// objectives removed from the chart are dropped and the rest renormalized;
// objectives added since the last commit start at zero.
func restoreUser(chart *preference.Chart, username string, prefs *store.Preferences) (*preference.User, []string) {
	order := make([]string, len(chart.Alternatives))
	for i, a := range chart.Alternatives {
		order[i] = a.Name
	}
	if prefs == nil {
		return preference.NewDefaultUser(username, chart.Root), order
	}

	user := prefs.User()
	user.Username = username
	user.Weights = user.Weights.Snapshot()
	user.ScoreFunctions = user.ScoreFunctions.Clone()
	primitives := chart.Root.PrimitiveIDs()
	pruned := false
	for _, id := range user.Weights.IDs() {
		if !containsString(primitives, id) {
			user.Weights.RemoveObjectiveWeight(id)
			pruned = true
		}
	}
	for _, id := range user.ScoreFunctions.IDs() {
		if !containsString(primitives, id) {
			user.ScoreFunctions.Remove(id)
		}
	}
	if pruned {
		user.Weights.Normalize()
	}
	for _, p := range chart.Root.Primitives() {
		if _, ok := user.Weights.ObjectiveWeight(p.ID); !ok {
			user.Weights.SetObjectiveWeight(p.ID, 0)
		}
		if _, ok := user.ScoreFunctions.Get(p.ID); !ok && p.DefaultScoreFunction != nil {
			user.ScoreFunctions.Set(p.ID, p.DefaultScoreFunction.EditableCopy())
		}
	}
	if isPermutation(prefs.AlternativeOrder, order) {
		order = append([]string(nil), prefs.AlternativeOrder...)
	}
	return user, order
}

func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(b))
	for _, v := range b {
		counts[v]++
	}
	for _, v := range a {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}

// Commit validates the session's preferences and persists them. Objective
// edits are written back to the chart.
func (m *Manager) Commit(ctx context.Context, chartID, username string) (*store.Preferences, error) {
	s, err := m.Get(ctx, chartID, username)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	user, order, objectives, err := s.validated()
	chart := s.chart
	s.mu.Unlock()
	if err != nil {
		m.metrics.Commits.WithLabelValues("invalid").Inc()
		return nil, err
	}

	prefs := store.PreferencesFromUser(chartID, user, order)
	if err := m.store.SavePreferences(ctx, prefs); err != nil {
		m.metrics.Commits.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	if m.cache != nil {
		if err := m.cache.SetPreferences(ctx, prefs); err != nil {
			m.logger.Warn("preference cache write failed", "chart_id", chartID, "username", username, "error", err)
		}
	}
	if err := m.store.CreatePreferenceEvent(ctx, &store.PreferenceEvent{
		ChartID:  chartID,
		Username: username,
		Event:    "committed",
		Payload:  map[string]interface{}{"objectives_changed": objectives != nil},
	}); err != nil {
		m.logger.Warn("failed to record commit event", "chart_id", chartID, "username", username, "error", err)
	}
	m.metrics.Commits.WithLabelValues("ok").Inc()
	m.publish(hermes.SubjectCommitted(chartID, username), hermes.PreferenceEvent{
		ChangeType: "commit",
		ChartID:    chartID,
		Username:   username,
		Timestamp:  m.now().UTC(),
	})
	m.logger.Info("preferences committed", "chart_id", chartID, "username", username)

	if objectives != nil {
		updated := *chart
		updated.Root = objectives
		if err := m.UpdateChart(ctx, &updated); err != nil {
			return prefs, fmt.Errorf("update chart objectives: %w", err)
		}
	}
	return prefs, nil
}

// Info describes a live session for the admin listing.
type Info struct {
	Key
	CreatedAt  time.Time `json:"created_at"`
	LastAccess time.Time `json:"last_access"`
}

func (m *Manager) List() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Info, 0, len(m.sessions))
	for k, s := range m.sessions {
		out = append(out, Info{Key: k, CreatedAt: s.createdAt, LastAccess: s.LastAccess()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChartID != out[j].ChartID {
			return out[i].ChartID < out[j].ChartID
		}
		return out[i].Username < out[j].Username
	})
	return out
}

// Evict drops one session, discarding uncommitted edits.
func (m *Manager) Evict(chartID, username string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := Key{ChartID: chartID, Username: username}
	if _, ok := m.sessions[key]; !ok {
		return false
	}
	delete(m.sessions, key)
	m.metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return true
}

// EvictChart drops every session on chartID.
func (m *Manager) EvictChart(chartID string) int {
	return m.evictWhere(func(k Key, _ *Session) bool { return k.ChartID == chartID })
}

// EvictAll drops every session.
func (m *Manager) EvictAll() int {
	return m.evictWhere(func(Key, *Session) bool { return true })
}

func (m *Manager) evictWhere(match func(Key, *Session) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, s := range m.sessions {
		if match(k, s) {
			delete(m.sessions, k)
			n++
		}
	}
	m.metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return n
}

func (m *Manager) publish(subject string, data interface{}) {
	if m.hermes == nil {
		return
	}
	if err := m.hermes.Publish(subject, data); err != nil {
		m.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}
