package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// ChartSummary is a chart row without its objective tree and alternatives.
type ChartSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Creator     string    `json:"creator,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ChartFilter struct {
	Creator string
	Limit   int
	Offset  int
}

// Preferences is one user's committed state for a chart.
type Preferences struct {
	ChartID          string                       `json:"chart_id"`
	Username         string                       `json:"username"`
	Weights          *preference.WeightMap        `json:"weights"`
	ScoreFunctions   *preference.ScoreFunctionMap `json:"score_functions"`
	AlternativeOrder []string                     `json:"alternative_order,omitempty"`
	CommittedAt      time.Time                    `json:"committed_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

// User rebuilds the preference owner from the stored row.
func (p *Preferences) User() *preference.User {
	u := &preference.User{Username: p.Username, Weights: p.Weights, ScoreFunctions: p.ScoreFunctions}
	if u.Weights == nil {
		u.Weights = preference.NewWeightMap()
	}
	if u.ScoreFunctions == nil {
		u.ScoreFunctions = preference.NewScoreFunctionMap()
	}
	return u
}

// PreferencesFromUser captures u for storage.
func PreferencesFromUser(chartID string, u *preference.User, order []string) *Preferences {
	return &Preferences{
		ChartID:          chartID,
		Username:         u.Username,
		Weights:          u.Weights.Snapshot(),
		ScoreFunctions:   u.ScoreFunctions.Clone(),
		AlternativeOrder: append([]string(nil), order...),
	}
}

// PreferenceEvent is an audit row for commits and history traversal.
type PreferenceEvent struct {
	ID        uuid.UUID              `json:"id"`
	ChartID   string                 `json:"chart_id"`
	Username  string                 `json:"username"`
	Event     string                 `json:"event"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Store persists charts and committed user preferences. Getters return
// (nil, nil) when the row does not exist.
type Store interface {
	CreateChart(ctx context.Context, chart *preference.Chart) error
	GetChart(ctx context.Context, id string) (*preference.Chart, error)
	ListCharts(ctx context.Context, filter ChartFilter) ([]*ChartSummary, error)
	UpdateChart(ctx context.Context, chart *preference.Chart) error

	SavePreferences(ctx context.Context, p *Preferences) error
	GetPreferences(ctx context.Context, chartID, username string) (*Preferences, error)
	ListPreferences(ctx context.Context, chartID string) ([]*Preferences, error)

	CreatePreferenceEvent(ctx context.Context, event *PreferenceEvent) error
	GetPreferenceEvents(ctx context.Context, chartID, username string) ([]*PreferenceEvent, error)

	Close() error
}
