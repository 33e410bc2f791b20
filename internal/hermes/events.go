package hermes

import "time"

// PreferenceEvent is published on undo, redo and commit.
type PreferenceEvent struct {
	ChangeType  string    `json:"change_type"`
	ChartID     string    `json:"chart_id"`
	Username    string    `json:"username"`
	ObjectiveID string    `json:"objective_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type ChartEvent struct {
	ChartID   string    `json:"chart_id"`
	Name      string    `json:"name"`
	Creator   string    `json:"creator,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionStatsEvent struct {
	Active    int       `json:"active"`
	Evicted   int       `json:"evicted"`
	Timestamp time.Time `json:"timestamp"`
}
