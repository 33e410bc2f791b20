package preference

import (
	"encoding/json"
	"fmt"
)

// ScoreFunctionMap maps primitive objective ids to a user's score functions.
type ScoreFunctionMap struct {
	fns   map[string]ScoreFunction
	order []string
}

func NewScoreFunctionMap() *ScoreFunctionMap {
	return &ScoreFunctionMap{fns: make(map[string]ScoreFunction)}
}

func (m *ScoreFunctionMap) Get(id string) (ScoreFunction, bool) {
	sf, ok := m.fns[id]
	return sf, ok
}

func (m *ScoreFunctionMap) Set(id string, sf ScoreFunction) {
	if _, ok := m.fns[id]; !ok {
		m.order = append(m.order, id)
	}
	m.fns[id] = sf
}

func (m *ScoreFunctionMap) Remove(id string) {
	if _, ok := m.fns[id]; !ok {
		return
	}
	delete(m.fns, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *ScoreFunctionMap) IDs() []string { return append([]string(nil), m.order...) }

func (m *ScoreFunctionMap) Clone() *ScoreFunctionMap {
	c := NewScoreFunctionMap()
	for _, id := range m.order {
		c.Set(id, m.fns[id].Clone())
	}
	return c
}

func (m *ScoreFunctionMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.fns))
	for id, sf := range m.fns {
		raw, err := MarshalScoreFunction(sf)
		if err != nil {
			return nil, err
		}
		out[id] = raw
	}
	return json.Marshal(out)
}

func (m *ScoreFunctionMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = *NewScoreFunctionMap()
	for id, r := range raw {
		sf, err := UnmarshalScoreFunction(r)
		if err != nil {
			return fmt.Errorf("score function %s: %w", id, err)
		}
		m.Set(id, sf)
	}
	return nil
}

// User holds one person's preferences over a chart. Each user exclusively
// owns its WeightMap and ScoreFunctionMap.
type User struct {
	Username       string            `json:"username"`
	Weights        *WeightMap        `json:"weights"`
	ScoreFunctions *ScoreFunctionMap `json:"score_functions"`
}

// NewDefaultUser gives every primitive of root an equal weight and an
// editable copy of its default score function.
func NewDefaultUser(username string, root *Objective) *User {
	u := &User{Username: username, Weights: NewWeightMap(), ScoreFunctions: NewScoreFunctionMap()}
	prims := root.Primitives()
	for _, p := range prims {
		u.Weights.SetObjectiveWeight(p.ID, 1/float64(len(prims)))
		if p.DefaultScoreFunction != nil {
			u.ScoreFunctions.Set(p.ID, p.DefaultScoreFunction.EditableCopy())
		}
	}
	return u
}

// ScoreFunction returns the user's function for a primitive objective.
func (u *User) ScoreFunction(objectiveID string) (ScoreFunction, error) {
	sf, ok := u.ScoreFunctions.Get(objectiveID)
	if !ok {
		return nil, fmt.Errorf("%w: no score function for %s", ErrObjectiveNotFound, objectiveID)
	}
	return sf, nil
}

func (u *User) Clone() *User {
	return &User{Username: u.Username, Weights: u.Weights.Snapshot(), ScoreFunctions: u.ScoreFunctions.Clone()}
}
