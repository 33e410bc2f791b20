package history

import "github.com/MikeSquared-Agency/ValueCharts/internal/preference"

// ChangeType tags an undo/redo entry with the kind of state it restores.
type ChangeType string

const (
	ScoreFunctionChange    ChangeType = "score_function"
	WeightMapChange        ChangeType = "weight_map"
	AlternativeOrderChange ChangeType = "alternative_order"
	ObjectivesChange       ChangeType = "objectives"
)

// State is the editable state undo and redo act on.
type State struct {
	User             *preference.User
	AlternativeOrder []string
	Objectives       *preference.Objective
}

// Memento is an immutable snapshot of one slice of State.
type Memento interface {
	ChangeType() ChangeType
	Equal(other Memento) bool
	// capture snapshots the part of s this memento covers.
	capture(s *State) Memento
	restore(s *State)
}

// ScoreFunctionMemento holds one objective's score function. A nil
// function means the user had none.
type ScoreFunctionMemento struct {
	ObjectiveID   string
	ScoreFunction preference.ScoreFunction
}

func (m *ScoreFunctionMemento) ChangeType() ChangeType { return ScoreFunctionChange }

func (m *ScoreFunctionMemento) Equal(other Memento) bool {
	o, ok := other.(*ScoreFunctionMemento)
	if !ok || o.ObjectiveID != m.ObjectiveID {
		return false
	}
	if m.ScoreFunction == nil || o.ScoreFunction == nil {
		return m.ScoreFunction == nil && o.ScoreFunction == nil
	}
	return m.ScoreFunction.Equal(o.ScoreFunction)
}

func (m *ScoreFunctionMemento) capture(s *State) Memento {
	sf, _ := s.User.ScoreFunctions.Get(m.ObjectiveID)
	return newScoreFunctionMemento(m.ObjectiveID, sf)
}

func (m *ScoreFunctionMemento) restore(s *State) {
	if m.ScoreFunction == nil {
		s.User.ScoreFunctions.Remove(m.ObjectiveID)
		return
	}
	s.User.ScoreFunctions.Set(m.ObjectiveID, m.ScoreFunction.Clone())
}

func newScoreFunctionMemento(id string, sf preference.ScoreFunction) *ScoreFunctionMemento {
	m := &ScoreFunctionMemento{ObjectiveID: id}
	if sf != nil {
		m.ScoreFunction = sf.Clone()
	}
	return m
}

// WeightMapMemento holds a copy-on-write snapshot of a user's weights.
type WeightMapMemento struct {
	Weights *preference.WeightMap
}

func (m *WeightMapMemento) ChangeType() ChangeType { return WeightMapChange }

func (m *WeightMapMemento) Equal(other Memento) bool {
	o, ok := other.(*WeightMapMemento)
	return ok && m.Weights.Equal(o.Weights)
}

func (m *WeightMapMemento) capture(s *State) Memento {
	return &WeightMapMemento{Weights: s.User.Weights.Snapshot()}
}

func (m *WeightMapMemento) restore(s *State) {
	s.User.Weights = m.Weights.Snapshot()
}

// AlternativeOrderMemento holds the displayed order of alternative names.
type AlternativeOrderMemento struct {
	Order []string
}

func (m *AlternativeOrderMemento) ChangeType() ChangeType { return AlternativeOrderChange }

func (m *AlternativeOrderMemento) Equal(other Memento) bool {
	o, ok := other.(*AlternativeOrderMemento)
	if !ok || len(o.Order) != len(m.Order) {
		return false
	}
	for i := range m.Order {
		if m.Order[i] != o.Order[i] {
			return false
		}
	}
	return true
}

func (m *AlternativeOrderMemento) capture(s *State) Memento {
	return &AlternativeOrderMemento{Order: append([]string(nil), s.AlternativeOrder...)}
}

func (m *AlternativeOrderMemento) restore(s *State) {
	s.AlternativeOrder = append([]string(nil), m.Order...)
}

// ObjectivesMemento holds a deep copy of the objective tree.
type ObjectivesMemento struct {
	Root *preference.Objective
}

func (m *ObjectivesMemento) ChangeType() ChangeType { return ObjectivesChange }

func (m *ObjectivesMemento) Equal(other Memento) bool {
	o, ok := other.(*ObjectivesMemento)
	if !ok {
		return false
	}
	if m.Root == nil || o.Root == nil {
		return m.Root == nil && o.Root == nil
	}
	return m.Root.Equal(o.Root)
}

func (m *ObjectivesMemento) capture(s *State) Memento {
	if s.Objectives == nil {
		return &ObjectivesMemento{}
	}
	return &ObjectivesMemento{Root: s.Objectives.Clone()}
}

func (m *ObjectivesMemento) restore(s *State) {
	if m.Root == nil {
		s.Objectives = nil
		return
	}
	s.Objectives = m.Root.Clone()
}
