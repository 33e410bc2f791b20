package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// Op names a history traversal.
type Op string

const (
	OpUndo Op = "undo"
	OpRedo Op = "redo"
)

// Entry is one recorded change.
type Entry struct {
	ID          string     `json:"id"`
	ChangeType  ChangeType `json:"change_type"`
	ObjectiveID string     `json:"objective_id,omitempty"`
	SavedAt     time.Time  `json:"saved_at"`
	Memento     Memento    `json:"-"`
}

func newEntry(m Memento) Entry {
	e := Entry{ID: uuid.New().String(), ChangeType: m.ChangeType(), SavedAt: time.Now().UTC(), Memento: m}
	if sf, ok := m.(*ScoreFunctionMemento); ok {
		e.ObjectiveID = sf.ObjectiveID
	}
	return e
}

// Event is delivered to observers after an undo or redo has mutated state.
// Memento is the state that was restored.
type Event struct {
	Op          Op
	ChangeType  ChangeType
	ObjectiveID string
	Memento     Memento
}

type Observer func(Event)

// Manager keeps the undo and redo stacks for one editing session. It is
// not safe for concurrent use.
type Manager struct {
	undo      []Entry
	redo      []Entry
	maxDepth  int
	observers []Observer
}

// NewManager creates a Manager. maxDepth bounds the undo stack, dropping
// the oldest entries; 0 means unbounded.
func NewManager(maxDepth int) *Manager {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Manager{maxDepth: maxDepth}
}

func (m *Manager) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Manager) SaveScoreFunctionRecord(objectiveID string, sf preference.ScoreFunction) {
	m.save(newScoreFunctionMemento(objectiveID, sf))
}

func (m *Manager) SaveWeightMapRecord(wm *preference.WeightMap) {
	m.save(&WeightMapMemento{Weights: wm.Snapshot()})
}

func (m *Manager) SaveAlternativeOrderRecord(order []string) {
	m.save(&AlternativeOrderMemento{Order: append([]string(nil), order...)})
}

func (m *Manager) SaveObjectivesRecord(root *preference.Objective) {
	if root == nil {
		m.save(&ObjectivesMemento{})
		return
	}
	m.save(&ObjectivesMemento{Root: root.Clone()})
}

// save pushes mem unless it equals the top of the undo stack. A fresh
// record invalidates redo history.
func (m *Manager) save(mem Memento) {
	if n := len(m.undo); n > 0 && m.undo[n-1].Memento.Equal(mem) {
		return
	}
	m.redo = nil
	m.undo = append(m.undo, newEntry(mem))
	if m.maxDepth > 0 && len(m.undo) > m.maxDepth {
		m.undo = append([]Entry(nil), m.undo[len(m.undo)-m.maxDepth:]...)
	}
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Undo restores the most recent record into s, keeping the state it
// replaced for Redo. Reports false when there is nothing to undo.
func (m *Manager) Undo(s *State) bool {
	if !m.CanUndo() {
		return false
	}
	e := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, newEntry(e.Memento.capture(s)))
	e.Memento.restore(s)
	m.notify(OpUndo, e)
	return true
}

// Redo is the inverse of Undo.
func (m *Manager) Redo(s *State) bool {
	if !m.CanRedo() {
		return false
	}
	e := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, newEntry(e.Memento.capture(s)))
	e.Memento.restore(s)
	m.notify(OpRedo, e)
	return true
}

func (m *Manager) notify(op Op, e Entry) {
	ev := Event{Op: op, ChangeType: e.ChangeType, ObjectiveID: e.ObjectiveID, Memento: e.Memento}
	for _, o := range m.observers {
		o(ev)
	}
}

// UndoEntries returns the undo stack, oldest first.
func (m *Manager) UndoEntries() []Entry { return append([]Entry(nil), m.undo...) }

// RedoEntries returns the redo stack, oldest first.
func (m *Manager) RedoEntries() []Entry { return append([]Entry(nil), m.redo...) }
