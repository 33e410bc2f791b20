package session

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MikeSquared-Agency/ValueCharts/internal/history"
	"github.com/MikeSquared-Agency/ValueCharts/internal/metrics"
	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
	"github.com/MikeSquared-Agency/ValueCharts/internal/scoring"
	"github.com/MikeSquared-Agency/ValueCharts/internal/weighting"
)

// Key identifies one user's editing session on one chart.
type Key struct {
	ChartID  string `json:"chart_id"`
	Username string `json:"username"`
}

// Session owns one user's in-progress preferences: the user, the history
// manager and the interaction controller. Every method serializes on the
// session mutex.
type Session struct {
	Key Key

	mu         sync.Mutex
	chart      *preference.Chart
	state      history.State
	history    *history.Manager
	controller *weighting.Controller
	scorer     *scoring.Scorer
	onWeights  func(kind string)

	createdAt  time.Time
	lastAccess atomic.Int64
}

func newSession(key Key, chart *preference.Chart, user *preference.User, order []string, h *history.Manager, scorer *scoring.Scorer, now time.Time) *Session {
	s := &Session{
		Key:   key,
		chart: chart,
		state: history.State{
			User:             user,
			AlternativeOrder: order,
			Objectives:       chart.Root.Clone(),
		},
		history:    h,
		controller: weighting.NewController(chart.Root),
		scorer:     scorer,
		onWeights:  func(string) {},
		createdAt:  now,
	}
	s.lastAccess.Store(now.UnixNano())
	return s
}

func (s *Session) touch(now time.Time) { s.lastAccess.Store(now.UnixNano()) }

// LastAccess returns when the session was last used.
func (s *Session) LastAccess() time.Time { return time.Unix(0, s.lastAccess.Load()) }

// View is a point-in-time copy of the session state.
type View struct {
	ChartID          string                       `json:"chart_id"`
	Username         string                       `json:"username"`
	Weights          *preference.WeightMap        `json:"weights"`
	ScoreFunctions   *preference.ScoreFunctionMap `json:"score_functions"`
	AlternativeOrder []string                     `json:"alternative_order"`
	Objectives       *preference.Objective        `json:"objectives"`
	Labels           *weighting.LabelData         `json:"labels"`
	PumpMode         weighting.PumpMode           `json:"pump_mode"`
	DragMode         weighting.DragMode           `json:"drag_mode"`
	Gesture          *weighting.DragGesture       `json:"gesture,omitempty"`
	CanUndo          bool                         `json:"can_undo"`
	CanRedo          bool                         `json:"can_redo"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	v := View{
		ChartID:          s.Key.ChartID,
		Username:         s.Key.Username,
		Weights:          s.state.User.Weights.Snapshot(),
		ScoreFunctions:   s.state.User.ScoreFunctions.Clone(),
		AlternativeOrder: append([]string(nil), s.state.AlternativeOrder...),
		Objectives:       s.state.Objectives.Clone(),
		Labels:           weighting.BuildLabelData(s.chart.Root, s.state.User.Weights),
		PumpMode:         s.controller.PumpMode(),
		DragMode:         s.controller.DragMode(),
		CanUndo:          s.history.CanUndo(),
		CanRedo:          s.history.CanRedo(),
	}
	if g := s.controller.Gesture(); g != nil {
		gc := *g
		v.Gesture = &gc
	}
	return v
}

func (s *Session) primitiveIDs() []string { return s.chart.Root.PrimitiveIDs() }

// SetWeights replaces the weight of each listed primitive. Weights are not
// normalized.
func (s *Session) SetWeights(pairs []preference.WeightPair) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prims := make(map[string]struct{})
	for _, id := range s.primitiveIDs() {
		prims[id] = struct{}{}
	}
	for _, p := range pairs {
		if _, ok := prims[p.ObjectiveID]; !ok {
			return View{}, fmt.Errorf("%w: %s", preference.ErrNotPrimitive, p.ObjectiveID)
		}
		if p.Weight < 0 || math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) {
			return View{}, fmt.Errorf("%w: %s=%v", ErrInvalidWeight, p.ObjectiveID, p.Weight)
		}
	}

	s.history.SaveWeightMapRecord(s.state.User.Weights)
	for _, p := range pairs {
		s.state.User.Weights.SetObjectiveWeight(p.ObjectiveID, p.Weight)
	}
	s.onWeights(metrics.KindSet)
	return s.view(), nil
}

// Rank replaces the user's weights with SMARTER weights for ids, most
// important first.
func (s *Session) Rank(ids []string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prims := s.primitiveIDs()
	if len(ids) != len(prims) {
		return View{}, fmt.Errorf("%w: got %d of %d", ErrInvalidRanking, len(ids), len(prims))
	}
	for _, id := range ids {
		if !containsString(prims, id) {
			return View{}, fmt.Errorf("%w: %s is not a primitive objective", ErrInvalidRanking, id)
		}
	}
	wm, err := weighting.RankWeights(ids)
	if err != nil {
		return View{}, err
	}

	s.history.SaveWeightMapRecord(s.state.User.Weights)
	s.state.User.Weights = wm
	s.onWeights(metrics.KindRank)
	return s.view(), nil
}

// SetInteraction switches pump and drag modes. Switching drag mode
// detaches any attached gesture.
func (s *Session) SetInteraction(pump weighting.PumpMode, drag weighting.DragMode) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pump != "" {
		if err := s.controller.SetPumpMode(pump); err != nil {
			return View{}, err
		}
	}
	if drag != "" {
		if err := s.controller.SetDragMode(drag); err != nil {
			return View{}, err
		}
	}
	return s.view(), nil
}

// Pump applies the active pump mode to objectiveID. A pump that changes
// nothing records no history.
func (s *Session) Pump(objectiveID string) (View, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot before the edit, push after: an unchanged pump must not
	// clear the redo stack.
	before := s.state.User.Weights.Snapshot()
	changed, err := s.controller.Pump(s.state.User.Weights, objectiveID)
	if err != nil {
		return View{}, false, err
	}
	if changed {
		s.history.SaveWeightMapRecord(before)
		s.onWeights(metrics.KindPump)
	}
	return s.view(), changed, nil
}

// StartDrag records the current weights and attaches a gesture.
func (s *Session) StartDrag(parentID string, divider int) (*weighting.DragGesture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.controller.StartDrag(parentID, divider)
	if err != nil {
		return nil, err
	}
	s.history.SaveWeightMapRecord(s.state.User.Weights)
	gc := *g
	return &gc, nil
}

func (s *Session) attached(gestureID string) (*weighting.DragGesture, error) {
	g := s.controller.Gesture()
	if g == nil || g.ID != gestureID {
		return nil, weighting.ErrGestureDetached
	}
	return g, nil
}

// MoveDrag applies one drag step to the attached gesture.
func (s *Session) MoveDrag(gestureID string, delta float64) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.attached(gestureID)
	if err != nil {
		return View{}, err
	}
	if err := g.Move(s.state.User.Weights, delta); err != nil {
		return View{}, err
	}
	return s.view(), nil
}

// EndDrag normalizes and releases the attached gesture.
func (s *Session) EndDrag(gestureID string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.attached(gestureID); err != nil {
		return View{}, err
	}
	if err := s.controller.EndDrag(s.state.User.Weights); err != nil {
		return View{}, err
	}
	s.onWeights(metrics.KindDrag)
	return s.view(), nil
}

// SetScoreFunction replaces the user's score function for a primitive.
func (s *Session) SetScoreFunction(objectiveID string, sf preference.ScoreFunction) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj := s.chart.Root.Find(objectiveID)
	if obj == nil {
		return View{}, fmt.Errorf("%w: %s", preference.ErrObjectiveNotFound, objectiveID)
	}
	if !obj.IsPrimitive() {
		return View{}, fmt.Errorf("%w: %s", preference.ErrNotPrimitive, objectiveID)
	}
	for _, e := range sf.Elements() {
		if !obj.Domain.Contains(e) {
			return View{}, fmt.Errorf("%w: %s not in domain of %s", preference.ErrElementNotFound, e, objectiveID)
		}
	}

	current, _ := s.state.User.ScoreFunctions.Get(objectiveID)
	s.history.SaveScoreFunctionRecord(objectiveID, current)
	s.state.User.ScoreFunctions.Set(objectiveID, sf.EditableCopy())
	return s.view(), nil
}

// SetAlternativeOrder reorders the displayed alternatives.
func (s *Session) SetAlternativeOrder(order []string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(order) != len(s.chart.Alternatives) {
		return View{}, fmt.Errorf("%w: got %d of %d", ErrInvalidOrder, len(order), len(s.chart.Alternatives))
	}
	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		if s.chart.AlternativeIndex(name) < 0 {
			return View{}, fmt.Errorf("%w: unknown alternative %q", ErrInvalidOrder, name)
		}
		if _, dup := seen[name]; dup {
			return View{}, fmt.Errorf("%w: %q listed twice", ErrInvalidOrder, name)
		}
		seen[name] = struct{}{}
	}

	s.history.SaveAlternativeOrderRecord(s.state.AlternativeOrder)
	s.state.AlternativeOrder = append([]string(nil), order...)
	return s.view(), nil
}

// ObjectiveEdit changes an objective's display attributes. Empty fields
// are left unchanged.
type ObjectiveEdit struct {
	Name        string
	Description string
	Color       string
}

// EditObjective applies a display edit to the session's objective tree.
// Only the chart creator may edit objectives; the change reaches the chart
// on commit.
func (s *Session) EditObjective(objectiveID string, edit ObjectiveEdit) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chart.Creator != "" && s.chart.Creator != s.Key.Username {
		return View{}, ErrNotCreator
	}
	if s.state.Objectives.Find(objectiveID) == nil {
		return View{}, fmt.Errorf("%w: %s", preference.ErrObjectiveNotFound, objectiveID)
	}

	s.history.SaveObjectivesRecord(s.state.Objectives)
	root := s.state.Objectives.Clone()
	obj := root.Find(objectiveID)
	if edit.Name != "" {
		obj.Name = edit.Name
	}
	if edit.Description != "" {
		obj.Description = edit.Description
	}
	if edit.Color != "" {
		obj.Color = edit.Color
	}
	s.state.Objectives = root
	return s.view(), nil
}

// Undo reverts the most recent recorded change. Reports false when there
// is nothing to undo.
func (s *Session) Undo() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.history.Undo(&s.state)
	return s.view(), ok
}

// Redo reapplies the most recently undone change.
func (s *Session) Redo() (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.history.Redo(&s.state)
	return s.view(), ok
}

func (s *Session) History() (undo, redo []history.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.UndoEntries(), s.history.RedoEntries()
}

// Scores holds alternative scores in display order and the Pareto frontier.
type Scores struct {
	Results  []scoring.ScoringResult   `json:"results"`
	Ranked   []scoring.ScoringResult   `json:"ranked"`
	Frontier []scoring.ParetoCandidate `json:"frontier"`
}

func (s *Session) Scores() Scores {
	s.mu.Lock()
	defer s.mu.Unlock()

	ranked := s.scorer.ScoreAll(s.chart, s.state.User)
	byName := make(map[string]scoring.ScoringResult, len(ranked))
	for _, r := range ranked {
		byName[r.Alternative] = r
	}
	results := make([]scoring.ScoringResult, 0, len(ranked))
	for _, name := range s.state.AlternativeOrder {
		if r, ok := byName[name]; ok {
			results = append(results, r)
		}
	}
	return Scores{
		Results:  results,
		Ranked:   ranked,
		Frontier: scoring.ComputeFrontier(scoring.CandidatesFromResults(results)),
	}
}

// validated returns copies of the state to persist after checking it.
func (s *Session) validated() (*preference.User, []string, *preference.Objective, error) {
	if err := s.state.User.Validate(s.chart.Root); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	var objectives *preference.Objective
	if !s.state.Objectives.Equal(s.chart.Root) {
		objectives = s.state.Objectives.Clone()
	}
	return s.state.User.Clone(), append([]string(nil), s.state.AlternativeOrder...), objectives, nil
}

func containsString(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
