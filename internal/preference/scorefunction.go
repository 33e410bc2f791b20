package preference

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ScoreFunctionKind identifies the variant of a ScoreFunction.
type ScoreFunctionKind string

const (
	ScoreFunctionDiscrete   ScoreFunctionKind = "discrete"
	ScoreFunctionContinuous ScoreFunctionKind = "continuous"
)

// ScoreFunction maps domain elements to utility scores. Scores are stored
// raw; keeping them inside [0,1] is the caller's job until validation.
type ScoreFunction interface {
	Kind() ScoreFunctionKind
	Score(e Element) (float64, error)
	SetElementScore(e Element, score float64) error
	RemoveElement(e Element) error
	// Elements returns the explicitly scored elements.
	Elements() []Element
	Best() Element
	Worst() Element
	Immutable() bool
	// Clone returns a deep copy with the same immutability.
	Clone() ScoreFunction
	// EditableCopy returns a deep copy that accepts mutation.
	EditableCopy() ScoreFunction
	Equal(other ScoreFunction) bool
	Pairs() []ScorePair
	scoreFunction()
}

// ScorePair is one [element, score] entry. It encodes as a two-element
// JSON array.
type ScorePair struct {
	Element Element
	Score   float64
}

func (p ScorePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.Element, p.Score})
}

func (p *ScorePair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("score pair: %w", err)
	}
	if err := json.Unmarshal(raw[0], &p.Element); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Score)
}

// Interpolate returns the linear interpolation between (e0, s0) and
// (e1, s1) at x. Anchors must satisfy e0 < e1.
func Interpolate(e0, s0, e1, s1, x float64) (float64, error) {
	if !(e0 < e1) {
		return 0, fmt.Errorf("%w: [%v, %v]", ErrInvalidInterpolationRange, e0, e1)
	}
	return s0 + (s1-s0)*(x-e0)/(e1-e0), nil
}

// DiscreteScoreFunction scores each element from an explicit table.
type DiscreteScoreFunction struct {
	scores    map[Element]float64
	order     []Element
	immutable bool
	best      Element
	worst     Element
}

func NewDiscreteScoreFunction(immutable bool, pairs ...ScorePair) *DiscreteScoreFunction {
	f := &DiscreteScoreFunction{scores: make(map[Element]float64, len(pairs))}
	for _, p := range pairs {
		f.set(p.Element, p.Score)
	}
	f.refreshExtremes()
	f.immutable = immutable
	return f
}

func (f *DiscreteScoreFunction) Kind() ScoreFunctionKind { return ScoreFunctionDiscrete }
func (f *DiscreteScoreFunction) Immutable() bool         { return f.immutable }
func (f *DiscreteScoreFunction) Best() Element           { return f.best }
func (f *DiscreteScoreFunction) Worst() Element          { return f.worst }
func (f *DiscreteScoreFunction) scoreFunction()          {}

func (f *DiscreteScoreFunction) Score(e Element) (float64, error) {
	s, ok := f.scores[e]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrElementNotFound, e)
	}
	return s, nil
}

func (f *DiscreteScoreFunction) SetElementScore(e Element, score float64) error {
	if f.immutable {
		return ErrImmutableScoreFunction
	}
	f.set(e, score)
	f.refreshExtremes()
	return nil
}

func (f *DiscreteScoreFunction) set(e Element, score float64) {
	if _, ok := f.scores[e]; !ok {
		f.order = append(f.order, e)
	}
	f.scores[e] = score
}

func (f *DiscreteScoreFunction) RemoveElement(e Element) error {
	if f.immutable {
		return ErrImmutableScoreFunction
	}
	if _, ok := f.scores[e]; !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, e)
	}
	delete(f.scores, e)
	for i, o := range f.order {
		if o == e {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	f.refreshExtremes()
	return nil
}

func (f *DiscreteScoreFunction) Elements() []Element {
	return append([]Element(nil), f.order...)
}

func (f *DiscreteScoreFunction) Pairs() []ScorePair {
	out := make([]ScorePair, len(f.order))
	for i, e := range f.order {
		out[i] = ScorePair{Element: e, Score: f.scores[e]}
	}
	return out
}

func (f *DiscreteScoreFunction) Clone() ScoreFunction {
	return NewDiscreteScoreFunction(f.immutable, f.Pairs()...)
}

func (f *DiscreteScoreFunction) EditableCopy() ScoreFunction {
	return NewDiscreteScoreFunction(false, f.Pairs()...)
}

func (f *DiscreteScoreFunction) Equal(other ScoreFunction) bool {
	return equalScoreFunctions(f, other)
}

func (f *DiscreteScoreFunction) refreshExtremes() {
	f.best, f.worst = extremes(f.Pairs())
}

// Anchor is a scored point of a continuous score function.
type Anchor = ScorePair

// ContinuousScoreFunction scores numeric elements by piecewise-linear
// interpolation between anchors kept in increasing element order.
type ContinuousScoreFunction struct {
	anchors   []Anchor
	immutable bool
	best      Element
	worst     Element
}

func NewContinuousScoreFunction(immutable bool, anchors ...Anchor) (*ContinuousScoreFunction, error) {
	f := &ContinuousScoreFunction{}
	for _, a := range anchors {
		if err := f.set(a.Element, a.Score); err != nil {
			return nil, err
		}
	}
	f.refreshExtremes()
	f.immutable = immutable
	return f, nil
}

func (f *ContinuousScoreFunction) Kind() ScoreFunctionKind { return ScoreFunctionContinuous }
func (f *ContinuousScoreFunction) Immutable() bool         { return f.immutable }
func (f *ContinuousScoreFunction) Best() Element           { return f.best }
func (f *ContinuousScoreFunction) Worst() Element          { return f.worst }
func (f *ContinuousScoreFunction) scoreFunction()          {}

// Score returns the anchor score at an anchor, the interpolated score
// between anchors and the nearest anchor's score outside them.
func (f *ContinuousScoreFunction) Score(e Element) (float64, error) {
	x, ok := e.Float()
	if !ok || len(f.anchors) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrElementNotFound, e)
	}
	first, last := f.anchors[0], f.anchors[len(f.anchors)-1]
	if x <= first.Element.value {
		return first.Score, nil
	}
	if x >= last.Element.value {
		return last.Score, nil
	}
	i := f.search(x)
	if f.anchors[i].Element.value == x {
		return f.anchors[i].Score, nil
	}
	lo, hi := f.anchors[i-1], f.anchors[i]
	return Interpolate(lo.Element.value, lo.Score, hi.Element.value, hi.Score, x)
}

// search returns the index of the first anchor with element >= x.
func (f *ContinuousScoreFunction) search(x float64) int {
	return sort.Search(len(f.anchors), func(i int) bool {
		return f.anchors[i].Element.value >= x
	})
}

func (f *ContinuousScoreFunction) SetElementScore(e Element, score float64) error {
	if f.immutable {
		return ErrImmutableScoreFunction
	}
	if err := f.set(e, score); err != nil {
		return err
	}
	f.refreshExtremes()
	return nil
}

func (f *ContinuousScoreFunction) set(e Element, score float64) error {
	x, ok := e.Float()
	if !ok {
		return fmt.Errorf("continuous score function needs a numeric element, got %q", e.String())
	}
	i := f.search(x)
	if i < len(f.anchors) && f.anchors[i].Element.value == x {
		f.anchors[i].Score = score
		return nil
	}
	f.anchors = append(f.anchors, Anchor{})
	copy(f.anchors[i+1:], f.anchors[i:])
	f.anchors[i] = Anchor{Element: Number(x), Score: score}
	return nil
}

func (f *ContinuousScoreFunction) RemoveElement(e Element) error {
	if f.immutable {
		return ErrImmutableScoreFunction
	}
	x, ok := e.Float()
	i := f.search(x)
	if !ok || i >= len(f.anchors) || f.anchors[i].Element.value != x {
		return fmt.Errorf("%w: %s", ErrElementNotFound, e)
	}
	f.anchors = append(f.anchors[:i], f.anchors[i+1:]...)
	f.refreshExtremes()
	return nil
}

func (f *ContinuousScoreFunction) Elements() []Element {
	out := make([]Element, len(f.anchors))
	for i, a := range f.anchors {
		out[i] = a.Element
	}
	return out
}

func (f *ContinuousScoreFunction) Pairs() []ScorePair {
	return append([]ScorePair(nil), f.anchors...)
}

func (f *ContinuousScoreFunction) Clone() ScoreFunction {
	return &ContinuousScoreFunction{anchors: f.Pairs(), immutable: f.immutable, best: f.best, worst: f.worst}
}

func (f *ContinuousScoreFunction) EditableCopy() ScoreFunction {
	return &ContinuousScoreFunction{anchors: f.Pairs(), best: f.best, worst: f.worst}
}

func (f *ContinuousScoreFunction) Equal(other ScoreFunction) bool {
	return equalScoreFunctions(f, other)
}

func (f *ContinuousScoreFunction) refreshExtremes() {
	f.best, f.worst = extremes(f.anchors)
}

// extremes returns the first argmax and first argmin of the pairs.
func extremes(pairs []ScorePair) (best, worst Element) {
	if len(pairs) == 0 {
		return Element{}, Element{}
	}
	hi, lo := pairs[0], pairs[0]
	for _, p := range pairs[1:] {
		if p.Score > hi.Score {
			hi = p
		}
		if p.Score < lo.Score {
			lo = p
		}
	}
	return hi.Element, lo.Element
}

func equalScoreFunctions(a, b ScoreFunction) bool {
	if b == nil || a.Kind() != b.Kind() || a.Immutable() != b.Immutable() {
		return false
	}
	pa, pb := a.Pairs(), b.Pairs()
	if len(pa) != len(pb) {
		return false
	}
	if a.Kind() == ScoreFunctionDiscrete {
		// Discrete equality ignores insertion order.
		m := make(map[Element]float64, len(pa))
		for _, p := range pa {
			m[p.Element] = p.Score
		}
		for _, p := range pb {
			if s, ok := m[p.Element]; !ok || s != p.Score {
				return false
			}
		}
		return true
	}
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

// DefaultScoreFunction builds the locked default for a domain. Finite
// domains get a discrete function spread evenly over [0,1] in element
// order; continuous domains get five evenly spaced linear anchors.
func DefaultScoreFunction(d Domain, increasing bool) ScoreFunction {
	if c, ok := d.(*ContinuousDomain); ok {
		const points = 5
		anchors := make([]Anchor, 0, points)
		for k := 0; k < points; k++ {
			t := float64(k) / float64(points-1)
			score := t
			if !increasing {
				score = 1 - t
			}
			x := c.Min + t*(c.Max-c.Min)
			anchors = append(anchors, Anchor{Element: Number(x), Score: score})
		}
		if c.Max == c.Min {
			anchors = []Anchor{{Element: Number(c.Min), Score: 1}}
		}
		f, _ := NewContinuousScoreFunction(true, anchors...)
		return f
	}

	elements := d.Elements()
	pairs := make([]ScorePair, len(elements))
	n := len(elements)
	for i, e := range elements {
		score := 1.0
		if n > 1 {
			score = float64(i) / float64(n-1)
			if !increasing {
				score = 1 - score
			}
		}
		pairs[i] = ScorePair{Element: e, Score: score}
	}
	return NewDiscreteScoreFunction(true, pairs...)
}

type scoreFunctionJSON struct {
	Type      ScoreFunctionKind `json:"type"`
	Immutable bool              `json:"immutable,omitempty"`
	Elements  []ScorePair       `json:"elements"`
}

// MarshalScoreFunction encodes a score function as its kind plus an
// ordered list of [element, score] pairs.
func MarshalScoreFunction(f ScoreFunction) ([]byte, error) {
	return json.Marshal(scoreFunctionJSON{Type: f.Kind(), Immutable: f.Immutable(), Elements: f.Pairs()})
}

// UnmarshalScoreFunction decodes a score function written by MarshalScoreFunction.
func UnmarshalScoreFunction(data []byte) (ScoreFunction, error) {
	var j scoreFunctionJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	return ScoreFunctionFromPairs(j.Type, j.Immutable, j.Elements)
}

func ScoreFunctionFromPairs(kind ScoreFunctionKind, immutable bool, pairs []ScorePair) (ScoreFunction, error) {
	switch kind {
	case ScoreFunctionDiscrete:
		return NewDiscreteScoreFunction(immutable, pairs...), nil
	case ScoreFunctionContinuous:
		return NewContinuousScoreFunction(immutable, pairs...)
	}
	return nil, fmt.Errorf("unknown score function type %q", kind)
}
