package weighting

import "github.com/MikeSquared-Agency/ValueCharts/internal/preference"

// LabelData mirrors the objective tree with the weights a renderer lays
// out. Primitive weights come from the weight map; abstract weights are the
// sum of their children.
type LabelData struct {
	ID        string       `json:"id"`
	Weight    float64      `json:"weight"`
	Depth     int          `json:"depth"`
	Primitive bool         `json:"primitive"`
	Children  []*LabelData `json:"children,omitempty"`
}

// BuildLabelData derives the label hierarchy for root from wm.
func BuildLabelData(root *preference.Objective, wm *preference.WeightMap) *LabelData {
	return buildLabel(root, wm, 0)
}

func buildLabel(o *preference.Objective, wm *preference.WeightMap, depth int) *LabelData {
	l := &LabelData{ID: o.ID, Depth: depth, Primitive: o.IsPrimitive()}
	if l.Primitive {
		l.Weight, _ = wm.ObjectiveWeight(o.ID)
		return l
	}
	l.Children = make([]*LabelData, len(o.Children))
	for i, c := range o.Children {
		l.Children[i] = buildLabel(c, wm, depth+1)
		l.Weight += l.Children[i].Weight
	}
	return l
}

// Find returns the label with the given id, or nil.
func (l *LabelData) Find(id string) *LabelData {
	if l.ID == id {
		return l
	}
	for _, c := range l.Children {
		if f := c.Find(id); f != nil {
			return f
		}
	}
	return nil
}

func (l *LabelData) resum() {
	if l.Primitive {
		return
	}
	l.Weight = 0
	for _, c := range l.Children {
		c.resum()
		l.Weight += c.Weight
	}
}

func (l *LabelData) setWeight(wm *preference.WeightMap, w float64) {
	l.Weight = w
	wm.SetObjectiveWeight(l.ID, w)
}
