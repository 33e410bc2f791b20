package preference

import (
	"encoding/json"
	"fmt"
)

// WeightMap maps objective ids to non-negative weights. Intermediate
// states need not sum to 1; Normalize restores that.
//
// Snapshots share storage with the map they were taken from. The first
// write on either side copies, so taking a snapshot before every edit is
// O(1) until the edit actually happens.
type WeightMap struct {
	d      *weightData
	shared bool
}

type weightData struct {
	weights map[string]float64
	order   []string
	total   float64
}

func (d *weightData) clone() *weightData {
	c := &weightData{
		weights: make(map[string]float64, len(d.weights)),
		order:   append([]string(nil), d.order...),
		total:   d.total,
	}
	for k, v := range d.weights {
		c.weights[k] = v
	}
	return c
}

func NewWeightMap() *WeightMap {
	return &WeightMap{d: &weightData{weights: make(map[string]float64)}}
}

// WeightPair is one [objectiveId, weight] entry. It encodes as a
// two-element JSON array.
type WeightPair struct {
	ObjectiveID string
	Weight      float64
}

func (p WeightPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.ObjectiveID, p.Weight})
}

func (p *WeightPair) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("weight pair: %w", err)
	}
	if err := json.Unmarshal(raw[0], &p.ObjectiveID); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Weight)
}

// WeightMapFromPairs builds a map from serialized pairs. Later pairs
// overwrite earlier ones with the same id.
func WeightMapFromPairs(pairs []WeightPair) *WeightMap {
	wm := NewWeightMap()
	for _, p := range pairs {
		wm.SetObjectiveWeight(p.ObjectiveID, p.Weight)
	}
	return wm
}

func (wm *WeightMap) mutate() *weightData {
	if wm.shared {
		wm.d = wm.d.clone()
		wm.shared = false
	}
	return wm.d
}

// SetObjectiveWeight inserts or overwrites a weight. No renormalization
// happens.
func (wm *WeightMap) SetObjectiveWeight(id string, weight float64) {
	d := wm.mutate()
	prev, ok := d.weights[id]
	if !ok {
		d.order = append(d.order, id)
	}
	d.weights[id] = weight
	d.total += weight - prev
}

func (wm *WeightMap) ObjectiveWeight(id string) (float64, bool) {
	w, ok := wm.d.weights[id]
	return w, ok
}

func (wm *WeightMap) RemoveObjectiveWeight(id string) {
	if _, ok := wm.d.weights[id]; !ok {
		return
	}
	d := wm.mutate()
	d.total -= d.weights[id]
	delete(d.weights, id)
	for i, o := range d.order {
		if o == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// WeightTotal returns the running total.
func (wm *WeightMap) WeightTotal() float64 { return wm.d.total }

// RecalculateWeightTotal recomputes the running total from scratch,
// discarding drift accumulated by incremental updates.
func (wm *WeightMap) RecalculateWeightTotal() float64 {
	var total float64
	for _, id := range wm.d.order {
		total += wm.d.weights[id]
	}
	if total != wm.d.total {
		wm.mutate().total = total
	}
	return total
}

// Normalize divides every weight by the total. A zero total is left alone.
func (wm *WeightMap) Normalize() {
	total := wm.RecalculateWeightTotal()
	if total == 0 {
		return
	}
	d := wm.mutate()
	var sum float64
	for _, id := range d.order {
		d.weights[id] /= total
		sum += d.weights[id]
	}
	d.total = sum
}

// NormalizedObjectiveWeight returns weight/total, or 0 when the total is 0
// or the id is unknown.
func (wm *WeightMap) NormalizedObjectiveWeight(id string) float64 {
	if wm.d.total == 0 {
		return 0
	}
	return wm.d.weights[id] / wm.d.total
}

// ObjectiveWeights projects weights in the given order. Unknown ids come
// back as nil.
func (wm *WeightMap) ObjectiveWeights(ids []string) []*float64 {
	out := make([]*float64, len(ids))
	for i, id := range ids {
		if w, ok := wm.d.weights[id]; ok {
			out[i] = &w
		}
	}
	return out
}

// IDs returns objective ids in insertion order.
func (wm *WeightMap) IDs() []string { return append([]string(nil), wm.d.order...) }

func (wm *WeightMap) Len() int { return len(wm.d.order) }

func (wm *WeightMap) Pairs() []WeightPair {
	out := make([]WeightPair, len(wm.d.order))
	for i, id := range wm.d.order {
		out[i] = WeightPair{ObjectiveID: id, Weight: wm.d.weights[id]}
	}
	return out
}

// Snapshot returns a copy that shares storage until either side is written.
func (wm *WeightMap) Snapshot() *WeightMap {
	wm.shared = true
	return &WeightMap{d: wm.d, shared: true}
}

// Equal reports whether both maps hold the same id -> weight associations.
func (wm *WeightMap) Equal(o *WeightMap) bool {
	if o == nil {
		return false
	}
	if wm.d == o.d {
		return true
	}
	if len(wm.d.weights) != len(o.d.weights) {
		return false
	}
	for id, w := range wm.d.weights {
		if ow, ok := o.d.weights[id]; !ok || ow != w {
			return false
		}
	}
	return true
}

func (wm *WeightMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(wm.Pairs())
}

func (wm *WeightMap) UnmarshalJSON(data []byte) error {
	var pairs []WeightPair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	*wm = *WeightMapFromPairs(pairs)
	return nil
}
