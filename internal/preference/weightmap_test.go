package preference

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalizedObjectiveWeight(t *testing.T) {
	wm := NewWeightMap()
	wm.SetObjectiveWeight("A", 3)
	wm.SetObjectiveWeight("B", 5)
	wm.SetObjectiveWeight("C", 2)

	if got := wm.WeightTotal(); got != 10 {
		t.Fatalf("expected total 10, got %f", got)
	}
	if got := wm.NormalizedObjectiveWeight("B"); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
	if got := wm.NormalizedObjectiveWeight("missing"); got != 0 {
		t.Errorf("expected 0 for unknown id, got %f", got)
	}
}

func TestNormalizedObjectiveWeightZeroTotal(t *testing.T) {
	wm := NewWeightMap()
	wm.SetObjectiveWeight("A", 0)
	if got := wm.NormalizedObjectiveWeight("A"); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	wm := NewWeightMap()
	for id, w := range map[string]float64{"a": 0.7, "b": 3.1, "c": 0, "d": 12.25, "e": 1e-3} {
		wm.SetObjectiveWeight(id, w)
	}
	wm.Normalize()
	once := wm.Pairs()
	wm.Normalize()
	twice := wm.Pairs()

	for i := range once {
		if once[i].ObjectiveID != twice[i].ObjectiveID {
			t.Fatalf("order changed: %s vs %s", once[i].ObjectiveID, twice[i].ObjectiveID)
		}
		if math.Abs(once[i].Weight-twice[i].Weight) > 1e-12 {
			t.Errorf("%s: %v after one normalize, %v after two", once[i].ObjectiveID, once[i].Weight, twice[i].Weight)
		}
	}
	if math.Abs(wm.WeightTotal()-1) > 1e-8*5 {
		t.Errorf("expected total 1, got %v", wm.WeightTotal())
	}
}

func TestNormalizeZeroTotalIsNoop(t *testing.T) {
	wm := NewWeightMap()
	wm.SetObjectiveWeight("a", 0)
	wm.SetObjectiveWeight("b", 0)
	wm.Normalize()
	for _, p := range wm.Pairs() {
		if p.Weight != 0 || math.IsNaN(p.Weight) {
			t.Errorf("%s: expected 0, got %v", p.ObjectiveID, p.Weight)
		}
	}
}

func TestRunningTotalTracksEdits(t *testing.T) {
	wm := NewWeightMap()
	wm.SetObjectiveWeight("a", 0.25)
	wm.SetObjectiveWeight("b", 0.5)
	wm.SetObjectiveWeight("a", 0.75)
	wm.RemoveObjectiveWeight("b")
	wm.RemoveObjectiveWeight("never-set")

	if got := wm.WeightTotal(); math.Abs(got-0.75) > 1e-12 {
		t.Errorf("expected running total 0.75, got %v", got)
	}
	if got := wm.RecalculateWeightTotal(); got != 0.75 {
		t.Errorf("expected recalculated total 0.75, got %v", got)
	}
	if _, ok := wm.ObjectiveWeight("b"); ok {
		t.Error("expected b to be removed")
	}
}

func TestObjectiveWeightsPassesThroughUnknown(t *testing.T) {
	wm := NewWeightMap()
	wm.SetObjectiveWeight("a", 0.4)
	wm.SetObjectiveWeight("b", 0.6)

	got := wm.ObjectiveWeights([]string{"b", "x", "a"})
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0] == nil || *got[0] != 0.6 {
		t.Errorf("expected b=0.6, got %v", got[0])
	}
	if got[1] != nil {
		t.Errorf("expected nil for unknown id, got %v", *got[1])
	}
	if got[2] == nil || *got[2] != 0.4 {
		t.Errorf("expected a=0.4, got %v", got[2])
	}
}

func TestSnapshotIsolation(t *testing.T) {
	wm := NewWeightMap()
	wm.SetObjectiveWeight("a", 1)
	wm.SetObjectiveWeight("b", 1)

	snap := wm.Snapshot()
	wm.SetObjectiveWeight("a", 5)
	wm.Normalize()

	if w, _ := snap.ObjectiveWeight("a"); w != 1 {
		t.Errorf("snapshot changed: a=%v", w)
	}
	if snap.WeightTotal() != 2 {
		t.Errorf("snapshot total changed: %v", snap.WeightTotal())
	}

	snap.SetObjectiveWeight("b", 9)
	if w, _ := wm.ObjectiveWeight("b"); math.Abs(w-1.0/6) > 1e-12 {
		t.Errorf("writing the snapshot leaked into the source: b=%v", w)
	}
}

func TestWeightMapSerializesAsPairs(t *testing.T) {
	wm := NewWeightMap()
	wm.SetObjectiveWeight("cost", 0.25)
	wm.SetObjectiveWeight("speed", 0.75)

	data, err := json.Marshal(wm)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[["cost",0.25],["speed",0.75]]` {
		t.Errorf("unexpected encoding %s", data)
	}

	var back WeightMap
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(wm) {
		t.Errorf("round trip mismatch: %v", back.Pairs())
	}
}
