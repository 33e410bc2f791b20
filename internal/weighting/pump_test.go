package weighting

import (
	"errors"
	"testing"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

func weightsOf(pairs map[string]float64, order ...string) *preference.WeightMap {
	wm := preference.NewWeightMap()
	for _, id := range order {
		wm.SetObjectiveWeight(id, pairs[id])
	}
	return wm
}

func TestPumpIncreaseAddsOnePoint(t *testing.T) {
	ids := []string{"a", "b", "c"}
	tests := []struct {
		name    string
		weights map[string]float64
		target  string
	}{
		{"small share", map[string]float64{"a": 0.2, "b": 0.3, "c": 0.5}, "a"},
		{"large share", map[string]float64{"a": 0.1, "b": 0.1, "c": 0.8}, "c"},
		{"unnormalized", map[string]float64{"a": 3, "b": 5, "c": 2}, "b"},
		{"zero share", map[string]float64{"a": 0, "b": 0.5, "c": 0.5}, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wm := weightsOf(tt.weights, ids...)
			before := wm.NormalizedObjectiveWeight(tt.target)

			changed, err := Pump(wm, tt.target, ids, PumpIncrease)
			if err != nil || !changed {
				t.Fatalf("changed=%v err=%v", changed, err)
			}
			wm.Normalize()
			approx(t, tt.target, weight(wm, tt.target), before+0.01)
		})
	}
}

func TestPumpIncreaseSaturated(t *testing.T) {
	ids := []string{"a", "b"}
	wm := weightsOf(map[string]float64{"a": 0.995, "b": 0.005}, ids...)
	changed, err := Pump(wm, "a", ids, PumpIncrease)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("pump above 99% should be a no-op")
	}
	approx(t, "a", weight(wm, "a"), 0.995)
}

func TestPumpIncreaseZeroTotal(t *testing.T) {
	ids := []string{"a", "b"}
	wm := weightsOf(map[string]float64{"a": 0, "b": 0}, ids...)
	if _, err := Pump(wm, "a", ids, PumpIncrease); err != nil {
		t.Fatal(err)
	}
	approx(t, "a", weight(wm, "a"), 0.01)
}

func TestPumpDecreaseConservesTotal(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	tests := []struct {
		name      string
		weights   map[string]float64
		wantA     float64
		wantOther float64
	}{
		{"full step", map[string]float64{"a": 0.4, "b": 0.2, "c": 0.2, "d": 0.2}, 0.39, 0.2 + 0.01/3},
		{"clamped at zero", map[string]float64{"a": 0.004, "b": 0.332, "c": 0.332, "d": 0.332}, 0, 0.332 + 0.004/3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wm := weightsOf(tt.weights, ids...)
			total := wm.WeightTotal()

			changed, err := Pump(wm, "a", ids, PumpDecrease)
			if err != nil || !changed {
				t.Fatalf("changed=%v err=%v", changed, err)
			}
			approx(t, "total", wm.RecalculateWeightTotal(), total)
			approx(t, "a", weight(wm, "a"), tt.wantA)
			for _, id := range ids[1:] {
				approx(t, id, weight(wm, id), tt.wantOther)
			}
		})
	}
}

func TestPumpDecreaseNoOps(t *testing.T) {
	wm := weightsOf(map[string]float64{"a": 1}, "a")
	if changed, _ := Pump(wm, "a", []string{"a"}, PumpDecrease); changed {
		t.Error("decrease with a single primitive should be a no-op")
	}

	wm = weightsOf(map[string]float64{"a": 0, "b": 1}, "a", "b")
	if changed, _ := Pump(wm, "a", []string{"a", "b"}, PumpDecrease); changed {
		t.Error("decrease of a zero weight should be a no-op")
	}
}

func TestPumpErrors(t *testing.T) {
	ids := []string{"a", "b"}
	wm := weightsOf(map[string]float64{"a": 0.5, "b": 0.5}, ids...)

	if _, err := Pump(wm, "root", ids, PumpIncrease); !errors.Is(err, preference.ErrNotPrimitive) {
		t.Errorf("expected ErrNotPrimitive, got %v", err)
	}
	if _, err := Pump(wm, "a", ids, PumpOff); !errors.Is(err, ErrNoPumpMode) {
		t.Errorf("expected ErrNoPumpMode, got %v", err)
	}
}
