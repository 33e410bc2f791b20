package weighting

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: expected %.10f, got %.10f", name, want, got)
	}
}

func weight(wm *preference.WeightMap, id string) float64 {
	w, _ := wm.ObjectiveWeight(id)
	return w
}

func TestRankWeightsSumToOne(t *testing.T) {
	for n := 1; n <= 25; n++ {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = fmt.Sprintf("o%d", i)
		}
		wm, err := RankWeights(ids)
		if err != nil {
			t.Fatal(err)
		}
		var sum float64
		prev := math.Inf(1)
		for _, id := range ids {
			w := weight(wm, id)
			if w > prev {
				t.Errorf("n=%d: weight of %s (%v) exceeds the one ranked before it (%v)", n, id, w, prev)
			}
			prev = w
			sum += w
		}
		if math.Abs(sum-1) > 1e-8*float64(n) {
			t.Errorf("n=%d: weights sum to %.12f", n, sum)
		}
	}
}

func TestRankWeightsThreeObjectives(t *testing.T) {
	wm, err := RankWeights([]string{"C", "A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "C", weight(wm, "C"), (1+1.0/2+1.0/3)/3)
	approx(t, "A", weight(wm, "A"), (1.0/2+1.0/3)/3)
	approx(t, "B", weight(wm, "B"), (1.0/3)/3)

	if ids := wm.IDs(); ids[0] != "C" || ids[2] != "B" {
		t.Errorf("expected rank order preserved, got %v", ids)
	}
}

func TestRankWeightsSingle(t *testing.T) {
	wm, err := RankWeights([]string{"only"})
	if err != nil {
		t.Fatal(err)
	}
	if w := weight(wm, "only"); w != 1 {
		t.Errorf("expected 1, got %v", w)
	}
}

func TestRankWeightsInvalid(t *testing.T) {
	if _, err := RankWeights(nil); !errors.Is(err, preference.ErrEmptyObjectiveSet) {
		t.Errorf("expected ErrEmptyObjectiveSet, got %v", err)
	}
	if _, err := RankWeights([]string{"a", "b", "a"}); !errors.Is(err, preference.ErrDuplicateObjective) {
		t.Errorf("expected ErrDuplicateObjective, got %v", err)
	}
}

func TestRankWeightPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for rank 0")
		}
	}()
	RankWeight(0, 3)
}
