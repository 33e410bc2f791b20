package scoring

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hotelChart(t *testing.T) *preference.Chart {
	t.Helper()
	area, err := preference.NewCategoricalDomain(false, "airport", "downtown", "beach")
	if err != nil {
		t.Fatal(err)
	}
	root := preference.NewAbstractObjective("hotel", "Hotel",
		preference.NewPrimitiveObjective("area", "Area", area, nil, ""),
		preference.NewPrimitiveObjective("rate", "Rate", &preference.ContinuousDomain{Min: 100, Max: 200}, nil, ""),
	)
	return &preference.Chart{
		ID:   "hotels",
		Name: "Hotels",
		Root: root,
		Alternatives: []preference.Alternative{
			{Name: "Sheraton", Values: map[string]preference.Element{"area": preference.Label("beach"), "rate": preference.Number(150)}},
			{Name: "Hyatt", Values: map[string]preference.Element{"area": preference.Label("airport"), "rate": preference.Number(200)}},
			{Name: "Marriott", Values: map[string]preference.Element{"area": preference.Label("downtown")}},
		},
	}
}

func TestWeightVectorNormalizes(t *testing.T) {
	wm := preference.NewWeightMap()
	wm.SetObjectiveWeight("a", 3)
	wm.SetObjectiveWeight("b", 1)

	v := NewWeightVector(wm, []string{"a", "b", "c"})
	if err := v.Validate(); err != nil {
		t.Errorf("projected weights invalid: %v", err)
	}
	if v.Values[0] != 0.75 || v.Values[2] != 0 {
		t.Errorf("unexpected weights %v", v.Values)
	}
}

func TestScoreAlternative(t *testing.T) {
	chart := hotelChart(t)
	user := preference.NewDefaultUser("pat", chart.Root)
	s := NewScorer(discardLogger())

	r := s.ScoreAlternative(chart, user, &chart.Alternatives[0])
	// beach scores 1, rate 150 scores 0.5 on the increasing default.
	if math.Abs(r.TotalScore-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", r.TotalScore)
	}
	if len(r.Factors) != 2 || r.Factors[0].Weighted != 0.5 {
		t.Errorf("unexpected factors %+v", r.Factors)
	}

	t.Run("missing value", func(t *testing.T) {
		r := s.ScoreAlternative(chart, user, &chart.Alternatives[2])
		if r.Factors[1].Available {
			t.Error("expected rate to be unavailable")
		}
		if r.Factors[1].Weighted != 0 {
			t.Errorf("expected 0 contribution, got %f", r.Factors[1].Weighted)
		}
	})
}

func TestScoreAllOrdersByTotal(t *testing.T) {
	chart := hotelChart(t)
	user := preference.NewDefaultUser("pat", chart.Root)
	results := NewScorer(discardLogger()).ScoreAll(chart, user)

	want := []string{"Sheraton", "Hyatt", "Marriott"}
	for i, r := range results {
		if r.Alternative != want[i] {
			t.Errorf("position %d: expected %s, got %s (%f)", i, want[i], r.Alternative, r.TotalScore)
		}
	}
}

func TestComputeFrontier(t *testing.T) {
	candidates := []ParetoCandidate{
		{Alternative: "a", Scores: []float64{1, 0}},
		{Alternative: "b", Scores: []float64{0, 1}},
		{Alternative: "c", Scores: []float64{0.5, 0.5}},
		{Alternative: "d", Scores: []float64{0.4, 0.5}},
	}
	frontier := ComputeFrontier(candidates)
	if len(frontier) != 3 {
		t.Fatalf("expected 3 on the frontier, got %v", frontier)
	}
	for _, c := range frontier {
		if c.Alternative == "d" {
			t.Error("d is dominated by c")
		}
	}

	if got := ComputeFrontier(candidates[:1]); len(got) != 1 {
		t.Errorf("single candidate should be its own frontier")
	}
}
