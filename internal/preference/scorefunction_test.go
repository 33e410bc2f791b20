package preference

import (
	"errors"
	"math"
	"testing"
)

func TestInterpolateExactAtAnchors(t *testing.T) {
	anchors := []struct{ e0, s0, e1, s1 float64 }{
		{0, 0, 1, 1},
		{-5, 0.8, 5, 0.2},
		{10, 0.3, 10.5, 0.3},
		{1e3, 0, 1e6, 1},
	}
	for _, a := range anchors {
		lo, err := Interpolate(a.e0, a.s0, a.e1, a.s1, a.e0)
		if err != nil {
			t.Fatal(err)
		}
		hi, _ := Interpolate(a.e0, a.s0, a.e1, a.s1, a.e1)
		if lo != a.s0 {
			t.Errorf("at e0=%v expected %v, got %v", a.e0, a.s0, lo)
		}
		if math.Abs(hi-a.s1) > 1e-12 {
			t.Errorf("at e1=%v expected %v, got %v", a.e1, a.s1, hi)
		}
	}
}

func TestInterpolateMonotonic(t *testing.T) {
	tests := []struct {
		name       string
		s0, s1     float64
		increasing bool
	}{
		{"rising", 0.1, 0.9, true},
		{"falling", 0.9, 0.1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev, _ := Interpolate(2, tt.s0, 7, tt.s1, 2)
			for x := 2.0; x <= 7; x += 0.25 {
				got, err := Interpolate(2, tt.s0, 7, tt.s1, x)
				if err != nil {
					t.Fatal(err)
				}
				if tt.increasing && got < prev || !tt.increasing && got > prev {
					t.Errorf("not monotonic at x=%v: %v after %v", x, got, prev)
				}
				prev = got
			}
		})
	}
}

func TestInterpolateDegenerateRange(t *testing.T) {
	_, err := Interpolate(3, 0, 3, 1, 3)
	if !errors.Is(err, ErrInvalidInterpolationRange) {
		t.Errorf("expected ErrInvalidInterpolationRange, got %v", err)
	}
}

func TestContinuousScore(t *testing.T) {
	f, err := NewContinuousScoreFunction(false,
		Anchor{Element: Number(100), Score: 1},
		Anchor{Element: Number(0), Score: 0},
		Anchor{Element: Number(50), Score: 0.8},
	)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{25, 0.4},
		{50, 0.8},
		{75, 0.9},
		{100, 1},
		{-20, 0},
		{250, 1},
	}
	for _, tt := range tests {
		got, err := f.Score(Number(tt.x))
		if err != nil {
			t.Fatalf("x=%v: %v", tt.x, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("x=%v: expected %v, got %v", tt.x, tt.want, got)
		}
	}

	if f.Best() != Number(100) || f.Worst() != Number(0) {
		t.Errorf("unexpected extremes best=%s worst=%s", f.Best(), f.Worst())
	}
	if _, err := f.Score(Label("high")); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("expected ErrElementNotFound for label, got %v", err)
	}
}

func TestContinuousScoreNoAnchors(t *testing.T) {
	f, _ := NewContinuousScoreFunction(false)
	if _, err := f.Score(Number(1)); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("expected ErrElementNotFound, got %v", err)
	}
}

func TestContinuousSetOverwritesAnchor(t *testing.T) {
	f, _ := NewContinuousScoreFunction(false, Anchor{Element: Number(1), Score: 0}, Anchor{Element: Number(3), Score: 1})
	if err := f.SetElementScore(Number(2), 0.2); err != nil {
		t.Fatal(err)
	}
	if err := f.SetElementScore(Number(2), 0.6); err != nil {
		t.Fatal(err)
	}
	if n := len(f.Elements()); n != 3 {
		t.Fatalf("expected 3 anchors, got %d", n)
	}
	if got, _ := f.Score(Number(2.5)); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("expected 0.8, got %v", got)
	}
	if err := f.RemoveElement(Number(2)); err != nil {
		t.Fatal(err)
	}
	if err := f.RemoveElement(Number(2)); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("expected ErrElementNotFound, got %v", err)
	}
}

func TestDiscreteScore(t *testing.T) {
	f := NewDiscreteScoreFunction(false,
		ScorePair{Element: Label("low"), Score: 0},
		ScorePair{Element: Label("mid"), Score: 0.5},
		ScorePair{Element: Label("high"), Score: 1},
	)
	got, err := f.Score(Label("mid"))
	if err != nil || got != 0.5 {
		t.Errorf("expected 0.5, got %v (%v)", got, err)
	}
	if _, err := f.Score(Label("extreme")); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("expected ErrElementNotFound, got %v", err)
	}
	if f.Best() != Label("high") || f.Worst() != Label("low") {
		t.Errorf("unexpected extremes best=%s worst=%s", f.Best(), f.Worst())
	}

	// Scores are stored raw, without clamping.
	if err := f.SetElementScore(Label("mid"), 1.7); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.Score(Label("mid")); got != 1.7 {
		t.Errorf("expected raw 1.7, got %v", got)
	}
	if f.Best() != Label("mid") {
		t.Errorf("expected best to follow the edit, got %s", f.Best())
	}
}

func TestImmutableScoreFunctionRejectsEdits(t *testing.T) {
	d, _ := NewCategoricalDomain(true, "a", "b")
	sf := DefaultScoreFunction(d, true)
	if !sf.Immutable() {
		t.Fatal("expected default to be immutable")
	}
	if err := sf.SetElementScore(Label("a"), 0.3); !errors.Is(err, ErrImmutableScoreFunction) {
		t.Errorf("expected ErrImmutableScoreFunction, got %v", err)
	}
	if err := sf.RemoveElement(Label("a")); !errors.Is(err, ErrImmutableScoreFunction) {
		t.Errorf("expected ErrImmutableScoreFunction, got %v", err)
	}

	editable := sf.EditableCopy()
	if err := editable.SetElementScore(Label("a"), 0.3); err != nil {
		t.Errorf("editable copy rejected edit: %v", err)
	}
	if got, _ := sf.Score(Label("a")); got != 0 {
		t.Errorf("editing the copy changed the default: %v", got)
	}
}

func TestDefaultScoreFunctions(t *testing.T) {
	t.Run("categorical decreasing", func(t *testing.T) {
		d, _ := NewCategoricalDomain(true, "x", "y", "z")
		sf := DefaultScoreFunction(d, false)
		want := map[string]float64{"x": 1, "y": 0.5, "z": 0}
		for label, w := range want {
			if got, _ := sf.Score(Label(label)); got != w {
				t.Errorf("%s: expected %v, got %v", label, w, got)
			}
		}
		if err := ValidateScoreFunction(sf); err != nil {
			t.Errorf("default should validate: %v", err)
		}
	})

	t.Run("continuous", func(t *testing.T) {
		sf := DefaultScoreFunction(&ContinuousDomain{Min: 10, Max: 30}, true)
		if sf.Kind() != ScoreFunctionContinuous {
			t.Fatalf("expected continuous, got %s", sf.Kind())
		}
		if n := len(sf.Elements()); n != 5 {
			t.Errorf("expected 5 anchors, got %d", n)
		}
		if got, _ := sf.Score(Number(17)); math.Abs(got-0.35) > 1e-12 {
			t.Errorf("expected 0.35, got %v", got)
		}
	})

	t.Run("interval", func(t *testing.T) {
		sf := DefaultScoreFunction(&IntervalDomain{Min: 1, Max: 5, Step: 2}, true)
		if sf.Kind() != ScoreFunctionDiscrete {
			t.Fatalf("expected discrete, got %s", sf.Kind())
		}
		if got, _ := sf.Score(Number(3)); got != 0.5 {
			t.Errorf("expected 0.5, got %v", got)
		}
	})
}

func TestScoreFunctionEncoding(t *testing.T) {
	f, _ := NewContinuousScoreFunction(false, Anchor{Element: Number(0), Score: 0}, Anchor{Element: Number(8), Score: 1})
	data, err := MarshalScoreFunction(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"continuous","elements":[[0,0],[8,1]]}` {
		t.Errorf("unexpected encoding %s", data)
	}
	back, err := UnmarshalScoreFunction(data)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(f) {
		t.Error("decoded function differs")
	}
}
