package weighting

import (
	"errors"
	"testing"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

func TestControllerPumpNormalizes(t *testing.T) {
	root := flatTree("a", "b")
	wm := weightsOf(map[string]float64{"a": 0.5, "b": 0.5}, "a", "b")
	c := NewController(root)

	if _, err := c.Pump(wm, "a"); !errors.Is(err, ErrNoPumpMode) {
		t.Fatalf("expected ErrNoPumpMode, got %v", err)
	}
	if err := c.SetPumpMode(PumpIncrease); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Pump(wm, "a"); err != nil {
		t.Fatal(err)
	}
	approx(t, "a", weight(wm, "a"), 0.51)
	approx(t, "total", wm.WeightTotal(), 1)

	if err := c.SetPumpMode("sideways"); err == nil {
		t.Error("expected error for unknown pump mode")
	}
}

func TestDragGestureLifecycle(t *testing.T) {
	root := flatTree("a", "b", "c")
	wm := weightsOf(map[string]float64{"a": 0.2, "b": 0.3, "c": 0.5}, "a", "b", "c")
	c := NewController(root)

	if _, err := c.StartDrag("root", 1); !errors.Is(err, ErrNoDragMode) {
		t.Fatalf("expected ErrNoDragMode, got %v", err)
	}
	if err := c.SetDragMode(DragNeighbors); err != nil {
		t.Fatal(err)
	}
	if _, err := c.StartDrag("root", 3); !errors.Is(err, ErrDividerOutOfRange) {
		t.Errorf("expected ErrDividerOutOfRange, got %v", err)
	}
	if _, err := c.StartDrag("missing", 1); !errors.Is(err, preference.ErrObjectiveNotFound) {
		t.Errorf("expected ErrObjectiveNotFound, got %v", err)
	}

	g, err := c.StartDrag("root", 1)
	if err != nil {
		t.Fatal(err)
	}
	if g.ID == "" || c.Gesture() != g {
		t.Fatal("gesture not attached")
	}

	// Two moves of 0.05 from a to b; the map is not normalized until End.
	for i := 0; i < 2; i++ {
		if err := g.Move(wm, 0.05); err != nil {
			t.Fatal(err)
		}
	}
	approx(t, "a", weight(wm, "a"), 0.1)
	approx(t, "b", weight(wm, "b"), 0.4)
	if g.Moves != 2 {
		t.Errorf("expected 2 moves, got %d", g.Moves)
	}

	if err := c.EndDrag(wm); err != nil {
		t.Fatal(err)
	}
	approx(t, "total", wm.WeightTotal(), 1)
	if c.Gesture() != nil {
		t.Error("gesture should be released after end")
	}
	if err := g.Move(wm, 0.1); !errors.Is(err, ErrGestureDetached) {
		t.Errorf("expected ErrGestureDetached after end, got %v", err)
	}
}

func TestSetDragModeDetachesGesture(t *testing.T) {
	root := flatTree("a", "b")
	wm := weightsOf(map[string]float64{"a": 0.5, "b": 0.5}, "a", "b")
	c := NewController(root)
	_ = c.SetDragMode(DragSiblings)

	g, err := c.StartDrag("root", 1)
	if err != nil {
		t.Fatal(err)
	}

	// Re-entering the active mode keeps the gesture.
	_ = c.SetDragMode(DragSiblings)
	if g.Detached() {
		t.Fatal("same mode should not detach")
	}
	if err := g.Move(wm, 0.1); err != nil {
		t.Fatal(err)
	}

	_ = c.SetDragMode(DragOff)
	if !g.Detached() {
		t.Fatal("switching mode should detach")
	}
	if err := g.Move(wm, 0.1); !errors.Is(err, ErrGestureDetached) {
		t.Errorf("expected ErrGestureDetached, got %v", err)
	}
	if err := g.End(wm); !errors.Is(err, ErrGestureDetached) {
		t.Errorf("expected ErrGestureDetached, got %v", err)
	}

	// Partial edits stay in place without normalization.
	approx(t, "a", weight(wm, "a"), 0.4)
	approx(t, "b", weight(wm, "b"), 0.6)
}

func TestSetPumpModeDetachesGesture(t *testing.T) {
	root := flatTree("a", "b")
	c := NewController(root)
	_ = c.SetDragMode(DragNeighbors)

	g, err := c.StartDrag("root", 1)
	if err != nil {
		t.Fatal(err)
	}

	_ = c.SetPumpMode(PumpOff)
	if g.Detached() {
		t.Fatal("same pump mode should not detach")
	}

	if err := c.SetPumpMode(PumpIncrease); err != nil {
		t.Fatal(err)
	}
	if !g.Detached() {
		t.Fatal("entering a pump mode should detach the gesture")
	}
	if c.Gesture() != nil {
		t.Error("controller still holds the gesture")
	}
}
