package weighting

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// Controller holds the interaction state for one editing session: the
// active pump mode, the active drag mode and at most one attached drag
// gesture. It is not safe for concurrent use.
type Controller struct {
	root    *preference.Objective
	pump    PumpMode
	drag    DragMode
	gesture *DragGesture
}

func NewController(root *preference.Objective) *Controller {
	return &Controller{root: root, pump: PumpOff, drag: DragOff}
}

func (c *Controller) PumpMode() PumpMode { return c.pump }
func (c *Controller) DragMode() DragMode { return c.drag }

// Gesture returns the attached drag gesture, or nil.
func (c *Controller) Gesture() *DragGesture { return c.gesture }

// SetPumpMode switches pump direction. Like SetDragMode, entering a
// different mode detaches the current gesture.
func (c *Controller) SetPumpMode(m PumpMode) error {
	switch m {
	case PumpOff, PumpIncrease, PumpDecrease:
	default:
		return fmt.Errorf("unknown pump mode %q", m)
	}
	if m == c.pump {
		return nil
	}
	c.detach()
	c.pump = m
	return nil
}

// SetDragMode switches drag policy. Switching to a different mode detaches
// the current gesture and leaves its partial edits in place. Setting the
// active mode again is a no-op.
func (c *Controller) SetDragMode(m DragMode) error {
	switch m {
	case DragOff, DragNeighbors, DragSiblings:
	default:
		return fmt.Errorf("unknown drag mode %q", m)
	}
	if m == c.drag {
		return nil
	}
	c.detach()
	c.drag = m
	return nil
}

func (c *Controller) detach() {
	if c.gesture != nil {
		c.gesture.detached = true
		c.gesture = nil
	}
}

// Pump applies the active pump mode to objectiveID and normalizes.
func (c *Controller) Pump(wm *preference.WeightMap, objectiveID string) (bool, error) {
	if c.pump == PumpOff {
		return false, ErrNoPumpMode
	}
	changed, err := Pump(wm, objectiveID, c.root.PrimitiveIDs(), c.pump)
	if err != nil {
		return false, err
	}
	wm.Normalize()
	return changed, nil
}

// StartDrag attaches a gesture on the divider of parentID's children.
// Any previously attached gesture is detached.
func (c *Controller) StartDrag(parentID string, divider int) (*DragGesture, error) {
	if c.drag == DragOff {
		return nil, ErrNoDragMode
	}
	parent := c.root.Find(parentID)
	if parent == nil {
		return nil, fmt.Errorf("%w: %s", preference.ErrObjectiveNotFound, parentID)
	}
	if parent.IsPrimitive() {
		return nil, fmt.Errorf("%w: %s has no children to resize", preference.ErrInvalidObjective, parentID)
	}
	if divider < 1 || divider >= len(parent.Children) {
		return nil, fmt.Errorf("%w: divider %d for %d children of %s", ErrDividerOutOfRange, divider, len(parent.Children), parentID)
	}

	c.detach()
	c.gesture = &DragGesture{
		ID:       uuid.New().String(),
		Mode:     c.drag,
		ParentID: parentID,
		Divider:  divider,
		root:     c.root,
	}
	return c.gesture, nil
}

// EndDrag ends the attached gesture.
func (c *Controller) EndDrag(wm *preference.WeightMap) error {
	if c.gesture == nil {
		return ErrGestureDetached
	}
	g := c.gesture
	c.gesture = nil
	return g.End(wm)
}

// DragGesture is one start, move..., end sequence on a divider.
// Intermediate moves leave the map unnormalized; End normalizes.
type DragGesture struct {
	ID       string   `json:"id"`
	Mode     DragMode `json:"mode"`
	ParentID string   `json:"parent_id"`
	Divider  int      `json:"divider"`
	Moves    int      `json:"moves"`

	root     *preference.Objective
	detached bool
	ended    bool
}

func (g *DragGesture) Detached() bool { return g.detached }

// Move applies one drag step of delta weight units.
func (g *DragGesture) Move(wm *preference.WeightMap, delta float64) error {
	if g.detached || g.ended {
		return ErrGestureDetached
	}
	parent := BuildLabelData(g.root, wm).Find(g.ParentID)
	if parent == nil {
		return fmt.Errorf("%w: %s", preference.ErrObjectiveNotFound, g.ParentID)
	}

	var err error
	switch g.Mode {
	case DragNeighbors:
		err = DragNeighbor(wm, parent.Children, g.Divider, delta)
	case DragSiblings:
		err = DragSibling(wm, parent.Children, g.Divider, delta)
	default:
		err = ErrNoDragMode
	}
	if err != nil {
		return err
	}
	g.Moves++
	return nil
}

// End normalizes wm and closes the gesture.
func (g *DragGesture) End(wm *preference.WeightMap) error {
	if g.detached || g.ended {
		return ErrGestureDetached
	}
	g.ended = true
	wm.Normalize()
	return nil
}
