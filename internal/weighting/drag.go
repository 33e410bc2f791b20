package weighting

import (
	"fmt"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// DragMode selects how a divider drag moves weight between siblings.
// Divider i sits between siblings[i-1] and siblings[i]; a positive delta
// moves weight from the siblings above the divider to those at or below it.
type DragMode string

const (
	DragOff       DragMode = "off"
	DragNeighbors DragMode = "neighbors"
	DragSiblings  DragMode = "siblings"
)

// DragNeighbor moves delta between the two siblings adjacent to the
// divider. Their combined weight is conserved.
func DragNeighbor(wm *preference.WeightMap, siblings []*LabelData, divider int, delta float64) error {
	if err := checkDivider(siblings, divider); err != nil {
		return err
	}
	d, nb := siblings[divider], siblings[divider-1]
	combined := d.Weight + nb.Weight

	dNew := clamp(d.Weight+delta, 0, combined)
	nbNew := clamp(nb.Weight-delta, 0, combined)

	applyWeight(wm, d, dNew, combined)
	applyWeight(wm, nb, nbNew, combined)
	return nil
}

// DragSibling moves delta from every sibling above the divider to every
// sibling at or below it, spreading each side proportionally.
func DragSibling(wm *preference.WeightMap, siblings []*LabelData, divider int, delta float64) error {
	if err := checkDivider(siblings, divider); err != nil {
		return err
	}
	var groupMax float64
	for _, s := range siblings {
		groupMax += s.Weight
	}
	Redistribute(wm, siblings[:divider], -delta, groupMax)
	Redistribute(wm, siblings[divider:], delta, groupMax)
	return nil
}

func applyWeight(wm *preference.WeightMap, l *LabelData, w, cap float64) {
	if l.Primitive {
		l.setWeight(wm, w)
		return
	}
	Redistribute(wm, l.Children, w-l.Weight, cap)
	l.resum()
}

func checkDivider(siblings []*LabelData, divider int) error {
	if divider < 1 || divider >= len(siblings) {
		return fmt.Errorf("%w: divider %d for %d siblings", ErrDividerOutOfRange, divider, len(siblings))
	}
	return nil
}
