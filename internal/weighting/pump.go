package weighting

import (
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// PumpMode selects the direction of a one-click weight nudge.
type PumpMode string

const (
	PumpOff      PumpMode = "off"
	PumpIncrease PumpMode = "increase"
	PumpDecrease PumpMode = "decrease"
)

const pumpStep = 0.01

// Pump nudges target's weight by one percentage point of the normalized
// distribution. primitiveIDs is the full primitive set of the chart; on a
// decrease the removed mass is shared evenly across the others. The map is
// not normalized. Reports whether anything changed.
func Pump(wm *preference.WeightMap, target string, primitiveIDs []string, mode PumpMode) (bool, error) {
	if !contains(primitiveIDs, target) {
		return false, fmt.Errorf("%w: %s", preference.ErrNotPrimitive, target)
	}
	w, _ := wm.ObjectiveWeight(target)

	switch mode {
	case PumpIncrease:
		return pumpIncrease(wm, target, w), nil
	case PumpDecrease:
		return pumpDecrease(wm, target, w, primitiveIDs), nil
	default:
		return false, ErrNoPumpMode
	}
}

func pumpIncrease(wm *preference.WeightMap, target string, w float64) bool {
	total := wm.WeightTotal()
	if total == 0 {
		wm.SetObjectiveWeight(target, pumpStep)
		return true
	}
	// (w+p)/(T+p) == w/T + 0.01
	denom := 0.99 - w/total
	if denom <= 0 {
		return false
	}
	amount := (pumpStep * total) / denom
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return false
	}
	wm.SetObjectiveWeight(target, w+amount)
	return true
}

func pumpDecrease(wm *preference.WeightMap, target string, w float64, primitiveIDs []string) bool {
	if len(primitiveIDs) < 2 {
		return false
	}
	decrement := -math.Min(pumpStep, w)
	if decrement == 0 {
		return false
	}
	wm.SetObjectiveWeight(target, w+decrement)
	increment := -decrement / float64(len(primitiveIDs)-1)
	for _, id := range primitiveIDs {
		if id == target {
			continue
		}
		ow, _ := wm.ObjectiveWeight(id)
		wm.SetObjectiveWeight(id, ow+increment)
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
