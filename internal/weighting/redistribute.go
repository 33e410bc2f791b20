package weighting

import (
	"math"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// Redistribute spreads increment across a sibling group and writes the
// resulting primitive weights into wm.
//
// A negative increment is shared only by members that still carry weight;
// otherwise every member takes an equal share. Each member is clamped to
// [0, memberMax] where memberMax is its proportional slice of groupMax, or
// groupMax itself when the member (or the whole group) is at zero.
// Abstract members pass their share and cap down to their children.
//
// Panics on an empty member list.
func Redistribute(wm *preference.WeightMap, members []*LabelData, increment, groupMax float64) {
	if len(members) == 0 {
		panic("weighting: redistribute over empty sibling list")
	}

	var weightTotal float64
	nonZero := 0
	for _, m := range members {
		if m.Weight != 0 {
			weightTotal += m.Weight
			nonZero++
		}
	}

	var share float64
	if increment < 0 && nonZero != 0 {
		share = increment / float64(nonZero)
	} else {
		share = increment / float64(len(members))
	}

	for _, m := range members {
		memberMax := groupMax
		if weightTotal != 0 && m.Weight != 0 {
			memberMax = groupMax * (m.Weight / weightTotal)
		}
		if !m.Primitive {
			Redistribute(wm, m.Children, share, memberMax)
			m.resum()
			continue
		}
		m.setWeight(wm, clamp(m.Weight+share, 0, memberMax))
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
