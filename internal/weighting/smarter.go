package weighting

import (
	"fmt"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// RankWeight returns the SMARTER weight of rank k among n objectives:
//
//	weight(k) = (1/k + 1/(k+1) + ... + 1/n) / n
//
// Ranks are 1-indexed. Panics unless 1 <= k <= n.
func RankWeight(k, n int) float64 {
	if n <= 0 || k < 1 || k > n {
		panic(fmt.Sprintf("weighting: rank %d out of range for %d objectives", k, n))
	}
	var sum float64
	for i := k; i <= n; i++ {
		sum += 1 / float64(i)
	}
	return sum / float64(n)
}

// RankWeights converts a ranked objective list into a weight map. ids[0]
// holds rank 1 and receives the largest weight. The result sums to 1
// without normalizing.
func RankWeights(ids []string) (*preference.WeightMap, error) {
	n := len(ids)
	if n == 0 {
		return nil, preference.ErrEmptyObjectiveSet
	}
	seen := make(map[string]struct{}, n)
	wm := preference.NewWeightMap()
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %s ranked twice", preference.ErrDuplicateObjective, id)
		}
		seen[id] = struct{}{}
		wm.SetObjectiveWeight(id, RankWeight(i+1, n))
	}
	return wm, nil
}
