package scoring

import (
	"fmt"
	"math"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// WeightVector holds the normalized weight of each primitive objective in
// chart order.
type WeightVector struct {
	IDs    []string
	Values []float64
}

// NewWeightVector projects wm onto ids. Weights are normalized by the
// projected total so scores stay in [0,1] during interactive editing.
// Unweighted objectives get 0.
func NewWeightVector(wm *preference.WeightMap, ids []string) WeightVector {
	v := WeightVector{IDs: append([]string(nil), ids...), Values: make([]float64, len(ids))}
	var total float64
	for i, w := range wm.ObjectiveWeights(ids) {
		if w != nil {
			v.Values[i] = *w
			total += *w
		}
	}
	if total > 0 {
		for i := range v.Values {
			v.Values[i] /= total
		}
	}
	return v
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	var s float64
	for _, v := range w.Values {
		s += v
	}
	return s
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightVector) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for i, v := range w.Values {
		if v < 0 {
			return fmt.Errorf("negative weight for %s: %f", w.IDs[i], v)
		}
	}
	return nil
}
