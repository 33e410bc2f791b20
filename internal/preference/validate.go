package preference

import (
	"errors"
	"fmt"
	"math"
)

// WeightTolerance is the per-objective tolerance allowed on the weight sum.
const WeightTolerance = 1e-8

// ValidateWeights checks a committed weight map: every primitive has a
// non-negative weight and the total is 1 within WeightTolerance per
// objective.
func ValidateWeights(wm *WeightMap, primitiveIDs []string) error {
	if len(primitiveIDs) == 0 {
		return ErrEmptyObjectiveSet
	}
	var total float64
	for _, id := range primitiveIDs {
		w, ok := wm.ObjectiveWeight(id)
		if !ok {
			return fmt.Errorf("missing weight for objective %s", id)
		}
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("objective %s has invalid weight %v", id, w)
		}
		total += w
	}
	tol := WeightTolerance * float64(len(primitiveIDs))
	if math.Abs(total-1) > tol {
		return fmt.Errorf("weights sum to %.10f, must sum to 1.0", total)
	}
	return nil
}

// ValidateScoreFunction checks scores lie in [0,1], the best element
// scores 1 and the worst scores 0.
func ValidateScoreFunction(sf ScoreFunction) error {
	pairs := sf.Pairs()
	if len(pairs) == 0 {
		return errors.New("score function has no elements")
	}
	for _, p := range pairs {
		if p.Score < 0 || p.Score > 1 || math.IsNaN(p.Score) {
			return fmt.Errorf("score %v for %s outside [0,1]", p.Score, p.Element)
		}
	}
	if best, _ := sf.Score(sf.Best()); best != 1 {
		return fmt.Errorf("best element %s scores %v, must score 1", sf.Best(), best)
	}
	if worst, _ := sf.Score(sf.Worst()); worst != 0 {
		return fmt.Errorf("worst element %s scores %v, must score 0", sf.Worst(), worst)
	}
	return nil
}

// Validate checks the user's weights and every score function against the
// chart's primitives.
func (u *User) Validate(root *Objective) error {
	ids := root.PrimitiveIDs()
	if err := ValidateWeights(u.Weights, ids); err != nil {
		return fmt.Errorf("user %s: %w", u.Username, err)
	}
	for _, id := range ids {
		sf, err := u.ScoreFunction(id)
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Username, err)
		}
		if err := ValidateScoreFunction(sf); err != nil {
			return fmt.Errorf("user %s, objective %s: %w", u.Username, id, err)
		}
	}
	return nil
}
