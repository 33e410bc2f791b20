package scoring

import (
	"fmt"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// FactorResult is one primitive objective's contribution to an
// alternative's total score.
type FactorResult struct {
	ObjectiveID string  `json:"objective_id"`
	Value       string  `json:"value,omitempty"`
	Score       float64 `json:"score"`
	Weight      float64 `json:"weight"`
	Weighted    float64 `json:"weighted"`
	Available   bool    `json:"available"`
	Reason      string  `json:"reason,omitempty"`
}

// ObjectiveFactor scores alt on one objective with the user's score
// function. A missing value or an unscorable element contributes 0.
func ObjectiveFactor(alt *preference.Alternative, objectiveID string, sf preference.ScoreFunction) FactorResult {
	r := FactorResult{ObjectiveID: objectiveID}
	v, ok := alt.Values[objectiveID]
	if !ok {
		r.Reason = "no value"
		return r
	}
	r.Value = v.String()
	if sf == nil {
		r.Reason = "no score function"
		return r
	}
	score, err := sf.Score(v)
	if err != nil {
		r.Reason = fmt.Sprintf("unscored: %v", err)
		return r
	}
	r.Score = score
	r.Available = true
	return r
}
