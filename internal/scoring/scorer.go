package scoring

import (
	"log/slog"
	"sort"

	"github.com/MikeSquared-Agency/ValueCharts/internal/preference"
)

// ScoringResult captures the complete scoring output for one alternative.
type ScoringResult struct {
	Alternative string         `json:"alternative"`
	TotalScore  float64        `json:"total_score"`
	Factors     []FactorResult `json:"factors"`
}

// Scorer computes weighted additive utility of a chart's alternatives for
// one user.
type Scorer struct {
	logger *slog.Logger
}

func NewScorer(logger *slog.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// ScoreAlternative computes the full scoring result for one alternative.
func (s *Scorer) ScoreAlternative(chart *preference.Chart, user *preference.User, alt *preference.Alternative) ScoringResult {
	ids := chart.Root.PrimitiveIDs()
	weights := NewWeightVector(user.Weights, ids)
	result := ScoringResult{Alternative: alt.Name, Factors: make([]FactorResult, len(ids))}

	var total float64
	for i, id := range ids {
		sf, _ := user.ScoreFunctions.Get(id)
		f := ObjectiveFactor(alt, id, sf)
		if !f.Available {
			s.logger.Debug("objective not scored", "chart_id", chart.ID, "alternative", alt.Name, "objective_id", id, "reason", f.Reason)
		}
		f.Weight = weights.Values[i]
		f.Weighted = f.Score * f.Weight
		total += f.Weighted
		result.Factors[i] = f
	}
	result.TotalScore = total
	return result
}

// ScoreAll scores every alternative of the chart, highest total first.
// Ties keep chart order.
func (s *Scorer) ScoreAll(chart *preference.Chart, user *preference.User) []ScoringResult {
	out := make([]ScoringResult, len(chart.Alternatives))
	for i := range chart.Alternatives {
		out[i] = s.ScoreAlternative(chart, user, &chart.Alternatives[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out
}
