package scoring

// ParetoCandidate is an alternative scored on every primitive objective.
type ParetoCandidate struct {
	Alternative string    `json:"alternative"`
	Scores      []float64 `json:"scores"`
}

// CandidatesFromResults extracts per-objective scores from scoring results.
func CandidatesFromResults(results []ScoringResult) []ParetoCandidate {
	out := make([]ParetoCandidate, len(results))
	for i, r := range results {
		scores := make([]float64, len(r.Factors))
		for j, f := range r.Factors {
			scores[j] = f.Score
		}
		out[i] = ParetoCandidate{Alternative: r.Alternative, Scores: scores}
	}
	return out
}

// ComputeFrontier returns the Pareto-optimal candidates from the input set.
// A candidate is dominated if another candidate scores >= on every
// objective and strictly higher on at least one.
// O(n^2) dominance check; alternative sets are small.
func ComputeFrontier(candidates []ParetoCandidate) []ParetoCandidate {
	if len(candidates) <= 1 {
		return candidates
	}

	var frontier []ParetoCandidate
	for i := range candidates {
		dominated := false
		for j := range candidates {
			if i == j {
				continue
			}
			if dominates(candidates[j], candidates[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			frontier = append(frontier, candidates[i])
		}
	}
	return frontier
}

// dominates returns true if a dominates b. Candidates with different
// dimension counts never dominate each other.
func dominates(a, b ParetoCandidate) bool {
	if len(a.Scores) != len(b.Scores) {
		return false
	}
	strictly := false
	for i := range a.Scores {
		if a.Scores[i] < b.Scores[i] {
			return false
		}
		if a.Scores[i] > b.Scores[i] {
			strictly = true
		}
	}
	return strictly
}
