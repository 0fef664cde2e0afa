package recommendation

import "sort"

// MaxRecommendations is the size of the result set returned to the caller.
const MaxRecommendations = 3

// Rank orders candidates by score, highest first, and keeps the top limit.
// Equal scores keep their input order.
func Rank(candidates []ScoredCandidate, limit int) []ScoredCandidate {
	ranked := make([]ScoredCandidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Result is the outcome of one recommendation pass.
type Result struct {
	Recommendations []ScoredCandidate `json:"recommendations"`
	CandidateCount  int               `json:"candidateCount"`
}

// Recommend filters, scores and ranks variants for one request. It holds no
// state between calls and never fails; an empty candidate set yields an empty list.
func Recommend(prefs UserPreferences, variants []CarVariant) Result {
	candidates := Filter(prefs, variants)

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, v := range candidates {
		scored = append(scored, Score(prefs, v))
	}

	return Result{
		Recommendations: Rank(scored, MaxRecommendations),
		CandidateCount:  len(candidates),
	}
}
