package rankcarrecommendations

import "driveup-workers/internal/recommendation"

type Input struct {
	Preferences recommendation.UserPreferences `json:"preferences"`
	SessionID   string                         `json:"sessionId,omitempty"`
}

type Output struct {
	Recommendations []recommendation.ScoredCandidate `json:"recommendations"`
	CandidateCount  int                              `json:"candidateCount"`
}

// ServedEvent is the payload of recommendation.served.
type ServedEvent struct {
	SessionID      string                         `json:"sessionId,omitempty"`
	Preferences    recommendation.UserPreferences `json:"preferences"`
	VariantIDs     []string                       `json:"variantIds"`
	Scores         []int                          `json:"scores"`
	CandidateCount int                            `json:"candidateCount"`
}
