package parsecarpreferences

import "driveup-workers/internal/recommendation"

type Input struct {
	RawPreferences map[string]interface{} `json:"rawPreferences"`
}

type Output struct {
	Preferences   recommendation.UserPreferences `json:"preferences"`
	DroppedFields []string                       `json:"droppedFields"`
}
