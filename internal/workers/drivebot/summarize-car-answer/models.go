// internal/workers/drivebot/summarize-car-answer/models.go
package summarizecaranswer

type Input struct {
	Rows      []map[string]interface{} `json:"rows"`
	SessionID string                   `json:"sessionId,omitempty"`
}

type Output struct {
	Summary string `json:"summary"`
}
