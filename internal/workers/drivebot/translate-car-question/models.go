// internal/workers/drivebot/translate-car-question/models.go
package translatecarquestion

import "driveup-workers/internal/common/genai"

type Input struct {
	UserQuery string          `json:"userQuery"`
	History   []genai.Message `json:"history,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

type Output struct {
	SQL string `json:"sql"`
}
