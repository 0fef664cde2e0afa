// internal/workers/drivebot/check-question-quota/models.go
package checkquestionquota

type Input struct {
	SessionID string `json:"sessionId"`
}

type Output struct {
	Allowed   bool `json:"allowed"`
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}
