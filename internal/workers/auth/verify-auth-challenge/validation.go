package verifyauthchallenge

import "driveup-workers/internal/common/validation"

// A missing token is reported as a result, so token is not required here.
var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"properties": {
		"token":    {"type": "string", "maxLength": 4096},
		"remoteIp": {"type": "string", "maxLength": 45},
		"action":   {"type": "string", "maxLength": 100}
	}
}`)
