package bookconsultation

import "driveup-workers/internal/common/validation"

var inputSchema = validation.MustCompile(TaskType, `{
	"type": "object",
	"required": ["name", "email", "mode", "concern"],
	"properties": {
		"name":             {"type": "string", "minLength": 2, "maxLength": 100},
		"email":            {"type": "string", "format": "email", "maxLength": 254},
		"phone":            {"type": "string", "maxLength": 20},
		"mode":             {"type": "string", "enum": ["email", "call"]},
		"concern":          {"type": "string", "minLength": 1, "maxLength": 2000},
		"budget":           {"type": "string", "maxLength": 100},
		"brands":           {"type": "string", "maxLength": 200},
		"usage":            {"type": "string", "maxLength": 200},
		"timeline":         {"type": "string", "maxLength": 100},
		"transmission":     {"type": "string", "maxLength": 50},
		"paymentReference": {"type": "string", "maxLength": 100},
		"userId":           {"type": "string", "maxLength": 100}
	}
}`)
