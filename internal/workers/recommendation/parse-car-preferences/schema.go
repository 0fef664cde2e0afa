package parsecarpreferences

import "driveup-workers/internal/common/validation"

// preferencesSchema mirrors the labels the find-your-car form submits.
var preferencesSchema = validation.MustCompile("car-preferences", `{
	"type": "object",
	"properties": {
		"budget": {
			"type": "string",
			"enum": ["<10,00,000", "10,00,000 to 20,00,000", "20,00,000 to 40,00,000", ">40,00,000"]
		},
		"fuelType":         {"type": "string", "maxLength": 50},
		"bodyType":         {"type": "string", "maxLength": 50},
		"seatingCapacity":  {"type": "string", "enum": ["2", "4-5", "6-7", "8+"]},
		"transmissionType": {"type": "string", "maxLength": 50},
		"safetyPreference": {
			"type": "string",
			"enum": ["basic", "advanced", "top_tier", "no_preference"]
		},
		"performancePreference": {
			"type": "string",
			"enum": ["highMileage", "balanced", "performance", "no_preference"]
		},
		"additionalFeatures": {
			"type": "array",
			"items": {"type": "string"}
		},
		"brandPreference": {
			"type": "array",
			"items": {"type": "string", "maxLength": 50}
		}
	}
}`)
