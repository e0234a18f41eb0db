package generatetimeline

import "estimate-workers/internal/common/validation"

var datePattern = `^\d{4}-\d{2}-\d{2}$`

func GetInputSchema() validation.JSONSchema {
	nonNegative := validation.FloatPtr(0)
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"projectId", "phases"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"projectId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(100),
			},
			"region": {
				Type:        "string",
				Description: "Region code whose holiday calendar applies",
				MaxLength:   validation.IntPtr(10),
			},
			"startDate": {
				Type:        "string",
				Description: "Project start, YYYY-MM-DD",
				Pattern:     &datePattern,
			},
			"phases": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"id", "effort", "duration"},
					Properties: map[string]validation.Property{
						"id":       {Type: "string", MinLength: validation.IntPtr(1)},
						"name":     {Type: "string"},
						"effort":   {Type: "number", Minimum: nonNegative},
						"duration": {Type: "number", Minimum: nonNegative},
						"metadata": {Type: "object"},
					},
				},
			},
			"complexityMultiplier": {Type: "number", Minimum: nonNegative},
			"adjustmentReason":     {Type: "string"},
			"regenerateDates":      {Type: "boolean"},
		},
	}
}
