package deriveestimateprofile

import (
	"estimate-workers/internal/common/validation"
	"estimate-workers/internal/models"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"projectId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"projectId": {
				Type:        "string",
				Description: "Project the estimate belongs to",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(100),
			},
			"chips": {
				Type:        "array",
				Description: "Requirement chips in extraction order",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"category"},
					Properties: map[string]validation.Property{
						"category": {Type: "string", MinLength: validation.IntPtr(1)},
					},
				},
			},
			"decision": {
				Type:        "object",
				Description: "Scoping decision",
				Properties: map[string]validation.Property{
					"moduleCombo": {Type: "string", Enum: enumStrings(models.ModuleCombos)},
					"bankingPath": {Type: "string", Enum: enumStrings(models.BankingPaths)},
					"ssoMode":     {Type: "string", Enum: enumStrings(models.SSOModes)},
					"targetPrice": {Type: "number", Minimum: validation.FloatPtr(0)},
					"targetMargin": {
						Type:    "number",
						Minimum: validation.FloatPtr(0),
						Maximum: validation.FloatPtr(100),
					},
				},
			},
		},
	}
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
