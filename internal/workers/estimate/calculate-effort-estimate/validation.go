package calculateeffortestimate

import "estimate-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	scenario := scenarioProperty()
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"projectId"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"projectId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(100),
			},
			"scenario": scenario,
			"scenarios": {
				Type:        "array",
				Description: "Scenarios evaluated as a batch",
				MinItems:    validation.IntPtr(1),
				Items:       &scenario,
			},
		},
	}
}

func scenarioProperty() validation.Property {
	nonNegative := validation.FloatPtr(0)
	return validation.Property{
		Type:     "object",
		Required: []string{"profile", "fte", "utilization"},
		Properties: map[string]validation.Property{
			"selectedL3Items": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"coefficient"},
					Properties: map[string]validation.Property{
						"l3Code":      {Type: "string"},
						"coefficient": {Type: "number"},
						"defaultTier": {Type: "string"},
					},
				},
			},
			"integrations":  {Type: "integer", Minimum: nonNegative},
			"customForms":   {Type: "integer", Minimum: nonNegative},
			"fitToStandard": {Type: "number", Minimum: nonNegative, Maximum: validation.FloatPtr(1)},
			"legalEntities": {Type: "integer", Minimum: nonNegative},
			"countries":     {Type: "integer", Minimum: nonNegative},
			"languages":     {Type: "integer", Minimum: nonNegative},
			"fte":           {Type: "number"},
			"utilization":   {Type: "number"},
			"overlapFactor": {Type: "number", Minimum: nonNegative},
			"profile": {
				Type:     "object",
				Required: []string{"baseFt"},
				Properties: map[string]validation.Property{
					"name":         {Type: "string"},
					"baseFt":       {Type: "number", Minimum: nonNegative},
					"basis":        {Type: "number", Minimum: nonNegative},
					"securityAuth": {Type: "number", Minimum: nonNegative},
				},
			},
		},
	}
}
