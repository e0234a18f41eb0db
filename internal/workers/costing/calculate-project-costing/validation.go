package calculateprojectcosting

import "estimate-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	nonNegative := validation.FloatPtr(0)
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"projectId", "resourceLines"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"projectId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
				MaxLength: validation.IntPtr(100),
			},
			"accessToken": {
				Type:        "string",
				Description: "Caller access token, resolved server-side",
			},
			"versionNumber": {
				Type:        "integer",
				Description: "Version to overwrite; omit for the next version",
				Minimum:     nonNegative,
			},
			"resourceLines": {
				Type: "array",
				Items: &validation.Property{
					Type:     "object",
					Required: []string{"region", "designation", "mandays"},
					Properties: map[string]validation.Property{
						"region":      {Type: "string", MinLength: validation.IntPtr(1)},
						"designation": {Type: "string", MinLength: validation.IntPtr(1)},
						"mandays":     {Type: "number", Minimum: nonNegative},
					},
				},
			},
			"subcontractorCost":  {Type: "number", Minimum: nonNegative},
			"outOfPocketExpense": {Type: "number", Minimum: nonNegative},
			"includeBreakdown":   {Type: "boolean"},
			"forceRefreshRates":  {Type: "boolean"},
		},
	}
}
