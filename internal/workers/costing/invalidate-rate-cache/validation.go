package invalidateratecache

import "estimate-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"reason":      {Type: "string", MaxLength: validation.IntPtr(500)},
			"requestedBy": {Type: "string", MaxLength: validation.IntPtr(100)},
		},
	}
}
