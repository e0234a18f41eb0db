package camunda

import (
	"encoding/json"
	"fmt"
	"strings"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
)

// DecodeVariables validates the job variables against schema and decodes them
// into out. Failures are INPUT_VALIDATION_FAILED with one entry per field.
func DecodeVariables(job entities.Job, schema validation.JSONSchema, out interface{}) error {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return errors.NewInputValidationError(fmt.Sprintf("job variables are not a JSON object: %v", err))
	}

	result := validation.ValidateInput(variables, schema)
	if !result.Valid {
		return errors.NewInputValidationError(strings.Join(result.GetErrorMessages(), "; "))
	}

	if err := json.Unmarshal([]byte(job.GetVariables()), out); err != nil {
		return errors.NewInputValidationError(fmt.Sprintf("decode job variables: %v", err))
	}
	return nil
}
