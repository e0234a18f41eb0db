package registry

import (
	"encoding/json"
	"time"

	"estimate-workers/internal/common/errors"
	"estimate-workers/internal/common/validation"
	projectcosting "estimate-workers/internal/workers/costing/calculate-project-costing"
	ratecache "estimate-workers/internal/workers/costing/invalidate-rate-cache"
	effortestimate "estimate-workers/internal/workers/estimate/calculate-effort-estimate"
	estimateprofile "estimate-workers/internal/workers/estimate/derive-estimate-profile"
	timeline "estimate-workers/internal/workers/estimate/generate-timeline"
)

const builtinVersion = "1.0.0"

// Builtin describes the activities implemented by this module. Timeouts are
// the worker defaults; MaxRetries is the highest retry count among the codes
// an activity can raise.
func Builtin() *ActivityRegistry {
	reg := &ActivityRegistry{
		Version:     builtinVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	reg.Activities = []Activity{
		newActivity(estimateprofile.WorkerName, estimateprofile.TaskType,
			"Derive Estimate Profile",
			"Derives client profile, complexity multiplier and delivery packages from requirement chips",
			DomainEstimate,
			estimateprofile.GetInputSchema(),
			estimateprofile.DefaultConfig().Timeout,
			errors.ErrCodeInputValidationFailed, errors.ErrCodeChipSourceUnavailable),
		newActivity(effortestimate.WorkerName, effortestimate.TaskType,
			"Calculate Effort Estimate",
			"Computes baseline effort, duration and phases from scope and organisation factors",
			DomainEstimate,
			effortestimate.GetInputSchema(),
			effortestimate.DefaultConfig().Timeout,
			errors.ErrCodeInputValidationFailed),
		newActivity(timeline.WorkerName, timeline.TaskType,
			"Generate Timeline",
			"Scales phases by the complexity multiplier and lays out working-day dates",
			DomainEstimate,
			timeline.GetInputSchema(),
			timeline.DefaultConfig().Timeout,
			errors.ErrCodeInputValidationFailed, errors.ErrCodeSignalPublishFailed),
		newActivity(projectcosting.WorkerName, projectcosting.TaskType,
			"Calculate Project Costing",
			"Seven-layer costing with visibility-scoped response",
			DomainCosting,
			projectcosting.GetInputSchema(),
			projectcosting.DefaultConfig().Timeout,
			errors.ErrCodeAuthenticationFailed, errors.ErrCodeAuthorizationDenied,
			errors.ErrCodeInputValidationFailed, errors.ErrCodeRateNotFound,
			errors.ErrCodeProjectNotFound, errors.ErrCodeProjectLookupFailed,
			errors.ErrCodeIdentityUnavailable, errors.ErrCodeRateCatalogUnavailable,
			errors.ErrCodeCostingPersistFailed, errors.ErrCodeInternal),
		newActivity(ratecache.WorkerName, ratecache.TaskType,
			"Invalidate Rate Cache",
			"Bumps the rate catalog cache generation",
			DomainCosting,
			ratecache.GetInputSchema(),
			ratecache.DefaultConfig().Timeout,
			errors.ErrCodeRateCatalogUnavailable),
	}
	return reg
}

func newActivity(id, taskType, name, description, domain string, schema validation.JSONSchema, timeout time.Duration, codes ...errors.ErrorCode) Activity {
	activity := Activity{
		ID:          id,
		DisplayName: name,
		Description: description,
		Domain:      domain,
		Version:     builtinVersion,
		TaskType:    taskType,
		InputSchema: schemaMap(schema),
		TimeoutMs:   timeout.Milliseconds(),
	}
	for _, code := range codes {
		bpmnCode, ok := errors.BPMNErrorMapping[code]
		if !ok {
			bpmnCode = string(code)
		}
		retries := errors.GetRetryCount(code)
		activity.Errors = append(activity.Errors, ActivityError{
			Code:      string(code),
			BPMNCode:  bpmnCode,
			Retryable: retries > 0,
			Retries:   retries,
		})
		if retries > activity.MaxRetries {
			activity.MaxRetries = retries
		}
	}
	return activity
}

func schemaMap(schema validation.JSONSchema) map[string]interface{} {
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]interface{}{}
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}
