// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Caller-facing: surfaced verbatim.
	ErrCodeAuthenticationFailed  ErrorCode = "AUTHENTICATION_FAILED"
	ErrCodeAuthorizationDenied   ErrorCode = "AUTHORIZATION_DENIED"
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeRateNotFound          ErrorCode = "RATE_NOT_FOUND"
	ErrCodeProjectNotFound       ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeEstimateInvalid       ErrorCode = "ESTIMATE_INVALID"

	// Internal: logged with context, caller sees a generic message.
	ErrCodeRateCatalogUnavailable ErrorCode = "RATE_CATALOG_UNAVAILABLE"
	ErrCodeChipSourceUnavailable  ErrorCode = "CHIP_SOURCE_UNAVAILABLE"
	ErrCodeCostingPersistFailed   ErrorCode = "COSTING_PERSIST_FAILED"
	ErrCodeProjectLookupFailed    ErrorCode = "PROJECT_LOOKUP_FAILED"
	ErrCodeIdentityUnavailable    ErrorCode = "IDENTITY_PROVIDER_UNAVAILABLE"
	ErrCodeSignalPublishFailed    ErrorCode = "SIGNAL_PUBLISH_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// GenericInternalMessage is the only text a caller sees for internal failures.
const GenericInternalMessage = "An internal error occurred while processing the request"

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// AsStandardError unwraps err into a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"retryable":    e.Retryable,
	}
	if e.Details != "" {
		vars["errorDetails"] = e.Details
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewAuthenticationError is returned when the caller's token cannot be resolved to an identity.
func NewAuthenticationError(details string) *StandardError {
	return newError(ErrCodeAuthenticationFailed, "Authentication failed", details, false)
}

// NewAuthorizationDeniedError is returned when the caller neither owns the project nor is an admin.
func NewAuthorizationDeniedError(projectID string) *StandardError {
	return newError(ErrCodeAuthorizationDenied,
		"Caller is not authorized to access this project",
		fmt.Sprintf("projectId: %s", projectID), false)
}

// NewInputValidationError carries field-level descriptions back to the caller.
func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Input validation failed", details, false)
}

// NewRateNotFoundError reports a rate catalog miss for a resource line.
func NewRateNotFoundError(region, designation string) *StandardError {
	stdErr := newError(ErrCodeRateNotFound,
		"No rate card for resource line",
		fmt.Sprintf("region: %s, designation: %s", region, designation), false)
	stdErr.Metadata = map[string]interface{}{"region": region, "designation": designation}
	return stdErr
}

// NewRateCurrencyMismatchError reports a rate card priced in a currency other than the costing currency.
func NewRateCurrencyMismatchError(region, designation, cardCurrency, currency string) *StandardError {
	stdErr := newError(ErrCodeInternal,
		"Rate card currency does not match costing currency",
		fmt.Sprintf("region: %s, designation: %s, card: %s, costing: %s", region, designation, cardCurrency, currency), false)
	stdErr.Metadata = map[string]interface{}{
		"region":       region,
		"designation":  designation,
		"cardCurrency": cardCurrency,
		"currency":     currency,
	}
	return stdErr
}

func NewProjectNotFoundError(projectID string) *StandardError {
	return newError(ErrCodeProjectNotFound, "Project not found",
		fmt.Sprintf("projectId: %s", projectID), false)
}

// NewEstimateInvalidError reports estimator inputs that cannot produce a schedule, such as zero capacity.
func NewEstimateInvalidError(details string) *StandardError {
	return newError(ErrCodeEstimateInvalid, "Estimate inputs are invalid", details, false)
}

func NewRateCatalogUnavailableError(err error) *StandardError {
	return newError(ErrCodeRateCatalogUnavailable, "Rate catalog unavailable", err.Error(), true)
}

func NewChipSourceUnavailableError(err error) *StandardError {
	return newError(ErrCodeChipSourceUnavailable, "Requirement chip source unavailable", err.Error(), true)
}

func NewCostingPersistFailedError(err error) *StandardError {
	return newError(ErrCodeCostingPersistFailed, "Failed to persist costing summary", err.Error(), true)
}

func NewProjectLookupFailedError(err error) *StandardError {
	return newError(ErrCodeProjectLookupFailed, "Failed to read project ownership", err.Error(), true)
}

func NewIdentityUnavailableError(err error) *StandardError {
	return newError(ErrCodeIdentityUnavailable, "Identity provider unavailable", err.Error(), true)
}

func NewSignalPublishFailedError(err error) *StandardError {
	return newError(ErrCodeSignalPublishFailed, "Failed to publish schedule signal", err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the BPMN error codes modelled in the processes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeAuthenticationFailed:   "AUTHENTICATION_FAILED",
	ErrCodeAuthorizationDenied:    "AUTHORIZATION_DENIED",
	ErrCodeInputValidationFailed:  "INPUT_VALIDATION_FAILED",
	ErrCodeRateNotFound:           "RATE_NOT_FOUND",
	ErrCodeProjectNotFound:        "PROJECT_NOT_FOUND",
	ErrCodeEstimateInvalid:        "ESTIMATE_INVALID",
	ErrCodeRateCatalogUnavailable: "ENGINE_UNAVAILABLE",
	ErrCodeChipSourceUnavailable:  "ENGINE_UNAVAILABLE",
	ErrCodeCostingPersistFailed:   "ENGINE_UNAVAILABLE",
	ErrCodeProjectLookupFailed:    "ENGINE_UNAVAILABLE",
	ErrCodeIdentityUnavailable:    "ENGINE_UNAVAILABLE",
	ErrCodeSignalPublishFailed:    "ENGINE_UNAVAILABLE",
	ErrCodeInternal:               "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRateCatalogUnavailable,
		ErrCodeChipSourceUnavailable,
		ErrCodeCostingPersistFailed,
		ErrCodeProjectLookupFailed,
		ErrCodeSignalPublishFailed:
		return 3

	case ErrCodeIdentityUnavailable:
		return 2

	default:
		return 0
	}
}

// IsSafeToDisplay reports whether the message and details may reach the caller unchanged.
func IsSafeToDisplay(code ErrorCode) bool {
	switch code {
	case ErrCodeAuthenticationFailed,
		ErrCodeAuthorizationDenied,
		ErrCodeInputValidationFailed,
		ErrCodeRateNotFound,
		ErrCodeProjectNotFound,
		ErrCodeEstimateInvalid:
		return true
	default:
		return false
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// Internal failures lose their details here; the handler logs them instead.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	message, details := stdErr.Message, stdErr.Details
	if !IsSafeToDisplay(stdErr.Code) {
		message, details = GenericInternalMessage, ""
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   message,
		Details:   details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "AUTH"), strings.HasPrefix(codeStr, "IDENTITY"):
		return "AUTH"
	case strings.HasPrefix(codeStr, "RATE"):
		return "RATE_CATALOG"
	case strings.Contains(codeStr, "VALIDATION"), strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "PERSIST"), strings.Contains(codeStr, "NOT_FOUND"), strings.Contains(codeStr, "LOOKUP"):
		return "DATABASE"
	case strings.Contains(codeStr, "CHIP"), strings.Contains(codeStr, "SIGNAL"):
		return "INTEGRATION"
	default:
		return "OTHER"
	}
}
