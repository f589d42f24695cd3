// Package errors provides the evaluation error taxonomy and its mapping onto
// BPMN errors for the Zeebe process.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/models"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Capability / upstream AI errors
const (
	ErrCodeCapabilityNotConfigured ErrorCode = "CAPABILITY_NOT_CONFIGURED"
	ErrCodeMalformedResponse       ErrorCode = "MALFORMED_RESPONSE"
	ErrCodePartialFailure          ErrorCode = "PARTIAL_FAILURE"
	ErrCodeNotEnoughInput          ErrorCode = "NOT_ENOUGH_INPUT"
	ErrCodeGenerationFailed        ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout       ErrorCode = "GENERATION_TIMEOUT"

	ErrCodeWebSearchFailed  ErrorCode = "WEB_SEARCH_FAILED"
	ErrCodeWebSearchTimeout ErrorCode = "WEB_SEARCH_TIMEOUT"

	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Delivery errors
const (
	ErrCodeDatabaseInsertFailed   ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateEvaluation    ErrorCode = "DUPLICATE_EVALUATION"
	ErrCodeIndexFailed            ErrorCode = "INDEX_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// Sentinels for errors.Is checks against any StandardError carrying the code.
var (
	ErrCapabilityNotConfigured = errors.New(string(ErrCodeCapabilityNotConfigured))
	ErrMalformedResponse       = errors.New(string(ErrCodeMalformedResponse))
	ErrPartialFailure          = errors.New(string(ErrCodePartialFailure))
	ErrNotEnoughInput          = errors.New(string(ErrCodeNotEnoughInput))
	ErrGenerationFailed        = errors.New(string(ErrCodeGenerationFailed))
	ErrGenerationTimeout       = errors.New(string(ErrCodeGenerationTimeout))
	ErrWebSearchFailed         = errors.New(string(ErrCodeWebSearchFailed))
	ErrWebSearchTimeout        = errors.New(string(ErrCodeWebSearchTimeout))
	ErrInvalidInput            = errors.New(string(ErrCodeInvalidInput))
	ErrDatabaseInsertFailed    = errors.New(string(ErrCodeDatabaseInsertFailed))
	ErrDuplicateEvaluation     = errors.New(string(ErrCodeDuplicateEvaluation))
	ErrIndexFailed             = errors.New(string(ErrCodeIndexFailed))
	ErrNotificationSendFailed  = errors.New(string(ErrCodeNotificationSendFailed))
)

var sentinels = map[ErrorCode]error{
	ErrCodeCapabilityNotConfigured: ErrCapabilityNotConfigured,
	ErrCodeMalformedResponse:       ErrMalformedResponse,
	ErrCodePartialFailure:          ErrPartialFailure,
	ErrCodeNotEnoughInput:          ErrNotEnoughInput,
	ErrCodeGenerationFailed:        ErrGenerationFailed,
	ErrCodeGenerationTimeout:       ErrGenerationTimeout,
	ErrCodeWebSearchFailed:         ErrWebSearchFailed,
	ErrCodeWebSearchTimeout:        ErrWebSearchTimeout,
	ErrCodeInvalidInput:            ErrInvalidInput,
	ErrCodeDatabaseInsertFailed:    ErrDatabaseInsertFailed,
	ErrCodeDuplicateEvaluation:     ErrDuplicateEvaluation,
	ErrCodeIndexFailed:             ErrIndexFailed,
	ErrCodeNotificationSendFailed:  ErrNotificationSendFailed,
}

// MetaRawResponse is the metadata key holding unparseable upstream output.
const MetaRawResponse = "raw_response"

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another StandardError with the same code or the code's sentinel.
func (e *StandardError) Is(target error) bool {
	if t, ok := target.(*StandardError); ok {
		return t.Code == e.Code
	}
	if s, ok := sentinels[e.Code]; ok {
		return s == target
	}
	return false
}

// RawResponse returns the captured upstream text, if any.
func (e *StandardError) RawResponse() string {
	if e.Metadata == nil {
		return ""
	}
	raw, _ := e.Metadata[MetaRawResponse].(string)
	return raw
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
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewCapabilityNotConfiguredError is returned before any call is attempted.
func NewCapabilityNotConfiguredError(capability string) *StandardError {
	return newError(ErrCodeCapabilityNotConfigured,
		"Capability not configured",
		fmt.Sprintf("capability: %s", capability), false, nil)
}

// NewMalformedResponseError keeps the raw upstream text for diagnostics.
func NewMalformedResponseError(raw string, err error) *StandardError {
	e := newError(ErrCodeMalformedResponse,
		"Upstream response is not the expected JSON shape",
		errDetails(err), false, err)
	e.Metadata = map[string]interface{}{MetaRawResponse: raw}
	return e
}

func NewPartialFailureError(failed []string) *StandardError {
	e := newError(ErrCodePartialFailure,
		"One or more independent operations failed",
		fmt.Sprintf("failed: %s", strings.Join(failed, ",")), false, nil)
	e.Metadata = map[string]interface{}{"failed": failed}
	return e
}

func NewNotEnoughInputError(details string) *StandardError {
	return newError(ErrCodeNotEnoughInput, "Not enough input to evaluate", details, false, nil)
}

func NewGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeGenerationFailed, "Generative call failed", errDetails(err), false, err)
}

func NewGenerationTimeoutError(err error) *StandardError {
	return newError(ErrCodeGenerationTimeout, "Generative call timed out", errDetails(err), false, err)
}

func NewWebSearchFailedError(err error) *StandardError {
	return newError(ErrCodeWebSearchFailed, "Web search failed", errDetails(err), false, err)
}

func NewWebSearchTimeoutError() *StandardError {
	return newError(ErrCodeWebSearchTimeout, "Web search request timed out", "", false, nil)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false, nil)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert error", errDetails(err), true, err)
}

func NewDuplicateEvaluationError(caseID string) *StandardError {
	return newError(ErrCodeDuplicateEvaluation, "Evaluation already stored",
		fmt.Sprintf("caseId: %s", caseID), false, nil)
}

func NewIndexFailedError(err error) *StandardError {
	return newError(ErrCodeIndexFailed, "Search index write failed", errDetails(err), true, err)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Failed to send notification",
		fmt.Sprintf("channel: %s, error: %s", channel, errDetails(err)), true, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the Zeebe retry budget for a code. Generative and
// search calls are fire-once; only delivery writes are retried by the engine.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeIndexFailed,
		ErrCodeNotificationSendFailed:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	if raw := stdErr.RawResponse(); raw != "" {
		vars[MetaRawResponse] = raw
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandard returns err as a StandardError, wrapping unknown errors as internal.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), false, err)
}

// ToExtractionError converts err into the serializable result-variant error
// carried by extraction and synthesis results.
func ToExtractionError(err error) *models.ExtractionError {
	stdErr := AsStandard(err)
	msg := stdErr.Message
	if stdErr.Details != "" {
		msg = msg + ": " + stdErr.Details
	}
	return &models.ExtractionError{
		Code:        string(stdErr.Code),
		Message:     msg,
		RawResponse: stdErr.RawResponse(),
	}
}

// CodeOf returns the taxonomy code of err, or INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return AsStandard(err).Code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CAPABILITY") || strings.Contains(codeStr, "GENERATION") ||
		strings.Contains(codeStr, "MALFORMED"):
		return "AI"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "DUPLICATE") ||
		strings.Contains(codeStr, "INDEX"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INPUT"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
