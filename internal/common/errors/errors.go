// Package errors provides the standardized error model for the admission backend:
// structured errors with codes, their HTTP status mapping and their BPMN mapping
// for the Zeebe worker.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeMissingRequiredFields ErrorCode = "MISSING_REQUIRED_FIELDS"
	ErrCodeInvalidRequest        ErrorCode = "INVALID_REQUEST"

	ErrCodeApplicationNotFound      ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeApplicationPersistFailed ErrorCode = "APPLICATION_PERSIST_FAILED"
	ErrCodeApplicationLookupFailed  ErrorCode = "APPLICATION_LOOKUP_FAILED"
	ErrCodeStudentIDExhausted       ErrorCode = "STUDENT_ID_EXHAUSTED"

	ErrCodeLetterRenderFailed  ErrorCode = "LETTER_RENDER_FAILED"
	ErrCodeEmailDispatchFailed ErrorCode = "EMAIL_DISPATCH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// User-facing messages carried in the "error" field of failure envelopes.
const (
	MsgMissingRequiredFields = "Missing required personal information fields"
	MsgInvalidRequest        = "Please check that all required fields are filled correctly."
	MsgApplicationNotFound   = "Application not found"
	MsgSubmitFailed          = "Failed to submit application. Please try again."
	MsgEmailFailed           = "Application saved but failed to send email. Please contact admissions."
	MsgResendFailed          = "Failed to resend admission letter"
	MsgStatusFailed          = "Failed to fetch application status"
)

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

// WithMessage returns a copy carrying a different user-facing message.
func (e *StandardError) WithMessage(msg string) *StandardError {
	cp := *e
	cp.Message = msg
	return &cp
}

// HTTPStatus returns the status code the HTTP layer answers with for this error.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingRequiredFieldsError is returned when personalInfo lacks a name or email.
func NewMissingRequiredFieldsError(fields []string) *StandardError {
	return newError(ErrCodeMissingRequiredFields, MsgMissingRequiredFields,
		fmt.Sprintf("missing: %s", strings.Join(fields, ", ")), false)
}

// NewInvalidRequestError wraps a malformed request body.
func NewInvalidRequestError(err error) *StandardError {
	return newError(ErrCodeInvalidRequest, MsgInvalidRequest, errDetails(err), false)
}

// NewApplicationNotFoundError reports an unknown student ID.
func NewApplicationNotFoundError(studentID string) *StandardError {
	return newError(ErrCodeApplicationNotFound, MsgApplicationNotFound,
		fmt.Sprintf("studentId: %s", studentID), false)
}

// NewApplicationPersistFailedError is a retryable store write failure.
func NewApplicationPersistFailedError(err error) *StandardError {
	return newError(ErrCodeApplicationPersistFailed, MsgSubmitFailed, errDetails(err), true)
}

// NewApplicationLookupFailedError is a retryable store read failure.
func NewApplicationLookupFailedError(err error) *StandardError {
	return newError(ErrCodeApplicationLookupFailed, MsgStatusFailed, errDetails(err), true)
}

// NewStudentIDExhaustedError is returned when every drawn ID already exists.
func NewStudentIDExhaustedError(attempts int) *StandardError {
	return newError(ErrCodeStudentIDExhausted, MsgSubmitFailed,
		fmt.Sprintf("no free student id after %d attempts", attempts), true)
}

// NewLetterRenderFailedError wraps a template or PDF rendering failure.
func NewLetterRenderFailedError(err error) *StandardError {
	return newError(ErrCodeLetterRenderFailed, MsgSubmitFailed, errDetails(err), false)
}

// NewEmailDispatchFailedError is raised after the record was saved but delivery
// failed. It is terminal: running the submission again would store a second
// record under a new student id.
func NewEmailDispatchFailedError(err error) *StandardError {
	return newError(ErrCodeEmailDispatchFailed, MsgEmailFailed, errDetails(err), false)
}

// NewInternalError wraps anything unclassified.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, MsgSubmitFailed, errDetails(err), false)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ==========================
// 4. Status & BPMN mapping
// ==========================

// HTTPStatus maps an error code to the HTTP status the API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMissingRequiredFields, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeApplicationNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetRetryCount returns the recommended Zeebe retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeApplicationPersistFailed,
		ErrCodeApplicationLookupFailed:
		return 3
	case ErrCodeStudentIDExhausted:
		return 1
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
	for k, v := range stdErr.Metadata {
		vars[k] = v
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

// AsStandardError normalizes any error into a StandardError.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "EMAIL"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "PERSIST") || strings.Contains(codeStr, "LOOKUP"):
		return "DATABASE"
	case strings.Contains(codeStr, "LETTER"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "MISSING") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	default:
		return "OTHER"
	}
}
