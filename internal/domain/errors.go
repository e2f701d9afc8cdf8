package domain

import (
	"fmt"
	"time"
)

// APIError represents a standardized transport error response
type APIError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrInvalidInput   = "INVALID_INPUT"
	ErrValidation     = "VALIDATION_ERROR"
	ErrRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrRequestTimeout = "REQUEST_TIMEOUT"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
)

// ValidationError is a user-correctable problem with one input field. It
// short-circuits evaluation before any domain logic runs.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error returns the user-facing message.
func (e *ValidationError) Error() string {
	return e.Message
}

// Detail returns the message qualified by the field name, for logs.
func (e *ValidationError) Detail() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewAPIError creates a new APIError with timestamp
func NewAPIError(code, message, details, requestID string) *APIError {
	return &APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
