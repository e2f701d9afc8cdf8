package domain

import (
	"testing"
	"time"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		message   string
		details   string
		requestID string
	}{
		{
			name:      "Validation error",
			code:      ErrValidation,
			message:   "Invalid dose value",
			details:   "dose must be a positive number",
			requestID: "req-123",
		},
		{
			name:      "Rate limit",
			code:      ErrRateLimit,
			message:   "Too many requests",
			requestID: "req-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIError(tt.code, tt.message, tt.details, tt.requestID)

			if err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, err.Code)
			}

			if err.Message != tt.message {
				t.Errorf("Expected message %s, got %s", tt.message, err.Message)
			}

			if err.Details != tt.details {
				t.Errorf("Expected details %s, got %s", tt.details, err.Details)
			}

			if err.RequestID != tt.requestID {
				t.Errorf("Expected requestID %s, got %s", tt.requestID, err.RequestID)
			}

			if time.Since(err.Timestamp) > time.Minute {
				t.Errorf("Timestamp should be recent, got %v", err.Timestamp)
			}

			expectedError := tt.code + ": " + tt.message
			if err.Error() != expectedError {
				t.Errorf("Expected error string %s, got %s", expectedError, err.Error())
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		message string
		value   interface{}
	}{
		{
			name:    "Weight format",
			field:   "weight",
			message: "Invalid weight format: must be a number",
			value:   "heavy",
		},
		{
			name:    "Negative age",
			field:   "age",
			message: "Invalid age value: must be zero or positive",
			value:   -1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, tt.value)

			if err.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, err.Field)
			}

			if err.Value != tt.value {
				t.Errorf("Expected value %v, got %v", tt.value, err.Value)
			}

			// The user-facing message is returned verbatim
			if err.Error() != tt.message {
				t.Errorf("Expected error string %s, got %s", tt.message, err.Error())
			}

			expectedDetail := "validation error for field '" + tt.field + "': " + tt.message
			if err.Detail() != expectedDetail {
				t.Errorf("Expected detail %s, got %s", expectedDetail, err.Detail())
			}
		})
	}
}

func TestErrorConstants(t *testing.T) {
	expected := map[string]string{
		ErrInvalidInput:   "INVALID_INPUT",
		ErrValidation:     "VALIDATION_ERROR",
		ErrRateLimit:      "RATE_LIMIT_EXCEEDED",
		ErrRequestTimeout: "REQUEST_TIMEOUT",
		ErrInternalServer: "INTERNAL_SERVER_ERROR",
	}

	for actual, want := range expected {
		if actual != want {
			t.Errorf("Expected %s, got %s", want, actual)
		}
	}
}
