package filevalidator

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError(ErrorTypeExtension, "file extension .exe is blocked")
	expected := "extension validation error: file extension .exe is blocked"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
}

func TestNewTransportError(t *testing.T) {
	err := NewTransportError(StatusPartial)
	if err.Type != ErrorTypeTransport {
		t.Errorf("Type = %s, want %s", err.Type, ErrorTypeTransport)
	}
	if err.Reason != ReasonPartial {
		t.Errorf("Reason = %s, want %s", err.Reason, ReasonPartial)
	}
	if err.Message != "file was only partially uploaded" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "ValidationError",
			err:      NewValidationError(ErrorTypeExtension, "test"),
			expected: true,
		},
		{
			name:     "Wrapped ValidationError",
			err:      fmt.Errorf("upload: %w", NewTransportError(StatusNoFile)),
			expected: true,
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidationError(tt.err)
			if result != tt.expected {
				t.Errorf("IsValidationError() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestIsErrorOfType(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		errorType ValidationErrorType
		expected  bool
	}{
		{
			name:      "Matching type",
			err:       NewValidationError(ErrorTypeMismatch, "test"),
			errorType: ErrorTypeMismatch,
			expected:  true,
		},
		{
			name:      "Non-matching type",
			err:       NewValidationError(ErrorTypeExtension, "test"),
			errorType: ErrorTypeMismatch,
			expected:  false,
		},
		{
			name:      "Transport error",
			err:       NewTransportError(StatusServerSize),
			errorType: ErrorTypeTransport,
			expected:  true,
		},
		{
			name:      "Regular error",
			err:       errors.New("regular error"),
			errorType: ErrorTypeExtension,
			expected:  false,
		},
		{
			name:      "Nil error",
			err:       nil,
			errorType: ErrorTypeExtension,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsErrorOfType(tt.err, tt.errorType)
			if result != tt.expected {
				t.Errorf("IsErrorOfType() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetErrorTypeAndMessage(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewValidationError(ErrorTypeMismatch, "bad type"))
	if got := GetErrorType(err); got != ErrorTypeMismatch {
		t.Errorf("GetErrorType() = %s, want %s", got, ErrorTypeMismatch)
	}
	if got := GetErrorMessage(err); got != "bad type" {
		t.Errorf("GetErrorMessage() = %q, want %q", got, "bad type")
	}
	if got := GetErrorType(errors.New("plain")); got != "" {
		t.Errorf("GetErrorType(plain) = %s, want empty", got)
	}
	if got := GetErrorMessage(nil); got != "" {
		t.Errorf("GetErrorMessage(nil) = %q, want empty", got)
	}
}

func TestGetTransportReason(t *testing.T) {
	if got := GetTransportReason(NewTransportError(StatusPartial)); got != ReasonPartial {
		t.Errorf("GetTransportReason() = %q, want %q", got, ReasonPartial)
	}
	if got := GetTransportReason(NewValidationError(ErrorTypeExtension, "nope")); got != "" {
		t.Errorf("GetTransportReason() = %q for extension error, want empty", got)
	}
	if got := GetTransportReason(fmt.Errorf("wrapped: %w", NewTransportError(StatusCantWrite))); got != ReasonWriteFailed {
		t.Errorf("GetTransportReason() = %q through wrapping, want %q", got, ReasonWriteFailed)
	}
}
