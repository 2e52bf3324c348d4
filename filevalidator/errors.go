package filevalidator

import (
	"errors"
	"fmt"
)

// ValidationErrorType represents different types of validation errors
type ValidationErrorType string

const (
	ErrorTypeTransport ValidationErrorType = "transport"
	ErrorTypeExtension ValidationErrorType = "extension"
	ErrorTypeMismatch  ValidationErrorType = "mismatch"
)

// ValidationError represents a custom error for file validation.
// It implements the error interface and includes the error type for programmatic handling.
type ValidationError struct {
	// Type categorizes the validation failure (transport, extension, mismatch).
	Type ValidationErrorType

	// Message is the human-readable error description.
	Message string

	// Reason is only set for ErrorTypeTransport.
	Reason TransportReason
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation error: %s", e.Type, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(errType ValidationErrorType, message string) *ValidationError {
	return &ValidationError{
		Type:    errType,
		Message: message,
	}
}

// NewTransportError creates the ValidationError describing a failed transfer.
func NewTransportError(status TransferStatus) *ValidationError {
	reason, message := MapStatus(status)
	return &ValidationError{
		Type:    ErrorTypeTransport,
		Message: message,
		Reason:  reason,
	}
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsErrorOfType checks if an error is a ValidationError of the specified type
func IsErrorOfType(err error, errType ValidationErrorType) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Type == errType
	}
	return false
}

// GetErrorType returns the type of a ValidationError, or empty string if not a ValidationError
func GetErrorType(err error) ValidationErrorType {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Type
	}
	return ""
}

// GetErrorMessage returns the message of a ValidationError, or empty string if not a ValidationError
func GetErrorMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	return ""
}

// GetTransportReason returns the reason of a transport ValidationError, or
// empty string otherwise
func GetTransportReason(err error) TransportReason {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) && validationErr.Type == ErrorTypeTransport {
		return validationErr.Reason
	}
	return ""
}
