package domain

import (
	"errors"
	"fmt"
)

// Stable error codes surfaced to clients. Handlers map these to HTTP status
// codes; callers match on code, never on message text.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInconsistentState  = "INCONSISTENT_STATE"
	ErrCodeUpstreamServer     = "UPSTREAM_SERVER_ERROR"
	ErrCodeEmptyResponse      = "EMPTY_RESPONSE"
)

// DomainError represents domain-specific errors that can occur during service operations.
// It provides structured error information with error codes and optional underlying causes.
type DomainError struct {
	// Code identifies the type of error for programmatic handling
	Code string

	// Message provides a human-readable error description
	Message string

	// Cause wraps an underlying error if applicable
	Cause error
}

// Error implements the error interface for DomainError.
// It formats the error message to include the code, message, and underlying cause.
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewValidationError builds a VALIDATION_ERROR with a formatted message.
func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var e *DomainError

	return errors.As(err, &e) && e.Code == code
}
