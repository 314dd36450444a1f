package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// Request errors
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeValidationError ErrorCode = "VALIDATION_ERROR"

	// Warehouse errors
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeQueryFailed      ErrorCode = "QUERY_FAILED"

	// Everything else
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with code and context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Status  int // HTTP status code
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  getHTTPStatus(code),
	}
}

// WrapError wraps an existing error with an error code and message
func WrapError(code ErrorCode, message string, err error) *AppError {
	return NewAppError(code, message, err)
}

// getHTTPStatus maps error codes to HTTP status codes
func getHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeValidationError:
		return http.StatusBadRequest
	case ErrCodeConnectionFailed:
		return http.StatusBadGateway
	case ErrCodeConfiguration, ErrCodeQueryFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Code extracts the error code from err, or ErrCodeInternalError for
// errors that did not originate in this package.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// Status extracts the HTTP status from err, defaulting to 500.
func Status(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// IsConfiguration checks if the error is a credential configuration error
func IsConfiguration(err error) bool {
	return Code(err) == ErrCodeConfiguration
}

// IsQueryFailure checks if the error came from connecting to or querying the warehouse
func IsQueryFailure(err error) bool {
	code := Code(err)
	return code == ErrCodeQueryFailed || code == ErrCodeConnectionFailed
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	code := Code(err)
	return code == ErrCodeValidationError || code == ErrCodeInvalidInput
}
