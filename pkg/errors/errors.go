package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType is the machine-readable kind reported to API callers
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation_error"
	ErrorTypeIO                ErrorType = "io_error"
	ErrorTypeConversionFailed  ErrorType = "conversion_failed"
	ErrorTypeConversionTimeout ErrorType = "conversion_timeout"
	ErrorTypeInternal          ErrorType = "internal_error"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"error"`
	Message    string    `json:"detail"`
	Output     string    `json:"output,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a 400 validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewUnsupportedMediaError creates a validation error reported as 415
func NewUnsupportedMediaError(message string, cause error) *AppError {
	err := NewValidationError(message, cause)
	err.StatusCode = http.StatusUnsupportedMediaType
	return err
}

// NewTooLargeError creates a validation error reported as 413
func NewTooLargeError(message string, cause error) *AppError {
	err := NewValidationError(message, cause)
	err.StatusCode = http.StatusRequestEntityTooLarge
	return err
}

// NewIOError creates a local filesystem or stream error
func NewIOError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeIO,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConversionFailedError creates an error for a converter that failed or produced nothing.
// output is attached as-is; callers truncate it first.
func NewConversionFailedError(message, output string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeConversionFailed,
		Message:    message,
		Output:     output,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConversionTimeoutError creates an error for a converter that ran out of time
func NewConversionTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeConversionTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// As returns the AppError in err's chain, if any
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
