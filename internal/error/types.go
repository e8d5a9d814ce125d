package error

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeUpstream   ErrorType = "upstream_error"
	ErrorTypeInternal   ErrorType = "internal_error"
)

// UpstreamFailureBody is the fixed body sent when the provider cannot be used
const UpstreamFailureBody = "upstream error"

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Err        error     `json:"-"`
}

// ------------------------------------------------------------------------------------------------------
// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ------------------------------------------------------------------------------------------------------
func (e *AppError) Unwrap() error {
	return e.Err
}

// ------------------------------------------------------------------------------------------------------
// NewValidationError creates a validation error
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewUpstreamError creates an error for a provider that could not be reached
// or answered with a non-success status
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewInternalError creates an internal server error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// IsValidation reports whether err is a validation AppError
func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ErrorTypeValidation
}

// ------------------------------------------------------------------------------------------------------
// IsUpstream reports whether err is an upstream AppError
func IsUpstream(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ErrorTypeUpstream
}

// ------------------------------------------------------------------------------------------------------
// GetHTTPStatusCode returns the appropriate HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// ------------------------------------------------------------------------------------------------------
// ErrorResponse represents the JSON error response structure
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
}

// ------------------------------------------------------------------------------------------------------
// NewErrorResponse creates a standardized error response
func NewErrorResponse(err error) ErrorResponse {
	var appErr *AppError

	if errors.As(err, &appErr) {
		return ErrorResponse{
			Error: ErrorDetail{
				Type:    appErr.Type,
				Message: appErr.Message,
				Code:    string(appErr.Type),
			},
		}
	}

	return ErrorResponse{
		Error: ErrorDetail{
			Type:    ErrorTypeInternal,
			Message: err.Error(),
			Code:    string(ErrorTypeInternal),
		},
	}
}
