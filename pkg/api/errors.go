package api

import "fmt"

// ErrorType represents the category of a gateway error.
type ErrorType string

const (
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeNotReady        ErrorType = "not_ready"
	ErrorTypeMalformedInput  ErrorType = "malformed_input"
	ErrorTypeUpstreamFailure ErrorType = "upstream_failure"
	ErrorTypeServerError     ErrorType = "server_error"
)

// GatewayError is a structured error with a type and message. All faults
// crossing the gateway boundary are converted to this form; nothing
// propagates as an uncaught fault past the transport layer.
type GatewayError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ErrorResponse wraps a GatewayError for JSON serialization as the
// top-level error response body.
type ErrorResponse struct {
	Error *GatewayError `json:"error"`
}

// NewUnauthorizedError creates a GatewayError for a bad or missing API key.
func NewUnauthorizedError(message string) *GatewayError {
	return &GatewayError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewNotReadyError creates a GatewayError for requests arriving before
// startup initialization has completed.
func NewNotReadyError(message string) *GatewayError {
	return &GatewayError{Type: ErrorTypeNotReady, Message: message}
}

// NewMalformedInputError creates a GatewayError for empty or unusable input.
func NewMalformedInputError(message string) *GatewayError {
	return &GatewayError{Type: ErrorTypeMalformedInput, Message: message}
}

// NewUpstreamFailureError creates a GatewayError for failed upstream calls
// (data backend or generative backend).
func NewUpstreamFailureError(message string) *GatewayError {
	return &GatewayError{Type: ErrorTypeUpstreamFailure, Message: message}
}

// NewServerError creates a GatewayError for unexpected internal faults.
func NewServerError(message string) *GatewayError {
	return &GatewayError{Type: ErrorTypeServerError, Message: message}
}
