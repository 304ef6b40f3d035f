package freshbooks

import (
	"errors"
	"fmt"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrClientIDRequired     = errors.New("client id is required")
	ErrClientSecretRequired = errors.New("client secret is required")
	ErrRedirectURIRequired  = errors.New("redirect uri is required")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
)

// Error represents a non-2xx response from the FreshBooks API, or a 2xx
// response whose body is missing the expected envelope.
type Error struct {
	// StatusCode is the HTTP status code from the server.
	StatusCode int
	// Message is the human-readable error message.
	Message string
	// Code is the FreshBooks-specific numeric error code, when available.
	// Zero means the API did not supply one.
	Code int
	// ErrorID is the machine-readable error identifier returned by the
	// identity endpoints (e.g. "unauthenticated"), when available.
	ErrorID string
	// Details holds structured error details, when available.
	Details []map[string]interface{}
	// Raw is the raw response body for diagnostics.
	Raw string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NotImplementedError is returned when calling an operation that the
// upstream API does not support for the resource.
type NotImplementedError struct {
	ResourceName string
	Operation    string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("the operation %q does not exist for %s", e.Operation, e.ResourceName)
}

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}

	return false
}

// IsUnauthorized checks if the error is a 401 from the API.
func IsUnauthorized(err error) bool {
	apiErr := &Error{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}

	return false
}
