package servicedesk

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidMethod indicates an HTTP method outside GET, POST, PUT and DELETE
	ErrInvalidMethod = errors.New("invalid request method")
	// ErrMissingMethod indicates a request was dispatched without a method
	ErrMissingMethod = errors.New("request method is required")
	// ErrMissingPath indicates a request was dispatched without a resource path
	ErrMissingPath = errors.New("request path is required")
	// ErrConnection indicates the request never produced an HTTP response
	ErrConnection = errors.New("failed to connect to service desk")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid service desk configuration")
)

// TransportError is returned when the transport fails before any HTTP
// response is received (DNS, TCP, TLS, timeouts). HTTP error statuses are
// never reported this way; they come back as a normal *Response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("service desk %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrConnection so callers can branch without a type assertion.
func (e *TransportError) Is(target error) bool {
	return target == ErrConnection
}
