package client

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response. Message is the server's message when it sent one.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// DecodeError means a 2xx response carried a body that could not be decoded.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError is raised before any request is sent.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// ErrSessionExpired is reported when a dispatch finds the token past its expiry.
var ErrSessionExpired = errors.New("session expired, please log in again")

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsConflict reports a 409, the answer to a lost booking race or an already cancelled appointment.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}
