package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport means no response was received.
	KindTransport Kind = iota + 1
	// KindServer means the API answered with success=false or a non-2xx status.
	KindServer
	// KindNotFound is a 404 on a slug or id lookup.
	KindNotFound
	// KindUnauthorized is a 401; the session has been cleared by the time callers see it.
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is the uniform failure returned by Client.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("api %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func statusError(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	kind := KindServer
	switch status {
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Status: status, Message: message}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsNotFound reports a 404.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsUnauthorized reports a 401.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// MessageOf returns a message fit for display.
func MessageOf(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return "Something went wrong. Please try again."
	}
	if apiErr.Kind == KindTransport {
		return "Unable to reach the server. Please try again."
	}
	return apiErr.Message
}
