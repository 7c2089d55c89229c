package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNetwork    = errors.New("network error")
	ErrAuth       = errors.New("authentication failed")
	ErrValidation = errors.New("request rejected")
	ErrNotFound   = errors.New("not found")
	ErrServer     = errors.New("server error")
)

// Error describes a failed API call.
type Error struct {
	Kind    error
	Status  int    // 0 when no response was received
	Message string // server supplied, may be empty
	Method  string
	Path    string
	Err     error // underlying transport error, if any
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v: %v", e.Method, e.Path, e.Kind, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %v (%d): %s", e.Method, e.Path, e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s: %v (%d)", e.Method, e.Path, e.Kind, e.Status)
	}
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// KindForStatus maps an HTTP status to an error kind. It returns nil for
// success statuses.
func KindForStatus(status int) error {
	switch {
	case status < http.StatusBadRequest:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusNotFound:
		return ErrNotFound
	case status < http.StatusInternalServerError:
		return ErrValidation
	default:
		return ErrServer
	}
}

// MessageOf returns the server supplied message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// KindName is a short label for metrics and logs.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrServer):
		return "server"
	}
	return "other"
}
