// Package errs holds the error taxonomy shared by the backend clients.
//
// Network-facing failures keep the upstream HTTP status (zero when the request
// never produced a response) and wrap the underlying cause. ValidationError is
// raised before any request is sent and only carries a user-facing message.
package errs

import (
	"errors"
	"fmt"
)

// AuthError reports a failed credential exchange.
type AuthError struct {
	Op     string
	Status int
	Err    error
}

func (e *AuthError) Error() string { return format("auth", e.Op, e.Status, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// FetchError reports a failed read of calendar data.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string { return format("fetch", e.Op, e.Status, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ImportError reports a rejected or failed ingestion submission.
type ImportError struct {
	Op     string
	Status int
	Err    error
}

func (e *ImportError) Error() string { return format("import", e.Op, e.Status, e.Err) }
func (e *ImportError) Unwrap() error { return e.Err }

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrUnexpectedStatus is wrapped by the typed errors when the backend answered
// with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrNoSession is returned by operations that need a session token when none is stored.
var ErrNoSession = errors.New("no session")

// Status extracts the upstream HTTP status from err, or 0.
func Status(err error) int {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Status
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Status
	}
	var importErr *ImportError
	if errors.As(err, &importErr) {
		return importErr.Status
	}
	return 0
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func format(kind, op string, status int, err error) string {
	if status != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", kind, op, status, err)
	}
	return fmt.Sprintf("%s %s: %v", kind, op, err)
}
