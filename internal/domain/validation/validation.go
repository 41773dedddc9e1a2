// Package validation carries field level input errors from domain packages to the HTTP layer.
package validation

import "fmt"

// FieldError names the input field that failed a check. It unwraps to the sentinel of the
// package that raised it, so callers can match either.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func New(sentinel error, field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason, Err: sentinel}
}

func (e *FieldError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Err, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
