// Package apperr defines the two sentinel error categories used across modelmaster.
//
// Error taxonomy
//
//	UserError  – caused by missing or invalid user input (no file, blank target
//	             variable, wrong flag value, non-CSV upload, …). It is recovered
//	             locally and never reaches the network layer.
//	             The CLI prints only the message; usage help is NOT repeated.
//	             Exit code: 1.
//
//	ErrCancelled – the user deliberately aborted an interactive flow (target
//	               selector, prediction form, …).
//	               Exit code: 0 (not a failure).
//
// Remote failures are reported as *service.RemoteError. Everything else is a
// plain Go error propagated with fmt.Errorf("context: %w", err) wrapping.
package apperr

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the user explicitly aborts an interactive
// operation.  The CLI should exit 0 rather than 1 when it sees this error.
var ErrCancelled = errors.New("operation cancelled")

// UserError represents an error caused by invalid or missing user input.
// Title is the short headline shown by the notification layer; Message is the
// longer description.
type UserError struct {
	Title   string
	Message string
}

func (e *UserError) Error() string {
	if e.Title == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Title
	}
	return e.Title + ": " + e.Message
}

// User creates a UserError with the given message.
func User(msg string) error { return &UserError{Message: msg} }

// Userf creates a formatted UserError.
func Userf(format string, args ...any) error {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// Titled creates a UserError carrying both a headline and a description.
func Titled(title, msg string) *UserError {
	return &UserError{Title: title, Message: msg}
}

// IsUser reports whether err is (or wraps) a *UserError.
func IsUser(err error) bool {
	var u *UserError
	return errors.As(err, &u)
}
