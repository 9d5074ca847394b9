// Package apperr defines the error kinds the service reports to clients.
// Every failure that crosses the HTTP boundary is one of these kinds; the
// handler package maps a Kind to a status code and the stable machine
// readable "error" field of the response body.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable, machine readable category of an error.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindValidation      Kind = "validation_error"
	KindConflict        Kind = "conflict"
	KindUnavailable     Kind = "service_unavailable"
)

// Error carries a Kind, a human readable message, optional per-field
// validation messages and the underlying cause.  The cause is for logs
// only and is never written to a response.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an Error that keeps err as its cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Unauthenticated(msg string) *Error { return New(KindUnauthenticated, msg) }
func Forbidden(msg string) *Error       { return New(KindForbidden, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Conflict(msg string) *Error        { return New(KindConflict, msg) }

// Validation returns a validation error with optional field messages.
func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

// Unavailable wraps an infrastructure failure (datastore, timeout, broken
// connection).  The message shown to clients is always generic.
func Unavailable(err error) *Error {
	return Wrap(KindUnavailable, "service temporarily unavailable", err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err.  Errors that are not *Error are
// unexpected and therefore reported as KindUnavailable.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnavailable
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
