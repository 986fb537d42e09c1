// Package apperr carries the error taxonomy of the service layer across
// package boundaries so controllers can map failures to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Validation covers malformed or out-of-range input.
	Validation Kind = iota + 1
	// NotFound means the referenced entity does not exist.
	NotFound
	// Duplicate means a uniqueness constraint was violated.
	Duplicate
	// Conflict means a version-token mismatch on a checked write; the
	// client should refresh and retry.
	Conflict
	// Unauthorized means a missing or invalid credential.
	Unauthorized
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool   { return KindOf(err) == Validation }
func IsNotFound(err error) bool     { return KindOf(err) == NotFound }
func IsDuplicate(err error) bool    { return KindOf(err) == Duplicate }
func IsConflict(err error) bool     { return KindOf(err) == Conflict }
func IsUnauthorized(err error) bool { return KindOf(err) == Unauthorized }
