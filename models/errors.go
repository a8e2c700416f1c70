// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAlreadyVoted    = fmt.Errorf("already voted: %w", ErrConflict)
	ErrForbidden       = errors.New("forbidden")
	ErrUnavailable     = errors.New("unavailable")
)

// Error carries a kind, a user-facing message and an optional internal cause.
// Error() returns only the message so it is safe to show to clients.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errorf builds an *Error of the given kind.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a store or network failure.
func Unavailable(msg string, cause error) *Error {
	return &Error{Kind: ErrUnavailable, Message: msg, Err: cause}
}

// KindOf returns the kind of err, or nil when err is not a classified error.
func KindOf(err error) error {
	for _, kind := range []error{ErrAlreadyVoted, ErrInvalidArgument, ErrNotFound, ErrConflict, ErrForbidden, ErrUnavailable} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
