package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Handlers map kinds to HTTP status
// codes; services never import HTTP types.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindForbidden
	KindConflict
	KindUnauthorized
)

// Error is a caller-facing failure with a stable message. Internal
// errors wrap the cause for logging but the message shown to callers
// stays generic.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidState(message string) error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Internal(err error) error {
	return &Error{Kind: KindInternal, Message: "Oops! Something went wrong", Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// anything untyped.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// MessageOf extracts the caller-facing message from err.
func MessageOf(err error) string {
	var se *Error
	if errors.As(err, &se) {
		return se.Message
	}
	return "Oops! Something went wrong"
}
