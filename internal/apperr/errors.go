// Package apperr defines the error taxonomy shared by the storage and
// credential layers. Store-level failures are translated into one of these
// kinds before they cross a package boundary; raw driver errors never do.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error
type Kind int

const (
	// KindNotFound means a referenced entity is absent
	KindNotFound Kind = iota + 1
	// KindConflict means a uniqueness constraint was violated
	KindConflict
	// KindInvalidArgument means a caller-supplied value violates a business rule
	KindInvalidArgument
	// KindAuthentication means credential verification failed
	KindAuthentication
	// KindUnavailable means the backing store could not be reached
	KindUnavailable
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindAuthentication:
		return "authentication"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is an application error with a kind and an optional wrapped cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a not-found error
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument creates an invalid-argument error
func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Authentication creates an authentication error
func Authentication(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthentication, Message: fmt.Sprintf(format, args...)}
}

// Unavailable creates an unavailable error wrapping the transport cause
func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Message: "store unavailable", Err: err}
}

// KindOf returns the kind of err, or 0 if err is not an application error
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict error
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsInvalidArgument reports whether err is an invalid-argument error
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsAuthentication reports whether err is an authentication error
func IsAuthentication(err error) bool { return KindOf(err) == KindAuthentication }

// IsUnavailable reports whether err is an unavailable error
func IsUnavailable(err error) bool { return KindOf(err) == KindUnavailable }
