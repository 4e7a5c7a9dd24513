// Package apperror carries the service-wide error taxonomy. Every error
// returned across a use-case boundary is an *Error with a Kind the transport
// layer can map to a status code.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation policy.
type Kind string

const (
	// KindValidation marks missing or malformed caller input.
	KindValidation Kind = "validation"
	// KindUnauthorized marks a missing or unusable credential.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden marks a caller without the required business
	// association or admin role.
	KindForbidden Kind = "forbidden"
	// KindNotFound marks an absent business, application, document or
	// session.
	KindNotFound Kind = "not_found"
	// KindConflict marks an invalid state transition, such as approving a
	// non-submitted application.
	KindConflict Kind = "conflict"
	// KindProvider marks a failed remote provider call.
	KindProvider Kind = "provider"
	// KindPersistence marks a local store write that failed after a
	// successful remote effect. These are logged for reconciliation and
	// usually not surfaced to the caller.
	KindPersistence Kind = "persistence"
	// KindInternal is everything else.
	KindInternal Kind = "internal"

	// KindTokenExpired marks an approval token past its expiry.
	KindTokenExpired Kind = "token_expired"
	// KindTokenInvalid marks an approval token with a bad signature or
	// malformed claims.
	KindTokenInvalid Kind = "token_invalid"
	// KindTokenRevoked marks an approval token whose business has
	// regressed from approved since issuance.
	KindTokenRevoked Kind = "token_revoked"
)

// Error is the concrete error type used throughout the service.
type Error struct {
	kind    Kind
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Message returns the caller-safe message without the wrapped cause.
func (e *Error) Message() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.err
}

// New creates a new error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Newf creates a new error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err under the given kind. Returns nil when err is nil.
func Wrap(kind Kind, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: kind, message: message, err: err}
}

// KindOf extracts the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Validation creates a validation error.
func Validation(message string) *Error { return New(KindValidation, message) }

// Forbidden creates an authorization error.
func Forbidden(message string) *Error { return New(KindForbidden, message) }

// NotFound creates a not-found error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict creates an invalid-transition error.
func Conflict(message string) *Error { return New(KindConflict, message) }
