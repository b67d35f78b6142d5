// Package errs defines the closed error taxonomy shared by the
// transport layer, the operation services, and the front ends.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the failure categories the
// rest of the system dispatches on.
type Kind int

const (
	// KindConnection covers network unreachability and timeouts.
	// Connection failures are the only retryable kind.
	KindConnection Kind = iota + 1
	// KindAuthentication covers rejected credentials (HTTP 401/403).
	KindAuthentication
	// KindAPI covers any other HTTP error status and non-JSON
	// success bodies.
	KindAPI
	// KindValidation covers inputs that fail shape or range checks
	// before any network call is made.
	KindValidation
	// KindNotFound covers "resource does not exist" at the service
	// boundary.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindAuthentication:
		return "authentication"
	case KindAPI:
		return "api"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	}
	return "unknown"
}

// Error carries a kind, a human-readable message and an optional
// wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf reports the kind of err, or 0 when err is not part of the
// taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsConnection(err error) bool     { return IsKind(err, KindConnection) }
func IsAuthentication(err error) bool { return IsKind(err, KindAuthentication) }
func IsAPI(err error) bool            { return IsKind(err, KindAPI) }
func IsValidation(err error) bool     { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool       { return IsKind(err, KindNotFound) }
