// Package apperr defines the error taxonomy shared by all domain operations.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to branch on outcome.
type Kind int

const (
	// KindUnknown covers unexpected failures outside the taxonomy.
	KindUnknown Kind = iota
	// KindInvalidValue marks input that fails a domain rule.
	KindInvalidValue
	// KindNotFound marks a missing card or purchase.
	KindNotFound
	// KindConflict marks duplicate card numbers and credit-limit violations.
	KindConflict
	// KindConversionUnavailable marks a rate source that returned nothing usable.
	KindConversionUnavailable
	// KindInfrastructure marks storage or transport faults.
	KindInfrastructure
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidValue:
		return "invalid_value"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindConversionUnavailable:
		return "conversion_unavailable"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Error is a domain error with a kind and an optional wrapped cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.err }

// Kind returns the error's classification.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the user-facing message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// Invalid builds an InvalidValue error.
func Invalid(format string, args ...interface{}) *Error {
	return &Error{kind: KindInvalidValue, msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflict builds a Conflict error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// ConversionUnavailable builds a ConversionUnavailable error, optionally
// wrapping the cause for diagnostics.
func ConversionUnavailable(cause error, format string, args ...interface{}) *Error {
	return &Error{kind: KindConversionUnavailable, msg: fmt.Sprintf(format, args...), err: cause}
}

// Infrastructure wraps a storage or transport fault behind a generic message.
func Infrastructure(msg string, cause error) *Error {
	return &Error{kind: KindInfrastructure, msg: msg, err: cause}
}

// KindOf resolves the kind of any error, unwrapping as needed.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
