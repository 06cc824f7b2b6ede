// Package errors defines the domain error kinds shared by storage, the ledger
// and the RPC services.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error kind.
type Code string

const (
	// CodeUnknown represents an error that carries no domain kind.
	CodeUnknown Code = "UNKNOWN"

	// CodeValidation marks a request that failed field validation.
	CodeValidation Code = "VALIDATION"

	// CodeNotFound marks an operation on a nonexistent member, activity or transaction.
	CodeNotFound Code = "NOT_FOUND"

	// CodeConstraint marks an operation blocked by a reference from other records,
	// such as deleting a member who paid for an activity.
	CodeConstraint Code = "CONSTRAINT"

	// CodeConflict marks a create that collides with an existing active record.
	CodeConflict Code = "CONFLICT"

	// CodeTimeout marks a request that ran past its deadline.
	CodeTimeout Code = "TIMEOUT"

	// CodeUnavailable marks a remote dependency that could not be reached.
	CodeUnavailable Code = "UNAVAILABLE"
)

// Error is the domain error type.
type Error struct {
	Code    Code   // Machine-readable kind
	Field   string // Offending request field, set for validation errors
	Message string // Human-readable message
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels usable with errors.Is.
var (
	ErrValidation  = &Error{Code: CodeValidation}
	ErrNotFound    = &Error{Code: CodeNotFound}
	ErrConstraint  = &Error{Code: CodeConstraint}
	ErrConflict    = &Error{Code: CodeConflict}
	ErrTimeout     = &Error{Code: CodeTimeout}
	ErrUnavailable = &Error{Code: CodeUnavailable}
)

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation creates a field-level validation error.
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

// NotFound creates a not-found error for the given entity kind and id.
func NotFound(kind, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", kind, id)}
}

// Constraint creates an error for an operation blocked by references.
func Constraint(message string) *Error {
	return &Error{Code: CodeConstraint, Message: message}
}

// Conflict creates an error for a duplicate active record.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Timeout creates a timeout error wrapping the deadline cause.
func Timeout(message string, cause error) *Error {
	return &Error{Code: CodeTimeout, Message: message, Cause: cause}
}

// CodeOf returns the domain code of err, or CodeUnknown when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if stderrors.As(err, &de) {
		return de.Code
	}
	return CodeUnknown
}

// FieldOf returns the validation field of err, if any.
func FieldOf(err error) string {
	var de *Error
	if stderrors.As(err, &de) {
		return de.Field
	}
	return ""
}
