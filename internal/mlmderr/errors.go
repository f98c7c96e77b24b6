// Package mlmderr defines the error taxonomy shared by every layer of the
// metadata storage engine: driver, query executor, metadata access object,
// and store façade. Errors carry a Code so callers can branch on the kind
// of failure (errors.As) instead of matching strings.
package mlmderr

import (
	"errors"
	"fmt"
)

// Code categorizes a storage-engine error. The set mirrors spec §7.
type Code string

const (
	// InvalidArgument marks malformed input: bad page size, unknown enum,
	// template/parameter arity mismatch, page-token option drift, a
	// downgrade target out of range.
	InvalidArgument Code = "INVALID_ARGUMENT"

	// NotFound marks an empty database on version probe, or a lookup by id
	// that yielded no rows.
	NotFound Code = "NOT_FOUND"

	// AlreadyExists marks a uniqueness-constraint violation surfaced as
	// user-actionable for CRUD paths.
	AlreadyExists Code = "ALREADY_EXISTS"

	// FailedPrecondition marks db>lib version skew, or disabled upgrades.
	FailedPrecondition Code = "FAILED_PRECONDITION"

	// Aborted marks a transient condition: concurrent-init races, deadlocks.
	// Only Aborted errors are retried, and only at the store façade.
	Aborted Code = "ABORTED"

	// DataLoss marks a corrupted MLMDEnv: more than one row, or a schema
	// version visible mid-init that contradicts what the initializer wrote.
	DataLoss Code = "DATA_LOSS"

	// Internal marks a programming or catalog error: missing migration
	// scheme, LastInsertID returning nothing, an unknown property value case.
	Internal Code = "INTERNAL"
)

// Error is the concrete error type returned across component boundaries.
// Op names the operation that failed (e.g. "GetSchemaVersion",
// "PutArtifact"); it is prepended to the message the way the teacher's
// migration-step errors prepend a contextual prefix.
type Error struct {
	Code Code
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Msg != "":
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Code, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Msg)
	case e.Op != "":
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
}

// Unwrap allows errors.Is/errors.As to see through to the driver error.
func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error with the given code.
func New(code Code, op, msg string) *Error {
	return &Error{Code: code, Op: op, Msg: msg}
}

// Wrap constructs an *Error around an underlying error.
func Wrap(code Code, op, msg string, err error) *Error {
	return &Error{Code: code, Op: op, Msg: msg, Err: err}
}

// Is reports whether err carries the given Code. Wrapped errors are
// unwrapped via errors.As before the comparison.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the Code carried by err, or Internal if err does not
// wrap an *Error — every unrecognized driver error is treated as internal
// until something maps it explicitly.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

func InvalidArgumentf(op, format string, args ...any) *Error {
	return New(InvalidArgument, op, fmt.Sprintf(format, args...))
}

func NotFoundf(op, format string, args ...any) *Error {
	return New(NotFound, op, fmt.Sprintf(format, args...))
}

func AlreadyExistsf(op, format string, args ...any) *Error {
	return New(AlreadyExists, op, fmt.Sprintf(format, args...))
}

func FailedPreconditionf(op, format string, args ...any) *Error {
	return New(FailedPrecondition, op, fmt.Sprintf(format, args...))
}

func Abortedf(op, format string, args ...any) *Error {
	return New(Aborted, op, fmt.Sprintf(format, args...))
}

func DataLossf(op, format string, args ...any) *Error {
	return New(DataLoss, op, fmt.Sprintf(format, args...))
}

func Internalf(op, format string, args ...any) *Error {
	return New(Internal, op, fmt.Sprintf(format, args...))
}
