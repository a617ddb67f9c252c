// Package corerr implements the error taxonomy every plugin callback and
// driver in the core returns. Kinds are semantic, not Go types: callers
// compare against a Kind rather than a concrete struct.
package corerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind names one of the core's error categories.
type Kind int

const (
	// Okay is the zero value and never appears on a returned error.
	Okay Kind = iota
	NoMemory
	ReadError
	WriteError
	NoFile
	FileCreateError
	ParseError
	InvalidData
	InvalidResult
	PluginNotFound
	ParameterUnknown
	ParameterWrongType
	ParameterWrongValue
	LPError
	NotImplemented
	BranchingFailed
	Unbounded
)

func (k Kind) String() string {
	switch k {
	case Okay:
		return "okay"
	case NoMemory:
		return "no-memory"
	case ReadError:
		return "read-error"
	case WriteError:
		return "write-error"
	case NoFile:
		return "no-file"
	case FileCreateError:
		return "file-create-error"
	case ParseError:
		return "parse-error"
	case InvalidData:
		return "invalid-data"
	case InvalidResult:
		return "invalid-result"
	case PluginNotFound:
		return "plugin-not-found"
	case ParameterUnknown:
		return "parameter-unknown"
	case ParameterWrongType:
		return "parameter-wrong-type"
	case ParameterWrongValue:
		return "parameter-wrong-value"
	case LPError:
		return "LP-error"
	case NotImplemented:
		return "not-implemented"
	case BranchingFailed:
		return "branching-failed"
	case Unbounded:
		return "unbounded"
	default:
		return "unknown-error"
	}
}

// Error is the core's single error type. Op names the operation that failed;
// the user-visible rendering is always exactly one line, per the contract:
// no stack traces are part of the contract, though the wrapped cause is kept
// reachable via Cause for logging.
type Error struct {
	Kind  Kind
	Op    string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.cause)
}

// Cause returns the wrapped error, if any, so logging code can inspect the
// full chain; Error() renders the cause's message on the same single line.
func (e *Error) Cause() error { return e.cause }

// Unwrap lets errors.Is/As and errors.Cause walk into the wrapped error.
func (e *Error) Unwrap() error { return e.cause }

// New builds a new Error with no wrapped cause.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// Wrap builds a new Error wrapping cause. If cause is nil, Wrap returns a
// nil *Error, which is a non-nil value once stored in an error interface.
func Wrap(kind Kind, op string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, cause: errors.Wrap(cause, op)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	ce, ok := err.(*Error)
	if !ok {
		return false
	}
	return ce.Kind == kind
}

// KindOf extracts the Kind of err, or Okay if err is not a *Error.
func KindOf(err error) Kind {
	ce, ok := err.(*Error)
	if !ok {
		return Okay
	}
	return ce.Kind
}

// Fatal reports whether a Kind represents an invariant violation that must
// unwind the engine rather than be handled locally (§7 propagation policy).
func (k Kind) Fatal() bool {
	switch k {
	case BranchingFailed, InvalidData, InvalidResult, NoMemory:
		return true
	default:
		return false
	}
}
