// Package errors carries the failure codes shared by the router, the CLI and
// the HTTP API.
//
// Every failure that reaches a caller is an [*Error] whose [Code] names the
// stage that rejected the work: parsing the circuit, building the coupling
// graph, checking a layout or routing. A code's [Class] groups it by who has
// to act on it, which is what the server turns into an HTTP status:
//
//	err := errors.New(errors.ErrCodeUnreachable, "no path between physical qubits %d and %d", p, q)
//	errors.GetCode(err).Class() // ClassRouting
//
// The outermost coded error wins; wrapping an INVALID_LAYOUT error as
// UNREACHABLE reports UNREACHABLE.
package errors

import (
	"errors"
	"fmt"
)

// Code is the machine-readable name of a failure.
type Code string

const (
	// Rejected input.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidCircuit  Code = "INVALID_CIRCUIT"
	ErrCodeInvalidCoupling Code = "INVALID_COUPLING"
	ErrCodeInvalidLayout   Code = "INVALID_LAYOUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Well-formed input the device cannot run.
	ErrCodeUnreachable        Code = "UNREACHABLE"
	ErrCodeInsufficientQubits Code = "INSUFFICIENT_QUBITS"
	ErrCodeUnsupported        Code = "UNSUPPORTED"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Class groups codes by who has to act on a failure.
type Class int

const (
	// ClassInternal is a bug or an environment failure; also the class of
	// unknown codes.
	ClassInternal Class = iota
	// ClassInput means the request itself is malformed.
	ClassInput
	// ClassRouting means the circuit and device are valid but do not fit.
	ClassRouting
	// ClassNotFound means a named file or resource is missing.
	ClassNotFound
)

// Class returns the class of c.
func (c Code) Class() Class {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidCircuit, ErrCodeInvalidCoupling,
		ErrCodeInvalidLayout, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return ClassInput
	case ErrCodeUnreachable, ErrCodeInsufficientQubits, ErrCodeUnsupported:
		return ClassRouting
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ClassNotFound
	}
	return ClassInternal
}

// Error is a coded failure with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause, kept reachable through errors.Is and
// errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without the
// code prefix, or err's text if it carries no code.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
