package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a RenderError into the handful of failure modes the CLI
// distinguishes when choosing a process exit code.
type Kind string

const (
	// KindMalformedInput means the input JSON failed to parse or violated
	// the element schema (unknown tag, missing required field).
	KindMalformedInput Kind = "MALFORMED_INPUT"
	// KindMissingResource means a referenced font alias or image path
	// could not be resolved.
	KindMissingResource Kind = "MISSING_RESOURCE"
	// KindArithmetic means a layout computation produced a value the
	// engine's invariants forbid (negative dimension, NaN, infinite
	// break loop).
	KindArithmetic Kind = "ARITHMETIC_ERROR"
	// KindProtocol means an Element implementation violated the
	// three-pass protocol (e.g. reported an inconsistent height between
	// Measure and Draw).
	KindProtocol Kind = "PROTOCOL_VIOLATION"
	// KindInternal is the catch-all for anything else.
	KindInternal Kind = "INTERNAL_ERROR"
)

// RenderError is the standardized error type surfaced all the way out to
// the CLI's exit code and stderr message.
type RenderError struct {
	Kind    Kind
	Message string
	Details string
	Cause   error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ExitCode maps a RenderError's Kind to the process exit code the CLI
// returns, per the documented exit code table.
func (e *RenderError) ExitCode() int {
	switch e.Kind {
	case KindArithmetic, KindProtocol:
		return 2
	default:
		return 1
	}
}

func newRenderError(kind Kind, message string, details ...string) *RenderError {
	err := &RenderError{Kind: kind, Message: message}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithCause attaches the underlying error this RenderError wraps.
func (e *RenderError) WithCause(cause error) *RenderError {
	e.Cause = cause
	return e
}

// WithDetails adds details to the error.
func (e *RenderError) WithDetails(details string) *RenderError {
	e.Details = details
	return e
}

// Common error constructors.
func MalformedInput(message string, details ...string) *RenderError {
	return newRenderError(KindMalformedInput, message, details...)
}

func MissingResource(message string, details ...string) *RenderError {
	return newRenderError(KindMissingResource, message, details...)
}

func ArithmeticError(message string, details ...string) *RenderError {
	return newRenderError(KindArithmetic, message, details...)
}

func ProtocolViolation(message string, details ...string) *RenderError {
	return newRenderError(KindProtocol, message, details...)
}

func InternalError(message string, details ...string) *RenderError {
	return newRenderError(KindInternal, message, details...)
}

// IsMalformedInput reports whether err is (or wraps) a RenderError of kind
// KindMalformedInput.
func IsMalformedInput(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Kind == KindMalformedInput
}

// IsProtocolViolation reports whether err is (or wraps) a RenderError of
// kind KindProtocol.
func IsProtocolViolation(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Kind == KindProtocol
}

// AsRenderError extracts a *RenderError from err, wrapping it as an
// internal error if it isn't already one.
func AsRenderError(err error) *RenderError {
	var re *RenderError
	if errors.As(err, &re) {
		return re
	}
	return InternalError("an unexpected error occurred").WithCause(err)
}
