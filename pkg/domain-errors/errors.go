// Package domainerrors defines the error taxonomy shared by services,
// stores, and the HTTP layer. Services wrap infrastructure errors with a
// Code; handlers translate codes to HTTP statuses without inspecting
// error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for propagation policy and HTTP translation.
type Code string

const (
	// CodePrecondition marks a blocked operation: required state (patient
	// selection, operator, non-empty basket) is missing. Nothing has been
	// mutated when this is returned.
	CodePrecondition Code = "precondition_failed"

	// CodeValidation marks malformed or incomplete input, e.g. basket lines
	// missing expiry dates. Nothing has been mutated when this is returned.
	CodeValidation Code = "validation_failed"

	// CodeRenderFailed marks an unavailable or failed print surface. The
	// pipeline aborts before any audit write when this is returned.
	CodeRenderFailed Code = "render_failed"

	// CodeAuditWrite marks a per-line remote audit failure. Always recovered
	// by the local sink and never surfaced as a pipeline failure.
	CodeAuditWrite Code = "audit_write_failed"

	// CodeStore marks a backing-store failure (catalog, patients, basket).
	CodeStore Code = "store_failed"

	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"
)

// Error carries a code, an operator-facing message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is makes errors.Is match two domain errors with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New builds a domain error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err
// returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.cause
	}
	return false
}

// CodeOf returns the outermost code, or CodeInternal for unclassified errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
