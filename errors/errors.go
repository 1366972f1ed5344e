// Package errors provides the structured error type shared by the game packages.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an Error.
type Code string

const (
	// CodeMalformedResponse means the collaborator reply held no usable JSON object.
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"
	// CodeTimeout means a time-bounded call lost its race against the timer.
	CodeTimeout Code = "TIMEOUT"
	// CodeCredential means the collaborator rejected the API key.
	CodeCredential Code = "CREDENTIAL"
	// CodeGenerationFailure means an image or audio generation produced nothing.
	CodeGenerationFailure Code = "GENERATION_FAILURE"
	// CodeFailedPrecondition means the operation is not allowed in the current state.
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	// CodeInvalidArgument means the caller supplied bad input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeNotFound means the requested entity does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInternal is everything else.
	CodeInternal Code = "INTERNAL"
)

// Error represents a structured error with code, message, and metadata
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithMeta adds metadata to the error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error, preserving its code if it's an Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Code:    existingErr.Code,
			Message: message,
			Cause:   err,
			Meta:    existingErr.Meta,
		}
	}

	return &Error{Code: CodeInternal, Message: message, Cause: err}
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// GetCode returns the code of the outermost *Error in err's chain, or CodeInternal.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// As is errors.As, re-exported so callers importing this package need not alias the standard one.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsCode reports whether any error in err's chain carries code.
func IsCode(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}
