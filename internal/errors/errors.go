// Package errors provides coded error types shared by the store, services,
// CLI and HTTP API.
//
// Error codes let callers branch on the category of a failure without
// matching message text:
//   - INVALID_INPUT: validation failures (bad dates, self-dependencies, unknown types)
//   - NOT_FOUND: a referenced project, activity or dependency does not exist
//   - CYCLE: the dependency graph cannot be ordered
//   - INTERNAL: anything unexpected
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "unknown dependency type %q", t)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // reject the request
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeCycle        Code = "CYCLE"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Coder is implemented by error types that carry their own code without
// being an *Error (for example scheduler.CycleError).
type Coder interface {
	ErrorCode() Code
}

// Error is a structured error with a code and optional cause.
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

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorCode implements Coder.
func (e *Error) ErrorCode() Code {
	return e.Code
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NotFound is shorthand for a NOT_FOUND error about the named entity.
func NotFound(entity, id string) *Error {
	return New(ErrCodeNotFound, "%s not found: %s", entity, id)
}

// Is reports whether err has the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the first error code found in the chain.
// Returns empty string if nothing in the chain carries a code.
func GetCode(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
