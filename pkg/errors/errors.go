// Package errors provides structured error types for cargograph.
//
// Only a handful of conditions are fatal for a run; everything else the
// discovery pipeline encounters (unreadable directories, malformed
// manifests, missing fields) is dropped silently. The fatal conditions are
// represented as [*Error] values carrying a machine-readable [Code], which
// the command entry point maps to a process exit status via [ExitCode].
//
// # Error Codes
//
//   - ROOT_NOT_FOUND: the root path given on the command line does not exist
//   - NO_MANIFESTS: discovery found nothing that qualifies as a package node
//   - INVALID_OUTPUT: the serialized graph is not valid text
//   - INVALID_INPUT: a saved JSON graph given to --from-json cannot be read
//   - INVALID_CONFIG / INVALID_FORMAT: usage errors
//   - RENDER_FAILED: Graphviz could not lay out the graph
//   - INTERNAL_ERROR: the environment failed underneath us, e.g. no file watcher
//
// # Usage
//
//	err := errors.New(errors.ErrCodeRootNotFound, "root path not found: %s", root)
//	if errors.Is(err, errors.ErrCodeRootNotFound) {
//	    // Handle missing root
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailed, origErr, "render %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Discovery errors
	ErrCodeRootNotFound Code = "ROOT_NOT_FOUND"
	ErrCodeNoManifests  Code = "NO_MANIFESTS"

	// Output errors
	ErrCodeInvalidOutput Code = "INVALID_OUTPUT"
	ErrCodeRenderFailed  Code = "RENDER_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Process exit statuses. Codes without a dedicated status exit with
// ExitFailure.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitRootNotFound  = 2
	ExitNoManifests   = 3
	ExitInvalidOutput = 4
	ExitInterrupted   = 130
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitCode maps an error to the process exit status.
// A nil error maps to ExitOK.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case ErrCodeRootNotFound:
		return ExitRootNotFound
	case ErrCodeNoManifests:
		return ExitNoManifests
	case ErrCodeInvalidOutput:
		return ExitInvalidOutput
	default:
		return ExitFailure
	}
}
