// Package errors provides structured error types for incgraph.
//
// Errors carry a machine-readable [Code] so the CLI can decide whether a
// failure ends the run or only the file being processed:
//
//   - INVALID_*: malformed input or configuration
//   - NOT_FOUND_*: a required file is missing
//   - RENDER_*, COMPILE_*: a collaborator (Graphviz, a compiler) failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingManifest, "%s does not exist", path)
//	if errors.IsFatal(err) {
//	    // abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRender, origErr, "render %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors, recoverable per file
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidTrace  Code = "INVALID_TRACE"
	ErrCodeInvalidRule   Code = "INVALID_RULE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeKeyCollision  Code = "KEY_COLLISION"

	// Configuration errors, fatal for the run
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeMissingManifest Code = "NOT_FOUND_MANIFEST"
	ErrCodeFileNotFound    Code = "NOT_FOUND_FILE"

	// Collaborator errors, isolated to one artifact
	ErrCodeRender  Code = "RENDER_FAILED"
	ErrCodeCompile Code = "COMPILE_FAILED"
	ErrCodeTimeout Code = "TIMEOUT"
)

// fatalCodes abort a whole run rather than a single file.
var fatalCodes = map[Code]bool{
	ErrCodeInvalidConfig:   true,
	ErrCodeMissingManifest: true,
}

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

// IsFatal reports whether err should abort the whole run.
func IsFatal(err error) bool {
	return fatalCodes[GetCode(err)]
}

// UserMessage returns the error without code prefixes: the message of the
// outermost *Error followed by its causes. Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}
