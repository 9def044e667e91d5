package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrNetwork = "NETWORK"
	ErrParse   = "PARSE"
	ErrInput   = "INPUT"
	ErrExec    = "EXEC"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrNetwork code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrNetwork,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Network creates a NETWORK error for a failed backend read.
func Network(err error, message string) *Error {
	return WrapWithCode(err, ErrNetwork, message,
		"Check that the backend is reachable and backend.url is correct")
}

// Parse creates a PARSE error for a response body with an unexpected shape.
func Parse(err error, message string) *Error {
	return WrapWithCode(err, ErrParse, message,
		"The backend answered with an unexpected payload; check its version")
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var gdErr *Error
	if errors.As(err, &gdErr) {
		return gdErr.Code == code
	}
	return false
}

// IsNetwork reports whether err is a NETWORK error.
func IsNetwork(err error) bool {
	return IsCode(err, ErrNetwork)
}

// IsParse reports whether err is a PARSE error.
func IsParse(err error) bool {
	return IsCode(err, ErrParse)
}

// Summary returns the one-line message of err: the Message of a structured
// error, or err.Error() for anything else.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	if gdErr, ok := AsError(err); ok {
		return gdErr.Message
	}
	return err.Error()
}

// AsError finds the first structured Error in err's chain.
func AsError(err error) (*Error, bool) {
	var gdErr *Error
	if errors.As(err, &gdErr) {
		return gdErr, true
	}
	return nil, false
}
