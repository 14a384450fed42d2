package errors

import (
	"fmt"
)

// NotifyError represents a mediahook error with structured information.
type NotifyError struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Destination string    `json:"destination,omitempty"`

	// Cause is the original error, preserved for errors.Is/As chains.
	Cause error `json:"-"`
}

// Error implements the error interface. The cause, when present, is part of
// the message so log lines carry the root failure without unwrapping.
func (e *NotifyError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Destination != "" {
		msg = fmt.Sprintf("%s: %s (destination: %s)", e.Code, e.Message, e.Destination)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *NotifyError) Unwrap() error {
	return e.Cause
}

// Is matches two NotifyErrors by code.
func (e *NotifyError) Is(target error) bool {
	if targetErr, ok := target.(*NotifyError); ok {
		return e.Code == targetErr.Code
	}
	return false
}

// WithCause attaches the original error.
func (e *NotifyError) WithCause(cause error) *NotifyError {
	e.Cause = cause
	return e
}

// WithDestination records which destination kind produced the error.
func (e *NotifyError) WithDestination(kind string) *NotifyError {
	e.Destination = kind
	return e
}

// New creates a NotifyError with the given code and message.
func New(code ErrorCode, message string) *NotifyError {
	return &NotifyError{Code: code, Message: message}
}

// Newf creates a NotifyError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *NotifyError {
	return &NotifyError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the error code carried by err, or the empty code when err is
// not a NotifyError.
func CodeOf(err error) ErrorCode {
	if ne, ok := err.(*NotifyError); ok {
		return ne.Code
	}
	return ""
}
