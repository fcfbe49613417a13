package handlers

import (
	"fmt"

	"github.com/curvemint/curved/internal/core/sale"
)

// Error is the structured error returned by handlers. The server maps
// it onto the wire error envelope.
type Error struct {
	Code    string `json:"error"`
	Message string `json:"error_message,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// NewError creates a handler error with a formatted message.
func NewError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Common error codes.
const (
	CodeInvalidParams = "invalidParams"
	CodeUnknownMethod = "unknownMethod"
	CodeForbidden     = "forbidden"
	CodeNotFound      = "notFound"
	CodeNotSupported  = "notSupported"
	CodeInternal      = "internal"
)

// InvalidParams creates an invalidParams error.
func InvalidParams(format string, args ...interface{}) *Error {
	return NewError(CodeInvalidParams, format, args...)
}

// ResultError converts a non-success engine result into a handler
// error carrying the result's canonical code and message.
func ResultError(r sale.Result) *Error {
	return &Error{Code: r.String(), Message: r.Message()}
}
