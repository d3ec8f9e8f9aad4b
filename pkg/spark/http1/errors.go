package http1

import (
	"errors"
	"fmt"
)

// Parser errors
var (
	// ErrInvalidRequestLine indicates the request line does not have exactly
	// three whitespace separated tokens.
	ErrInvalidRequestLine = errors.New("http1: invalid request line")

	// ErrInvalidPath indicates the request target does not start with '/'.
	ErrInvalidPath = errors.New("http1: invalid request path")

	// ErrInvalidProtocol indicates a protocol other than HTTP/1.0 or HTTP/1.1.
	ErrInvalidProtocol = errors.New("http1: invalid or unsupported protocol version")

	// ErrInvalidHeader indicates a header line without a colon.
	ErrInvalidHeader = errors.New("http1: invalid HTTP header")
)

// Validation errors
var (
	// ErrMissingContentType indicates Content-Length without Content-Type.
	ErrMissingContentType = errors.New("http1: Content-Length without Content-Type")

	// ErrUnsupportedContentType indicates a body in a format other than JSON or plain text.
	ErrUnsupportedContentType = errors.New("http1: unsupported Content-Type")
)

// Body errors
var (
	// ErrInvalidContentLength indicates a Content-Length that is not a non-negative integer.
	ErrInvalidContentLength = errors.New("http1: invalid Content-Length")

	// ErrBodyTooLarge indicates a Content-Length above the configured limit.
	ErrBodyTooLarge = errors.New("http1: body too large")

	// ErrBodyDecode indicates the body could not be read or decoded.
	ErrBodyDecode = errors.New("http1: body decode failed")
)

// Response errors
var (
	// ErrUnknownStatus indicates a status code missing from the status table.
	// It is a programming error, never caused by a client.
	ErrUnknownStatus = errors.New("http1: unknown status code")
)

// ProtocolError is a classified request failure carrying the status code of
// the error response. It wraps one of the package sentinels or the
// underlying cause so errors.Is keeps working.
type ProtocolError struct {
	// Code is the HTTP status code to respond with.
	Code int

	// Message is the text sent back to the client.
	Message string

	// Err is the underlying error (optional).
	Err error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// BadRequest returns a 400 ProtocolError.
func BadRequest(message string, err error) *ProtocolError {
	return &ProtocolError{Code: StatusBadRequest, Message: message, Err: err}
}

// NotFound returns a 404 ProtocolError.
func NotFound(message string) *ProtocolError {
	return &ProtocolError{Code: StatusNotFound, Message: message}
}

// Internal returns a 500 ProtocolError whose message embeds the cause.
func Internal(err error) *ProtocolError {
	return &ProtocolError{
		Code:    StatusInternalServerError,
		Message: InternalMessage(err),
		Err:     err,
	}
}

// InternalMessage is the diagnostic text sent with a 500 response.
func InternalMessage(err error) string {
	return "Internal Server Error: " + err.Error()
}

// AsProtocolError reports whether err is (or wraps) a ProtocolError.
func AsProtocolError(err error) (*ProtocolError, bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
