package goerror

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is a stable identifier used for mapping errors to HTTP status codes.
type Code int

const (
	// CodeInternal represents an internal or unspecified error.
	CodeInternal Code = iota
	// CodeBadRequest indicates the request cannot be served as sent.
	CodeBadRequest
	// CodeNotFound indicates a missing resource.
	CodeNotFound
	// CodeConflict indicates a conflict (e.g., duplicate).
	CodeConflict
	// CodeUnauthorized indicates authentication failure.
	CodeUnauthorized
	// CodeForbidden indicates authorization failure.
	CodeForbidden
	// CodeTooManyRequest indicates rate limiting.
	CodeTooManyRequest
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeBadRequest:
		return "ERROR_CODE_BAD_REQUEST"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeConflict:
		return "ERROR_CODE_CONFLICT"
	case CodeUnauthorized:
		return "ERROR_CODE_UNAUTHORIZED"
	case CodeForbidden:
		return "ERROR_CODE_FORBIDDEN"
	case CodeTooManyRequest:
		return "ERROR_CODE_TOO_MANY_REQUESTS"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is a domain level failure raised by handler logic.
//
// The message is user facing and is rendered as is, so it must never contain
// internal details. The wrapped error is for logs only.
type Error struct {
	err        error
	msg        string
	code       Code
	identifier string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}

	if e.msg != "" {
		return e.msg
	}

	return "Internal error"
}

// String returns a verbose representation of the error for debugging/logging.
func (e *Error) String() string {
	return fmt.Sprintf("Code: %s, Message: %s, Underlying Error: %v", e.code.String(), e.msg, e.err)
}

// Msg returns the user-facing error message.
func (e *Error) Msg() string {
	return e.msg
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Identifier returns the identifier of the missing resource for not found errors.
func (e *Error) Identifier() string {
	return e.identifier
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func newError(err error, msg string, code Code) *Error {
	if err != nil {
		err = errors.WithStackDepth(err, 2)
	}
	return &Error{err: err, msg: msg, code: code}
}

// NewServer creates an internal error wrapping err with a generic message.
func NewServer(err error) error {
	return newError(err, "Internal server error", CodeInternal)
}

// NewInternal creates an internal error with a user-facing message and an
// optional cause.
func NewInternal(msg string, err error) error {
	return newError(err, msg, CodeInternal)
}

// NewBadRequest creates a client error with the specified message.
func NewBadRequest(msg string) error {
	return newError(nil, msg, CodeBadRequest)
}

// NewBusiness creates an error with the specified message and code.
func NewBusiness(msg string, code Code) error {
	return newError(nil, msg, code)
}

// NewNotFound creates an error for a resource that could not be found with
// the given identifier.
func NewNotFound(identifier any) error {
	id := fmt.Sprint(identifier)
	e := newError(nil, fmt.Sprintf("Resource with id %s could not be found", id), CodeNotFound)
	e.identifier = id
	return e
}
