package response

import (
	"fmt"
	"net/http"
)

const (
	// MessageOK is the meta message of successful responses.
	MessageOK = "OK"
	// MessageBadRequest is the meta message of client error responses.
	MessageBadRequest = "Given inputs were incorrect. Consult the below details to address the issue."
	// MessageInternalError is the meta message of server error responses.
	MessageInternalError = "Request failed due to internal server error"
)

// SchemaKeyRequestBody is the meta.schemas key used for request body schemas.
const SchemaKeyRequestBody = "requestBody"

// Option customizes the variable parts of an envelope.
type Option func(*Envelope)

// WithMessage overrides the default meta message.
func WithMessage(msg string) Option {
	return func(e *Envelope) {
		if msg != "" {
			e.Meta.Message = msg
		}
	}
}

// WithErrorDetails sets meta.errorDetails.
func WithErrorDetails(details ...ErrorDetail) Option {
	return func(e *Envelope) {
		e.Meta.ErrorDetails = append([]ErrorDetail{}, details...)
	}
}

// WithSchemas sets meta.schemas.
func WithSchemas(schemas map[string]any) Option {
	return func(e *Envelope) {
		e.Meta.Schemas = make(map[string]any, len(schemas))
		for k, v := range schemas {
			e.Meta.Schemas[k] = v
		}
	}
}

// WithPagination sets meta.pagination.
func WithPagination(p PaginationDetails) Option {
	return func(e *Envelope) {
		e.Meta.Pagination = &p
	}
}

// New builds an envelope for the given status code. Success is derived from
// the status code: anything below 400 is a success.
func New(status int, meta Meta, data any) *Envelope {
	if meta.ErrorDetails == nil {
		meta.ErrorDetails = []ErrorDetail{}
	}
	if meta.Schemas == nil {
		meta.Schemas = map[string]any{}
	}

	return &Envelope{
		StatusCode: status,
		Success:    status < http.StatusBadRequest,
		Meta:       meta,
		Data:       data,
	}
}

func build(status int, msg string, data any, opts []Option) *Envelope {
	env := New(status, Meta{Message: msg}, data)
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// OK builds a 200 envelope.
func OK(data any, opts ...Option) *Envelope {
	return build(http.StatusOK, MessageOK, data, opts)
}

// Created builds a 201 envelope.
func Created(data any, opts ...Option) *Envelope {
	return build(http.StatusCreated, MessageOK, data, opts)
}

// Accepted builds a 202 envelope.
func Accepted(data any, opts ...Option) *Envelope {
	return build(http.StatusAccepted, MessageOK, data, opts)
}

// BadRequest builds a 400 envelope. Data is always null.
func BadRequest(details []ErrorDetail, schemas map[string]any, opts ...Option) *Envelope {
	opts = append([]Option{WithErrorDetails(details...), WithSchemas(schemas)}, opts...)
	return build(http.StatusBadRequest, MessageBadRequest, nil, opts)
}

// NotFound builds a 404 envelope naming the identifier that could not be found.
func NotFound(identifier any, opts ...Option) *Envelope {
	return build(http.StatusNotFound, fmt.Sprintf("Resource with id %v does not exist", identifier), nil, opts)
}

// InternalError builds a 500 envelope. Data is always null.
func InternalError(opts ...Option) *Envelope {
	return build(http.StatusInternalServerError, MessageInternalError, nil, opts)
}

// Error builds a failure envelope for an arbitrary error status with a single
// general error detail.
func Error(status int, msg string, opts ...Option) *Envelope {
	defaultMsg := http.StatusText(status)
	switch {
	case status == http.StatusBadRequest:
		defaultMsg = MessageBadRequest
	case status >= http.StatusInternalServerError:
		defaultMsg = MessageInternalError
	}

	opts = append([]Option{WithErrorDetails(ErrorDetail{Message: msg})}, opts...)
	return build(status, defaultMsg, nil, opts)
}
