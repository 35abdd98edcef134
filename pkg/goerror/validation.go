package goerror

import (
	"fmt"

	"github.com/shandysiswandi/gocle/pkg/response"
)

const (
	// SourceRequestBody marks schemas describing a JSON request body.
	SourceRequestBody = response.SchemaKeyRequestBody
	// SourceQueryParameters marks schemas describing query parameters.
	SourceQueryParameters = "queryParameters"
)

// ValidationError is raised when a payload fails schema validation.
type ValidationError struct {
	// Message is a developer facing summary, it is not rendered.
	Message string
	// Details holds one entry per violated field, in schema declaration order.
	Details []response.ErrorDetail
	// Schema is the violated schema, echoed back so clients can self-correct.
	Schema map[string]any
	// Source is the meta.schemas key the schema is rendered under.
	Source string
}

// NewValidation creates a validation error for a request body.
func NewValidation(details []response.ErrorDetail, schema map[string]any) *ValidationError {
	return &ValidationError{
		Message: "Form was not validated successfully",
		Details: details,
		Schema:  schema,
		Source:  SourceRequestBody,
	}
}

// NewInvalidInput creates a validation error from location/message pairs.
func NewInvalidInput(kv ...string) *ValidationError {
	details := make([]response.ErrorDetail, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		details = append(details, response.ErrorDetail{Location: kv[i], Message: kv[i+1]})
	}

	return NewValidation(details, nil)
}

// NewInvalidFormat creates a validation error with a single general detail.
func NewInvalidFormat(msg string) *ValidationError {
	return NewValidation([]response.ErrorDetail{{Message: msg}}, nil)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s: %d violation(s), first %q %s",
		e.Message, len(e.Details), e.Details[0].Location, e.Details[0].Message)
}

// Schemas returns the meta.schemas value for the error.
func (e *ValidationError) Schemas() map[string]any {
	if e.Schema == nil {
		return nil
	}

	source := e.Source
	if source == "" {
		source = SourceRequestBody
	}

	return map[string]any{source: e.Schema}
}
