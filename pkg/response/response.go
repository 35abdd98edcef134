// Package response defines the canonical envelope every endpoint answers with
// and the builders used to produce it.
//
// The wire shape is:
//
//	{"success": bool, "meta": {"message", "errorDetails", "schemas", "pagination"?}, "data": any}
//
// Envelopes are built once per request and are not mutated afterwards. Use
// Encode to serialize an envelope, it applies the camelCase key transform to
// every nested mapping.
package response

// ErrorDetail is a single field or general violation.
type ErrorDetail struct {
	// Location is the dotted path of the offending field, empty for non field errors.
	Location string `json:"location"`
	// Message describes the violation.
	Message string `json:"message"`
}

// Meta carries introspected information about a response.
type Meta struct {
	Message      string             `json:"message"`
	ErrorDetails []ErrorDetail      `json:"error_details"`
	Schemas      map[string]any     `json:"schemas"`
	Pagination   *PaginationDetails `json:"pagination,omitempty"`
}

// Envelope is the response body returned by every endpoint.
type Envelope struct {
	// StatusCode is the transport status, it is not part of the body.
	StatusCode int  `json:"-"`
	Success    bool `json:"success"`
	Meta       Meta `json:"meta"`
	Data       any  `json:"data"`
}

// Status returns the transport status code for the envelope.
func (e *Envelope) Status() int {
	return e.StatusCode
}
