package apigw

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/goerror"
)

var errNilHandler = errors.New("apigw: nil handler")

// Request wraps a proxy event with helpers for inbound handlers.
type Request struct {
	Event events.APIGatewayProxyRequest
}

// NewRequest wraps event.
func NewRequest(event events.APIGatewayProxyRequest) *Request {
	return &Request{Event: event}
}

// Body returns the raw body, decoding it when API Gateway marked it base64.
// A body that is not valid base64 is reported as a validation failure.
func (r *Request) Body() ([]byte, error) {
	if !r.Event.IsBase64Encoded {
		return []byte(r.Event.Body), nil
	}

	body, err := base64.StdEncoding.DecodeString(r.Event.Body)
	if err != nil {
		return nil, goerror.NewInvalidFormat(form.DetailInvalidJSON)
	}
	return body, nil
}

// Query merges the single and multi value query string maps.
func (r *Request) Query() url.Values {
	values := make(url.Values, len(r.Event.MultiValueQueryStringParameters))
	for k, vs := range r.Event.MultiValueQueryStringParameters {
		values[k] = append([]string{}, vs...)
	}
	for k, v := range r.Event.QueryStringParameters {
		if _, ok := values[k]; !ok {
			values[k] = []string{v}
		}
	}
	return values
}

// GetQuery returns the trimmed first value of a query parameter.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.Query().Get(key))
}

// GetParam returns a path parameter.
func (r *Request) GetParam(key string) string {
	return r.Event.PathParameters[key]
}

// Header returns a header value. API Gateway keeps the client's casing, so
// the lookup ignores case.
func (r *Request) Header(key string) string {
	if v, ok := r.Event.Headers[key]; ok {
		return v
	}
	for k, v := range r.Event.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	for k, vs := range r.Event.MultiValueHeaders {
		if strings.EqualFold(k, key) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// CorrelationID returns the id the client sent, or the API Gateway request id.
func (r *Request) CorrelationID() string {
	for _, key := range []string{headerCorrelationID, "X-Request-ID"} {
		if v := strings.TrimSpace(r.Header(key)); v != "" && !strings.ContainsAny(v, "\r\n") {
			return v
		}
	}
	return r.Event.RequestContext.RequestID
}

// Bind resolves the JSON body of req against s.
func Bind[T any](req *Request, res *form.Resolver, s *form.Schema) (T, error) {
	body, err := req.Body()
	if err != nil {
		var zero T
		return zero, err
	}
	return form.Resolve[T](res, body, s)
}

// BindQuery resolves the query string of req against s.
func BindQuery[T any](req *Request, res *form.Resolver, s *form.Schema) (T, error) {
	return form.ResolveQuery[T](res, req.Query(), s)
}
