package router

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/goerror"
)

// MaxBodyBytes caps the request body read by Bind.
const MaxBodyBytes = 1 << 20

// DetailPayloadTooLarge is the error detail of bodies over MaxBodyBytes.
const DetailPayloadTooLarge = "Request body must not exceed 1 MiB"

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetParam reads a path parameter stored by httprouter.
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// GetParamInt64 reads an integer path parameter.
func (r *Request) GetParamInt64(key string) (int64, error) {
	value, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil {
		return 0, goerror.NewInvalidInput(key, "must be an integer")
	}
	return value, nil
}

// GetQuery returns the trimmed first value of a query parameter.
func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueries returns every value of a query parameter.
func (r *Request) GetQueries(key string) []string {
	return r.URL.Query()[key]
}

// Body reads the request body, up to MaxBodyBytes.
func (r *Request) Body() ([]byte, error) {
	if r == nil || r.Request == nil || r.Request.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Request.Body, MaxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, goerror.NewBadRequest(DetailPayloadTooLarge)
	}
	if err != nil {
		return nil, goerror.NewInternal("Request body could not be read", err)
	}
	return body, nil
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
	return form.ResolveQuery[T](res, req.URL.Query(), s)
}
