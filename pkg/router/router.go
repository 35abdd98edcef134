// Package router serves boundary handlers over HTTP.
//
// Every endpoint runs its handler through the error boundary and writes the
// resulting envelope, so a service behaves the same behind a local HTTP server
// and behind API Gateway (through the Lambda HTTP adapter).
package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/shandysiswandi/gocle/pkg/boundary"
	"github.com/shandysiswandi/gocle/pkg/config"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/shandysiswandi/gocle/pkg/uid"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	messageEndpointNotFound = "Endpoint does not exist"
	messageMethodNotAllowed = "Method is not allowed for this endpoint"
)

// Handler is the application-style handler used by this router.
//
// The returned value becomes the data of an ok envelope unless it already is
// an envelope. Errors are rendered by the boundary.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides maintenance endpoints and log mask fields.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// ServiceName is echoed by the index endpoint.
	ServiceName string
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds the router with the standard middleware chain.
func NewRouter(cfg Config) *Router {
	if cfg.Instrument == nil {
		cfg.Instrument = instrument.NewNoop()
	}
	if cfg.UUID == nil {
		cfg.UUID = uid.NewUUID()
	}

	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(r.Context(), w, response.Error(http.StatusNotFound, messageEndpointNotFound))
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(r.Context(), w, response.Error(http.StatusMethodNotAllowed, messageMethodNotAllowed))
		}),
	}

	ro := &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, cfg.Instrument),
			middlewareMaintenance(cfg.Config),
		},
	}

	name := cfg.ServiceName
	ro.GET("/", func(*Request) (any, error) {
		return map[string]string{"service": name}, nil
	})
	ro.GET("/health", func(*Request) (any, error) {
		return map[string]string{"status": "ok"}, nil
	})

	return ro
}

// Use appends middlewares applied to endpoints registered afterwards.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// GETRaw registers a GET endpoint that writes directly to the response writer.
func (r *Router) GETRaw(path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(http.MethodGet, path, Chain(h, r.chain(mws)...))
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// PUT registers a PUT endpoint using the application Handler signature.
func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

// PATCH registers a PATCH endpoint using the application Handler signature.
func (r *Router) PATCH(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPatch, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

func (r *Router) chain(extra []Middleware) []Middleware {
	mws := make([]Middleware, 0, len(r.mws)+len(extra))
	mws = append(mws, r.mws...)
	return append(mws, extra...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		var failure error
		env := boundary.Handle(re.Context(), func(ctx context.Context) (any, error) {
			resp, err := h(&Request{Request: re.WithContext(ctx)})
			failure = err
			return resp, err
		})

		if failure != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(failure)
			}
		}

		writeEnvelope(re.Context(), w, env)
	}), r.chain(mws)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeEnvelope(ctx context.Context, w http.ResponseWriter, env *response.Envelope) {
	body, err := response.Encode(env)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode response envelope", "error", err)
		env = response.InternalError(response.WithErrorDetails(response.ErrorDetail{
			Message: response.MessageInternalError,
		}))
		// the fallback envelope only holds plain values
		body, _ = response.Encode(env) //nolint:errcheck // cannot fail
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(env.Status())
	if _, err := w.Write(body); err != nil {
		slog.ErrorContext(ctx, "failed to write response body", "error", err)
	}
}
