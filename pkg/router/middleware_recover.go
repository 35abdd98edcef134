package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/shandysiswandi/gocle/pkg/stacktrace"
)

// middlewareRecoverer catches panics raised outside of the boundary, in
// middlewares or raw handlers, and answers with the internal error envelope.
//
//nolint:contextcheck // request context is used
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // this must compare directly
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", paths)
			} else {
				slog.ErrorContext(r.Context(), "panic on the server trace debug", "because", rvr, "stack", string(stack))
			}

			if r.Header.Get("Connection") == "Upgrade" {
				return
			}

			writeEnvelope(r.Context(), w, response.InternalError(response.WithErrorDetails(response.ErrorDetail{
				Message: response.MessageInternalError,
			})))
		}()

		next.ServeHTTP(w, r)
	})
}
