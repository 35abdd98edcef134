// Package boundary turns handler results into response envelopes.
//
// Every handler is run through Handle (or a function built by Wrap). Success
// values become an ok envelope, pre-built envelopes pass through untouched and
// errors are rendered by class:
//
//   - *goerror.ValidationError: 400 with one detail per field and the schema.
//   - *goerror.Error: the status of its code with its message as the detail.
//   - anything else, including panics: logged with its stack, then a generic
//     500 that never contains the underlying text.
//
// The boundary keeps no state and is safe for concurrent use.
package boundary

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/response"
	"github.com/shandysiswandi/gocle/pkg/stacktrace"
)

// Func is a request scoped handler body.
type Func func(ctx context.Context) (any, error)

// Handle runs fn and returns exactly one envelope describing its outcome.
func Handle(ctx context.Context, fn Func) (env *response.Envelope) {
	defer func() {
		if rvr := recover(); rvr != nil {
			env = renderPanic(ctx, rvr)
		}
	}()

	if fn == nil {
		return Render(ctx, goerror.NewUnclassified(fmt.Errorf("boundary: nil handler")))
	}

	value, err := fn(ctx)
	if err != nil {
		return Render(ctx, err)
	}

	return Success(value)
}

// Wrap adapts a handler taking a request value into one that always returns
// an envelope.
func Wrap[Req any](fn func(ctx context.Context, req Req) (any, error)) func(ctx context.Context, req Req) *response.Envelope {
	return func(ctx context.Context, req Req) *response.Envelope {
		return Handle(ctx, func(ctx context.Context) (any, error) {
			return fn(ctx, req)
		})
	}
}

// Success wraps value in an ok envelope. Envelopes are returned as they are so
// handlers can pick another success status, e.g. response.Created.
func Success(value any) *response.Envelope {
	switch v := value.(type) {
	case *response.Envelope:
		if v != nil {
			return v
		}
		return response.OK(nil)
	case response.Envelope:
		return &v
	default:
		return response.OK(value)
	}
}

// Render maps err to its envelope. A nil error renders an empty ok envelope.
func Render(ctx context.Context, err error) *response.Envelope {
	switch goerror.Classify(err) {
	case goerror.ClassNone:
		return response.OK(nil)

	case goerror.ClassValidation:
		verr, _ := goerror.AsValidation(err)
		recordSpan(ctx, err, http.StatusBadRequest)
		slog.DebugContext(ctx, "request failed validation", "violations", len(verr.Details), "error", err)
		return response.BadRequest(verr.Details, verr.Schemas())

	case goerror.ClassService:
		serr, _ := goerror.AsService(err)
		status := serr.StatusCode()
		recordSpan(ctx, err, status)
		if status >= http.StatusInternalServerError {
			logFailure(ctx, "request failed with service error", err)
		}
		if serr.Code() == goerror.CodeNotFound {
			return response.NotFound(serr.Identifier(), response.WithErrorDetails(response.ErrorDetail{
				Message: serr.Msg(),
			}))
		}
		return response.Error(status, serr.Msg())

	default:
		recordSpan(ctx, err, http.StatusInternalServerError)
		logFailure(ctx, "request failed with unclassified error", err)
		return response.InternalError(response.WithErrorDetails(response.ErrorDetail{
			Message: response.MessageInternalError,
		}))
	}
}

func renderPanic(ctx context.Context, rvr any) *response.Envelope {
	err, ok := rvr.(error)
	if !ok {
		err = fmt.Errorf("%v", rvr)
	}
	err = fmt.Errorf("panic: %w", err)

	recordSpan(ctx, err, http.StatusInternalServerError)

	attrs := []any{"error", err}
	if paths := stacktrace.InternalPaths(debug.Stack()); len(paths) > 0 {
		attrs = append(attrs, "stack", paths)
	} else {
		attrs = append(attrs, "stack", string(debug.Stack()))
	}
	slog.ErrorContext(ctx, "panic while handling request", attrs...)

	return response.InternalError(response.WithErrorDetails(response.ErrorDetail{
		Message: response.MessageInternalError,
	}))
}

// logFailure logs err with the module frames of the stacks recorded in its
// chain. Nothing logged here reaches the client.
func logFailure(ctx context.Context, msg string, err error) {
	attrs := []any{"error", err.Error(), "class", goerror.Classify(err).String()}
	if frames := stacktrace.Frames([]byte(fmt.Sprintf("%+v", err))); len(frames) > 0 {
		attrs = append(attrs, "stack", frames)
	}

	slog.ErrorContext(ctx, msg, attrs...)
}

func recordSpan(ctx context.Context, err error, status int) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(
		attribute.String("error.class", goerror.Classify(err).String()),
		attribute.Int("http.response.status_code", status),
	)
	span.RecordError(err)
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
