// Package apigw runs boundary handlers as API Gateway proxy integrations.
//
// A Handler receives the decoded proxy event and returns a value or an error;
// Handle runs it through the error boundary and encodes the envelope into an
// APIGatewayProxyResponse. The Lambda invocation itself never fails, so API
// Gateway always relays the envelope instead of a generic 502.
package apigw

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/shandysiswandi/gocle/pkg/boundary"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/response"
)

const (
	headerContentType   = "Content-Type"
	headerCorrelationID = "X-Correlation-ID"
	contentTypeJSON     = "application/json; charset=utf-8"
)

// Handler handles a single proxy event.
type Handler func(ctx context.Context, req *Request) (any, error)

// LambdaFunc is the signature accepted by lambda.Start for proxy integrations.
type LambdaFunc func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handle adapts h into a Lambda function.
func Handle(h Handler) LambdaFunc {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req := NewRequest(event)

		cid := req.CorrelationID()
		if cid != "" {
			ctx = instrument.SetCorrelationID(ctx, cid)
		}

		env := boundary.Handle(ctx, func(ctx context.Context) (any, error) {
			if h == nil {
				return nil, errNilHandler
			}
			return h(ctx, req)
		})

		resp := Encode(ctx, env)
		if cid != "" {
			resp.Headers[headerCorrelationID] = cid
		}
		return resp, nil
	}
}

// Encode converts env into a proxy response. Encoding failures are logged and
// answered with the internal error envelope.
func Encode(ctx context.Context, env *response.Envelope) events.APIGatewayProxyResponse {
	body, err := response.Encode(env)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode response envelope", "error", err)

		env = response.InternalError(response.WithErrorDetails(response.ErrorDetail{
			Message: response.MessageInternalError,
		}))
		body, _ = response.Encode(env) //nolint:errcheck // plain values only
	}

	status := http.StatusInternalServerError
	if env != nil {
		status = env.Status()
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{headerContentType: contentTypeJSON},
		Body:       string(body),
	}
}
