package apigw

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/shandysiswandi/gocle/pkg/response"
)

// Mux dispatches proxy events by HTTP method and API Gateway resource path,
// e.g. "GET /messages/{id}". It lets one function serve several integrations.
type Mux struct {
	routes map[string]LambdaFunc
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{routes: make(map[string]LambdaFunc)}
}

// Handle registers h for method and resource.
func (m *Mux) Handle(method, resource string, h Handler) {
	m.routes[routeKey(method, resource)] = Handle(h)
}

// Invoke dispatches event. Unknown routes answer with a 404 envelope.
func (m *Mux) Invoke(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if fn, ok := m.routes[routeKey(event.HTTPMethod, event.Resource)]; ok {
		return fn(ctx, event)
	}

	return Encode(ctx, response.Error(http.StatusNotFound, "Endpoint does not exist")), nil
}

func routeKey(method, resource string) string {
	return strings.ToUpper(method) + " " + resource
}
