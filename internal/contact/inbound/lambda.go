package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gocle/pkg/apigw"
)

// API Gateway resource paths of the proxy integrations.
const (
	resourceMessages = "/api/v1/contact/messages"
	resourceMessage  = "/api/v1/contact/messages/{id}"
)

func RegisterLambdaEndpoint(mux *apigw.Mux, end *Endpoint) {
	mux.Handle(http.MethodPost, resourceMessages, end.lambdaSubmitMessage)
	mux.Handle(http.MethodGet, resourceMessages, end.lambdaListMessages)
	mux.Handle(http.MethodGet, resourceMessage, end.lambdaGetMessage)
}

func (h *Endpoint) lambdaSubmitMessage(ctx context.Context, req *apigw.Request) (any, error) {
	in, err := apigw.Bind[SubmitMessageRequest](req, h.res, submitMessageSchema)
	if err != nil {
		return nil, err
	}

	return h.submitMessage(ctx, in)
}

func (h *Endpoint) lambdaListMessages(ctx context.Context, req *apigw.Request) (any, error) {
	in, err := apigw.BindQuery[ListMessagesRequest](req, h.res, listMessagesSchema)
	if err != nil {
		return nil, err
	}

	return h.listMessages(ctx, in)
}

func (h *Endpoint) lambdaGetMessage(ctx context.Context, req *apigw.Request) (any, error) {
	return h.getMessage(ctx, req.GetParam("id"))
}
