package inbound

import (
	"github.com/shandysiswandi/gocle/pkg/router"
)

const (
	pathMessages = "/api/v1/contact/messages"
	pathMessage  = "/api/v1/contact/messages/:id"
)

func RegisterHTTPEndpoint(r *router.Router, end *Endpoint) {
	r.POST(pathMessages, end.SubmitMessage)
	r.GET(pathMessages, end.ListMessages)
	r.GET(pathMessage, end.GetMessage)
}

// SubmitMessage stores a contact message and notifies the owner.
func (h *Endpoint) SubmitMessage(r *router.Request) (any, error) {
	req, err := router.Bind[SubmitMessageRequest](r, h.res, submitMessageSchema)
	if err != nil {
		return nil, err
	}

	return h.submitMessage(r.Context(), req)
}

// ListMessages returns a page of messages, newest first.
func (h *Endpoint) ListMessages(r *router.Request) (any, error) {
	req, err := router.BindQuery[ListMessagesRequest](r, h.res, listMessagesSchema)
	if err != nil {
		return nil, err
	}

	return h.listMessages(r.Context(), req)
}

// GetMessage returns a single message.
func (h *Endpoint) GetMessage(r *router.Request) (any, error) {
	return h.getMessage(r.Context(), r.GetParam("id"))
}
