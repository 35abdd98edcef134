package inbound

import (
	"context"

	"github.com/shandysiswandi/gocle/internal/contact/usecase"
	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/response"
)

// Endpoint holds the transport independent part of the handlers. HTTP and
// Lambda adapters only decode the request and call into it.
type Endpoint struct {
	uc  uc
	res *form.Resolver
}

func NewEndpoint(uc uc, res *form.Resolver) *Endpoint {
	return &Endpoint{uc: uc, res: res}
}

func (h *Endpoint) submitMessage(ctx context.Context, req SubmitMessageRequest) (any, error) {
	msg, err := h.uc.SubmitMessage(ctx, usecase.SubmitMessageInput{
		SenderName:  req.SenderName,
		SenderEmail: req.SenderEmail,
		Subject:     req.Subject,
		Body:        req.Body,
	})
	if err != nil {
		return nil, err
	}

	return response.Created(toMessageResponse(*msg)), nil
}

func (h *Endpoint) listMessages(ctx context.Context, req ListMessagesRequest) (any, error) {
	page, err := h.uc.ListMessages(ctx, usecase.ListMessagesInput{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]MessageResponse, 0, len(page.Items))
	for _, msg := range page.Items {
		items = append(items, toMessageResponse(msg))
	}

	return response.OK(items, response.WithPagination(response.NewPagination(req.Page, req.PageSize, page.Total))), nil
}

func (h *Endpoint) getMessage(ctx context.Context, id string) (any, error) {
	msg, err := h.uc.GetMessage(ctx, usecase.GetMessageInput{ID: id})
	if err != nil {
		return nil, err
	}

	return toMessageResponse(*msg), nil
}
