package inbound

import (
	"context"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/internal/contact/usecase"
)

type uc interface {
	SubmitMessage(ctx context.Context, in usecase.SubmitMessageInput) (*entity.Message, error)
	ListMessages(ctx context.Context, in usecase.ListMessagesInput) (*entity.MessagePage, error)
	GetMessage(ctx context.Context, in usecase.GetMessageInput) (*entity.Message, error)
}
