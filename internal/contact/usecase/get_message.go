package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/goerror"
	"github.com/shandysiswandi/gocle/pkg/uid"
)

type GetMessageInput struct {
	ID string
}

func (s *Usecase) GetMessage(ctx context.Context, in GetMessageInput) (*entity.Message, error) {
	ctx, span := s.startSpan(ctx, "GetMessage")
	defer span.End()

	// ids are uuids, anything else cannot be stored
	if !uid.Valid(in.ID) {
		return nil, goerror.NewNotFound(in.ID)
	}

	msg, err := s.repoStore.GetMessage(ctx, in.ID)
	if errors.Is(err, entity.ErrMessageNotFound) {
		return nil, goerror.NewNotFound(in.ID)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get message", "message_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return msg, nil
}
