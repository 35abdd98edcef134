package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/goerror"
)

type SubmitMessageInput struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
}

// SubmitMessage stores the message and then tells the owner about it. The
// email copy and the notification are best effort: once stored, the
// submission has succeeded.
func (s *Usecase) SubmitMessage(ctx context.Context, in SubmitMessageInput) (*entity.Message, error) {
	ctx, span := s.startSpan(ctx, "SubmitMessage")
	defer span.End()

	msg := entity.Message{
		ID:          s.uuid.Generate(),
		SenderName:  strings.TrimSpace(in.SenderName),
		SenderEmail: strings.ToLower(strings.TrimSpace(in.SenderEmail)),
		Subject:     strings.TrimSpace(in.Subject),
		Body:        in.Body,
		CreatedAt:   s.clock.Now(),
	}
	if msg.Subject == "" {
		msg.Subject = "Message from " + msg.SenderName
	}

	if err := s.repoStore.SaveMessage(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to repo save message", "message_id", msg.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMail.SendMessageCopy(ctx, msg); err != nil {
		slog.WarnContext(ctx, "failed to send message copy", "message_id", msg.ID, "error", err)
	}

	if err := s.repoNotify.PublishMessageReceived(ctx, msg); err != nil {
		slog.WarnContext(ctx, "failed to publish message received", "message_id", msg.ID, "error", err)
	}

	return &msg, nil
}
