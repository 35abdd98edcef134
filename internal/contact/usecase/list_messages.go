package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/goerror"
)

// maxPage keeps (page-1)*page_size far from integer overflow.
const maxPage = 100_000

type ListMessagesInput struct {
	Page     int
	PageSize int
}

func (s *Usecase) ListMessages(ctx context.Context, in ListMessagesInput) (*entity.MessagePage, error) {
	ctx, span := s.startSpan(ctx, "ListMessages")
	defer span.End()

	if in.Page < 1 || in.PageSize < 1 {
		return nil, goerror.NewBadRequest("Page and page size must be positive")
	}
	if in.Page > maxPage {
		return nil, goerror.NewBadRequest("Page is out of range")
	}

	page, err := s.repoStore.ListMessages(ctx, (in.Page-1)*in.PageSize, in.PageSize)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list messages", "page", in.Page, "page_size", in.PageSize, "error", err)
		return nil, goerror.NewServer(err)
	}

	return page, nil
}
