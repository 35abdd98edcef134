package usecase

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/shandysiswandi/gocle/internal/contact/entity"
	"github.com/shandysiswandi/gocle/pkg/clock"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/uid"
)

type repoStore interface {
	SaveMessage(ctx context.Context, msg entity.Message) error
	GetMessage(ctx context.Context, id string) (*entity.Message, error)
	ListMessages(ctx context.Context, offset, limit int) (*entity.MessagePage, error)
}

type repoMail interface {
	SendMessageCopy(ctx context.Context, msg entity.Message) error
}

type repoNotify interface {
	PublishMessageReceived(ctx context.Context, msg entity.Message) error
}

type Usecase struct {
	repoStore  repoStore
	repoMail   repoMail
	repoNotify repoNotify
	uuid       uid.StringID
	clock      clock.Clocker
	ins        instrument.Instrumentation
}

type Dependency struct {
	RepoStore  repoStore
	RepoMail   repoMail
	RepoNotify repoNotify
	UUID       uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Usecase{
		repoStore:  dep.RepoStore,
		repoMail:   dep.RepoMail,
		repoNotify: dep.RepoNotify,
		uuid:       dep.UUID,
		clock:      dep.Clock,
		ins:        ins,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("contact.usecase").Start(ctx, name)
}
