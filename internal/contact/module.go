package contact

import (
	"fmt"

	"github.com/shandysiswandi/gocle/internal/contact/inbound"
	"github.com/shandysiswandi/gocle/internal/contact/outbound/email"
	"github.com/shandysiswandi/gocle/internal/contact/outbound/notify"
	"github.com/shandysiswandi/gocle/internal/contact/outbound/store"
	"github.com/shandysiswandi/gocle/internal/contact/usecase"
	"github.com/shandysiswandi/gocle/pkg/apigw"
	"github.com/shandysiswandi/gocle/pkg/clock"
	"github.com/shandysiswandi/gocle/pkg/config"
	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/mail"
	pkgnotify "github.com/shandysiswandi/gocle/pkg/notify"
	"github.com/shandysiswandi/gocle/pkg/router"
	"github.com/shandysiswandi/gocle/pkg/storage"
	"github.com/shandysiswandi/gocle/pkg/uid"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

type Dependency struct {
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator
	Resolver   *form.Resolver      `validate:"required"`
	Storage    storage.Storage     `validate:"required"`
	Mail       mail.Mail           `validate:"required"`
	Publisher  pkgnotify.Publisher `validate:"required"`

	// At least one transport must be given.
	Router *router.Router `validate:"required_without=Mux"`
	Mux    *apigw.Mux     `validate:"required_without=Router"`
}

func New(dep Dependency) error {
	if dep.Validator != nil {
		if err := dep.Validator.Validate(dep); err != nil {
			return fmt.Errorf("contact: invalid dependency: %w", err)
		}
	}

	for _, s := range inbound.Schemas() {
		if err := dep.Resolver.Check(s); err != nil {
			return fmt.Errorf("contact: %w", err)
		}
	}

	uc := usecase.New(usecase.Dependency{
		RepoStore:  store.New(dep.Storage, dep.Instrument),
		RepoMail:   email.New(dep.Mail, dep.Config.GetString("modules.contact.owner_email"), dep.Instrument),
		RepoNotify: notify.New(dep.Publisher, dep.Config.GetString("modules.contact.topic_arn"), dep.Instrument),
		UUID:       dep.UUID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	end := inbound.NewEndpoint(uc, dep.Resolver)
	if dep.Router != nil {
		inbound.RegisterHTTPEndpoint(dep.Router, end)
	}
	if dep.Mux != nil {
		inbound.RegisterLambdaEndpoint(dep.Mux, end)
	}

	return nil
}
