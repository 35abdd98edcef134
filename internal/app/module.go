package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gocle/internal/contact"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.contact.enabled") {
		if err := contact.New(contact.Dependency{
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Validator:  a.validator,
			Resolver:   a.resolver,
			Storage:    a.storage,
			Mail:       a.mail,
			Publisher:  a.publisher,
			Router:     a.router,
			Mux:        a.mux,
		}); err != nil {
			slog.Error("failed to init module contact", "error", err)
			os.Exit(1)
		}
	}
}
