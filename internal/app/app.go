package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/gocle/pkg/apigw"
	"github.com/shandysiswandi/gocle/pkg/clock"
	"github.com/shandysiswandi/gocle/pkg/config"
	"github.com/shandysiswandi/gocle/pkg/form"
	"github.com/shandysiswandi/gocle/pkg/instrument"
	"github.com/shandysiswandi/gocle/pkg/kms"
	"github.com/shandysiswandi/gocle/pkg/mail"
	"github.com/shandysiswandi/gocle/pkg/notify"
	"github.com/shandysiswandi/gocle/pkg/router"
	"github.com/shandysiswandi/gocle/pkg/storage"
	"github.com/shandysiswandi/gocle/pkg/uid"
	"github.com/shandysiswandi/gocle/pkg/validator"
)

const (
	// ModeHTTP serves the router on a local HTTP server.
	ModeHTTP = "http"
	// ModeLambda serves API Gateway proxy events inside AWS Lambda.
	ModeLambda = "lambda"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	mode   string

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	resolver  *form.Resolver
	clock     clock.Clocker
	uuid      uid.StringID
	kms       kms.KeyManagement

	// resources
	storage   storage.Storage
	mail      mail.Mail
	publisher notify.Publisher

	// server
	router     *router.Router
	mux        *apigw.Mux
	handler    http.Handler
	httpServer *http.Server

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		mode:   detectMode(),
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initKMS()
	app.initStorage()
	app.initMail()
	app.initNotify()
	app.initTransport()
	app.initModules()
	app.initClosers()

	return app
}

// Mode reports whether the app serves HTTP or Lambda events.
func (a *App) Mode() string {
	return a.mode
}
