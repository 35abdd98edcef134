package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

const (
	// lambdaAdapterDirect dispatches API Gateway events through the apigw mux.
	lambdaAdapterDirect = "direct"
	// lambdaAdapterProxy converts events to net/http requests for the router.
	lambdaAdapterProxy = "proxy"
)

// Start launches the HTTP server and returns a channel closed on shutdown.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		<-sigint

		if a.cancel != nil {
			a.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// StartLambda hands control to the Lambda runtime and never returns.
// Resources are released when the runtime sends SIGTERM.
func (a *App) StartLambda() {
	adapter := a.config.GetString("app.lambda.adapter")
	slog.Info("lambda handler starting", "adapter", adapter)

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		a.Stop(ctx)
	}

	lambda.StartWithOptions(a.lambdaHandler(adapter),
		lambda.WithContext(a.ctx),
		lambda.WithEnableSIGTERM(shutdown),
	)
}

// lambdaHandler picks the entry point for API Gateway proxy events.
func (a *App) lambdaHandler(adapter string) any {
	if adapter == lambdaAdapterProxy {
		return httpadapter.New(a.handler).ProxyWithContext
	}
	if adapter != lambdaAdapterDirect {
		slog.Warn("unknown lambda adapter, using direct", "adapter", adapter)
	}
	return a.mux.Invoke
}

// Serve runs the HTTP server on the provided listener for tests.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- a.httpServer.Serve(l)
		close(errChan)
	}()

	return errChan
}

// Stop gracefully shuts down the server and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if a.mode == ModeHTTP {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
		}
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
