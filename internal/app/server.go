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

	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type homeResponse struct{}

func (homeResponse) Message() string { return "otpgate" }

func home(*router.Request) (any, error) {
	return homeResponse{}, nil
}

// Start serves HTTP in the background. The returned channel closes once
// SIGINT, SIGTERM or SIGHUP arrives; background workers are cancelled first.
func (a *App) Start() <-chan struct{} {
	done := make(chan struct{})

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		err := a.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		<-sigCtx.Done()
		slog.Info("shutdown signal received", "cause", context.Cause(sigCtx))

		a.cancel()
		close(done)
	}()

	return done
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

// ShutdownTimeout is the grace period in-flight requests get on Stop.
func (a *App) ShutdownTimeout() time.Duration {
	return a.config.GetSecond("app.server.shutdown_timeout_seconds")
}

// Stop gracefully shuts down the server and closes resources. Background
// workers see a cancelled context before the server stops accepting work.
func (a *App) Stop(ctx context.Context) {
	a.cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "background task failed", "error", err)
	}
	slog.InfoContext(ctx, "background tasks finished")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
