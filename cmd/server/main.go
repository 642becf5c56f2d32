// Package main implements the entry point for the parlons API server,
// which tracks sentence-level learning progress and reconciles it across
// local and remote stores.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// shutdownTimeout bounds the drain of in-flight requests on termination.
const shutdownTimeout = 10 * time.Second

// main initializes configuration, logging, storage, and services, then
// runs the HTTP server until interrupted.
func main() {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app); err != nil {
		slog.Error("server terminated with error", "error", err)
		os.Exit(1)
	}
}

// run starts the HTTP server and the background scheduler, then blocks
// until the context is cancelled and the server has drained.
func run(ctx context.Context, app *application) error {
	app.scheduler.Start()
	defer app.scheduler.Stop()

	srv := app.httpServer()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown incomplete", "error", err)
	}

	// Pending debounced pushes are dropped; the final local persist below
	// keeps durable state current and the next boot reconciles the remote.
	app.coordinator.CancelPending()
	app.persistFinal(shutdownCtx)

	slog.Info("shutdown complete")
	return nil
}
