package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-manager/internal/bootstrap"
	"resume-manager/internal/shared/config"
	"resume-manager/internal/shared/server"
	"resume-manager/internal/shared/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		telemetry.Error("server.exit", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// run serves until SIGINT/SIGTERM or a listen failure. Deferred cleanup
// always runs before main decides the exit code.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	telemetry.Init(telemetry.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	telemetry.Info("server.stopped", nil)
	return nil
}
