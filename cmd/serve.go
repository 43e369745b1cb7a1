package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/tagsync/internal/server"
	"github.com/urfave/cli/v3"
)

// shutdownGrace is how long in-flight webhook requests get to finish after a
// termination signal before the listener gives up on them.
const shutdownGrace = 30 * time.Second

// Serve runs the webhook server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = port
	}

	engine, err := r.buildEngine(ctx)
	if err != nil {
		return err
	}
	defer r.attachHistory(engine)()

	router := server.NewWebhookRouter(engine, r.config, r.logger)

	srv := &http.Server{
		Addr:              r.config.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("webhook server listening", "addr", srv.Addr, "secret_configured", r.config.Server.WebhookSecret != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	r.logger.Info("shutting down, draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// serveCommand runs the webhook server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the webhook server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override the configured listen port",
			},
		},
		Action: r.Serve,
	}
}
