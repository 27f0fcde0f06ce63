package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/server"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/urfave/cli/v3"
)

// ServeAPI runs the HTTP API until interrupted.
func (r *Runner) ServeAPI(ctx context.Context, cmd *cli.Command) error {
	host := cmd.String("host")
	port := cmd.Int("port")

	if r.registry == nil {
		return fmt.Errorf("%w: service registry not initialized", shared.ErrServiceUnavailable)
	}
	if r.resolver == nil {
		return fmt.Errorf("%w: resolver not initialized", shared.ErrServiceUnavailable)
	}
	if r.lyrics == nil {
		return fmt.Errorf("%w: no lyrics sources registered", shared.ErrServiceUnavailable)
	}

	serverConfig := r.config.Server
	if host != "" {
		serverConfig.Host = host
	}
	if port > 0 {
		serverConfig.Port = port
	}
	addr := serverConfig.Addr()

	var sessionInfo server.SessionInfo
	if r.session != nil {
		sessionInfo = r.session
	}
	handler := server.NewAPIHandler(r.registry, r.resolver, r.lyrics, sessionInfo, r.logger)
	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(shared.WithLogger(r.logger, "component", "http")))
	router.Handler(handler)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting API server at %v", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	r.writePlain("Pipe Bomb API listening on %s\n", addr)
	r.writePlain("Press Ctrl+C to stop.\n")

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	if r.session != nil {
		r.session.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	r.writePlainln("✓ Server stopped")
	return nil
}

// serveCommand runs the long-lived HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides config)",
			},
		},
		Action: r.ServeAPI,
	}
}
