package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hoangnguyenba/webapi/pkg/routes"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the collections over HTTP",
		Long: `Opens the connection pool, loads the error name table and serves the cars, users,
subscriptions and errors routes until interrupted.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	AddConnectionFlags(cmd)
	cmd.Flags().String("listen-host", "", "Address to bind (default: MY_BIN_HOST or 127.0.0.1)")
	cmd.Flags().Int("listen-port", 0, "Port to bind (default: PORT or 3456)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen-host") {
		cfg.ListenHost, _ = cmd.Flags().GetString("listen-host")
	}
	if cmd.Flags().Changed("listen-port") {
		cfg.ListenPort, _ = cmd.Flags().GetInt("listen-port")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	p, err := openProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.CheckSchema(ctx); err != nil {
		return err
	}
	cancel()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           routes.NewEngine(p, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return runServer(srv, logger)
}

// runServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func runServer(srv *http.Server, logger *slog.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}
