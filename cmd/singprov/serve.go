package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/creamcroissant/singprov/internal/config"
	"github.com/creamcroissant/singprov/internal/support/logging"
	"github.com/creamcroissant/singprov/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the subscription bundle and links page over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})

	server := web.New(web.Options{
		SubscriptionPath: cfg.Paths.Subscription,
		LinksPagePath:    cfg.Paths.LinksPage,
		CacheTTL:         cfg.HTTP.CacheTTL,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsNamespace: cfg.Metrics.Namespace,
		Logger:           logger,
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("subscription server listening", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("subscription server stopped")
	return nil
}
