package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Awasthi-Ram/Root-fix-app/internal/community"
	"github.com/Awasthi-Ram/Root-fix-app/internal/http/handlers"
	httpapi "github.com/Awasthi-Ram/Root-fix-app/internal/http/httpapi"
	"github.com/Awasthi-Ram/Root-fix-app/internal/infra"
	"github.com/Awasthi-Ram/Root-fix-app/internal/providers/story"
	"github.com/Awasthi-Ram/Root-fix-app/internal/seed"
	"github.com/Awasthi-Ram/Root-fix-app/internal/state"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), e.cfg, e.logger)
		},
	}
}

func serve(ctx context.Context, cfg *infra.Config, logger infra.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalogue(cfg)
	if err != nil {
		return err
	}

	// Community stream hub
	hub := community.NewHub(logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	store := state.New(cat, state.Options{Publisher: hub, Logger: &logger})
	gen := newGenerator(ctx, cfg, logger)
	stories := story.NewGuard(gen, cfg.GenerationTimeout)

	app := handlers.NewApp(store, stories, hub, community.Upgrader(cfg.CORSAllowedOrigins), logger, cfg.SessionSecret)
	router := httpapi.NewRouter(app, logger, httpapi.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMin:    cfg.RateLimitPerMin,
	})
	server := infra.NewHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr()).Str("generator", story.Name(gen)).Msg("API listening")
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server failed")
		}
		return err
	case <-ctx.Done():
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
		return err
	}
	stopHub()
	logger.Info().Msg("server stopped")
	return nil
}

func loadCatalogue(cfg *infra.Config) (*seed.Catalogue, error) {
	if cfg.SeedPath != "" {
		return seed.Load(cfg.SeedPath, time.Now())
	}
	return seed.Default(time.Now())
}

func newGenerator(ctx context.Context, cfg *infra.Config, logger infra.Logger) story.Generator {
	return story.New(ctx, story.Options{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Logger:  &logger,
	})
}
