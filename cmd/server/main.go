package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsroom-agent/internal/agent/factcheck"
	"github.com/newsroom-agent/internal/agent/generator"
	"github.com/newsroom-agent/internal/agent/trending"
	"github.com/newsroom-agent/internal/ai"
	"github.com/newsroom-agent/internal/config"
	"github.com/newsroom-agent/internal/server"
	"github.com/newsroom-agent/internal/storage"
	"github.com/newsroom-agent/internal/storage/sqlite"
	"github.com/newsroom-agent/pkg/logger"
	"github.com/newsroom-agent/pkg/ratelimit"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logger.Logger
	repo    storage.Repository
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newsroom-server",
		Short: "HTTP API server for the newsroom agent",
		Long: `Serves the article, search, generation, trending and fact-check
endpoints over HTTP. Generation endpoints degrade gracefully when no
AI credential is configured.`,
		RunE: runServer,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	log.Info().Msg("Starting Newsroom Agent API server")

	// Initialize storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize rate limiter and generation gateway
	limiter := ratelimit.NewDefaultLimiter()
	gen := ai.NewFromConfig(cfg.AI, limiter, log)
	if gen == nil {
		log.Warn().Msg("No generation credential configured, AI endpoints disabled")
	}

	// Create agents
	trendingAgent := trending.NewAgent(repo, gen, cfg.Trending.Region, log)
	factcheckAgent := factcheck.NewAgent(repo, gen, log)
	generatorAgent := generator.NewAgent(repo, gen, generator.RefresherFunc(func(ctx context.Context) error {
		_, err := trendingAgent.Refresh(ctx)
		return err
	}), log)

	srv := server.New(repo, generatorAgent, trendingAgent, factcheckAgent, log)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv,
		ReadTimeout: 15 * time.Second,
		// Generation requests may walk the whole model ladder, so the
		// write timeout has to cover several upstream attempts.
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("API server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
