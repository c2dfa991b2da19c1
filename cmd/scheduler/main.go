package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/newsroom-agent/internal/agent/generator"
	"github.com/newsroom-agent/internal/agent/trending"
	"github.com/newsroom-agent/internal/ai"
	"github.com/newsroom-agent/internal/config"
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
		Use:   "newsroom-scheduler",
		Short: "Background scheduler for the newsroom agent",
		Long: `Runs scheduled trending refresh, front-page refill and cleanup
tasks in the background. This daemon should be run as a service for
autonomous operation.`,
		RunE: runScheduler,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScheduler(cmd *cobra.Command, args []string) error {
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

	log.Info().Msg("Starting Newsroom Agent Scheduler")

	// Initialize storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer repo.Close()

	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Start health check server for the hosting platform
	go startHealthServer()

	// Initialize rate limiter and generation gateway
	limiter := ratelimit.NewDefaultLimiter()
	gen := ai.NewFromConfig(cfg.AI, limiter, log)
	if gen == nil {
		log.Warn().Msg("No generation credential configured, scheduled generation disabled")
	}

	// Create agents
	trendingAgent := trending.NewAgent(repo, gen, cfg.Trending.Region, log)
	generatorAgent := generator.NewAgent(repo, gen, generator.RefresherFunc(func(ctx context.Context) error {
		_, err := trendingAgent.Refresh(ctx)
		return err
	}), log)

	// Create cron scheduler
	c := cron.New(cron.WithLogger(cronLogger{log}))

	// Schedule trending refresh job
	_, err = c.AddFunc(cfg.Scheduler.TrendingCron, func() {
		ctx := context.Background()
		log.Info().Msg("Running scheduled trending refresh")

		result, err := trendingAgent.Refresh(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled trending refresh failed")
			return
		}

		log.Info().
			Int("fetched", result.Fetched).
			Int("added", result.Added).
			Int("purged", result.Purged).
			Msg("Scheduled trending refresh completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule trending job: %w", err)
	}
	log.Info().Str("cron", cfg.Scheduler.TrendingCron).Msg("Trending job scheduled")

	// Schedule front-page refill job. Only runs a generation pass when
	// the front page is thin, so most ticks are a cheap status check.
	_, err = c.AddFunc(cfg.Scheduler.GenerateCron, func() {
		ctx := context.Background()

		status, err := generatorAgent.CheckStatus(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled status check failed")
			return
		}
		if !status.NeedsGeneration {
			log.Debug().
				Int64("recent_articles", status.RecentArticles).
				Msg("Front page healthy, skipping refill")
			return
		}

		log.Info().Msg("Running scheduled front-page refill")
		result, err := generatorAgent.RefillFrontPage(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled refill failed")
			return
		}

		log.Info().
			Int("generated", result.Generated).
			Msg("Scheduled refill completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refill job: %w", err)
	}
	log.Info().Str("cron", cfg.Scheduler.GenerateCron).Msg("Refill job scheduled")

	// Schedule topic cleanup job
	_, err = c.AddFunc(cfg.Scheduler.CleanupCron, func() {
		ctx := context.Background()

		purged, err := trendingAgent.Cleanup(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled cleanup failed")
			return
		}

		log.Info().Int64("purged", purged).Msg("Scheduled cleanup completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	log.Info().Str("cron", cfg.Scheduler.CleanupCron).Msg("Cleanup job scheduled")

	// Start scheduler
	c.Start()
	log.Info().Msg("Scheduler started")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down scheduler")
	c.Stop()

	return nil
}

// cronLogger adapts our logger for cron
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info().Msgf(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Msgf(msg, keysAndValues...)
}

// startHealthServer starts a simple HTTP server for liveness probes
func startHealthServer() {
	port := cfg.Scheduler.HealthPort
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Newsroom Agent Scheduler"))
	})

	log.Info().Str("port", port).Msg("Health check server starting")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Error().Err(err).Msg("Health server failed")
	}
}
