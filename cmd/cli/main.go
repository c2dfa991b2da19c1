package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsroom-agent/internal/agent/factcheck"
	"github.com/newsroom-agent/internal/agent/generator"
	"github.com/newsroom-agent/internal/agent/trending"
	"github.com/newsroom-agent/internal/ai"
	"github.com/newsroom-agent/internal/config"
	"github.com/newsroom-agent/internal/models"
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
		Use:   "newsroom-agent",
		Short: "News content agent powered by AI",
		Long: `Manages stored articles and trending topics, and drives AI
generation and fact-checking from the command line.`,
		PersistentPreRunE: initializeApp,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(articlesCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(trendingCmd())
	rootCmd.AddCommand(factCheckCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
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

	// Initialize storage
	repo, err = sqlite.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// newGateway builds the gateway for commands that need generation.
// Returns nil when no credential is configured.
func newGateway() ai.TextGenerator {
	limiter := ratelimit.NewDefaultLimiter()
	return ai.NewFromConfig(cfg.AI, limiter, log)
}

func newGeneratorAgent(gen ai.TextGenerator) *generator.Agent {
	trendingAgent := trending.NewAgent(repo, gen, cfg.Trending.Region, log)
	return generator.NewAgent(repo, gen, generator.RefresherFunc(func(ctx context.Context) error {
		_, err := trendingAgent.Refresh(ctx)
		return err
	}), log)
}

// ============ ARTICLES COMMANDS ============

func articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles",
		Short: "List and manage articles",
	}

	cmd.AddCommand(articlesListCmd())
	cmd.AddCommand(articlesCreateCmd())
	cmd.AddCommand(articlesDeleteCmd())
	return cmd
}

func articlesListCmd() *cobra.Command {
	var category string
	var all bool
	var limit int
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			filter := storage.DefaultArticleFilter()
			filter.Category = category
			filter.Limit = limit
			filter.Page = page
			if all {
				filter.PublishedOnly = false
			}

			articles, total, err := repo.ListArticles(ctx, filter)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Articles (%d of %d) ===\n\n", len(articles), total)
			for _, a := range articles {
				fmt.Printf("[%d] %s | %s\n", a.ID, a.Category, a.Title)
				fmt.Printf("    Source: %s | Published: %v\n", a.Source, a.Published)
				fmt.Printf("    Created: %s\n", a.CreatedAt.Format(time.RFC1123))
				if a.FactCheckedAt != nil {
					fmt.Printf("    Fact-checked: %s\n", a.FactCheckedAt.Format(time.RFC1123))
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().BoolVar(&all, "all", false, "Include unpublished articles")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum articles to show")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")

	return cmd
}

func articlesCreateCmd() *cobra.Command {
	var title string
	var category string
	var content string
	var summary []string
	var tags []string
	var youtubeURL string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article manually",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			source := models.ProvenanceManual
			if youtubeURL != "" {
				source = models.ProvenanceYouTube
			}

			article := &models.Article{
				Title:         title,
				SummaryPoints: models.StringSlice(summary),
				FullContent:   content,
				YoutubeURL:    youtubeURL,
				Category:      category,
				Tags:          models.StringSlice(tags),
				Source:        source,
				Published:     true,
			}

			if err := article.Validate(); err != nil {
				return err
			}

			if err := repo.CreateArticle(ctx, article); err != nil {
				return err
			}

			fmt.Printf("Created article [%d] %s\n", article.ID, article.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Article title (required)")
	cmd.Flags().StringVar(&category, "category", "Politics", "Article category")
	cmd.Flags().StringVar(&content, "content", "", "Full article body")
	cmd.Flags().StringSliceVar(&summary, "summary", nil, "Summary points (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags (repeatable)")
	cmd.Flags().StringVar(&youtubeURL, "youtube-url", "", "Source video URL")
	cmd.MarkFlagRequired("title")

	return cmd
}

func articlesDeleteCmd() *cobra.Command {
	var id uint

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an article",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := repo.DeleteArticle(ctx, id); err != nil {
				return err
			}

			fmt.Printf("Deleted article [%d]\n", id)
			return nil
		},
	}

	cmd.Flags().UintVar(&id, "id", 0, "Article ID (required)")
	cmd.MarkFlagRequired("id")

	return cmd
}

// ============ SEARCH COMMAND ============

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search articles, generating one when matches are thin",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := newGeneratorAgent(newGateway())

			result, err := agent.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Search Results (%d) ===\n", len(result.Articles))
			fmt.Printf("Query:  %s\n", result.Query)
			fmt.Printf("Source: %s\n\n", result.Source)

			for _, a := range result.Articles {
				origin := "db"
				if !a.FromDatabase {
					origin = "ai"
				}
				fmt.Printf("[%d] (%s) %s | %s\n", a.ID, origin, a.Category, a.Title)
				for _, p := range a.SummaryPoints {
					fmt.Printf("    - %s\n", p)
				}
				fmt.Println()
			}

			if result.Notice != "" {
				fmt.Printf("Note: %s\n", result.Notice)
			}

			return nil
		},
	}
}

// ============ GENERATE COMMANDS ============

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Front-page generation commands",
	}

	cmd.AddCommand(generateRunCmd())
	cmd.AddCommand(generateStatusCmd())
	return cmd
}

func generateRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Refill the front page from trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := newGeneratorAgent(newGateway())

			result, err := agent.RefillFrontPage(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Refill Results ===\n")
			fmt.Printf("Generated: %d\n", result.Generated)
			fmt.Printf("Message:   %s\n\n", result.Message)

			for _, a := range result.Articles {
				fmt.Printf("[%d] %s | %s\n", a.ID, a.Category, a.Title)
			}

			return nil
		},
	}
}

func generateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show content freshness",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := newGeneratorAgent(nil)

			status, err := agent.CheckStatus(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Content Status ===\n")
			fmt.Printf("Recent articles:  %d\n", status.RecentArticles)
			fmt.Printf("Total articles:   %d\n", status.TotalArticles)
			fmt.Printf("Trending topics:  %d\n", status.TrendingTopics)
			fmt.Printf("Needs generation: %v\n", status.NeedsGeneration)

			return nil
		},
	}
}

// ============ TRENDING COMMANDS ============

func trendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List and refresh trending topics",
	}

	cmd.AddCommand(trendingListCmd())
	cmd.AddCommand(trendingRefreshCmd())
	return cmd
}

func trendingListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := trending.NewAgent(repo, nil, cfg.Trending.Region, log)

			listing, err := agent.List(ctx, category)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Trending Topics (%d) ===\n\n", len(listing.Topics))
			for _, t := range listing.Topics {
				fmt.Printf("[%d] %3d | %s | %s\n", t.ID, t.TrendScore, t.Category, t.Title)
				if t.Description != "" {
					fmt.Printf("    %s\n", t.Description)
				}
				fmt.Printf("    Fetched: %s | Expires: %s\n\n",
					t.FetchedAt.Format(time.RFC1123), t.ExpiresAt.Format(time.RFC1123))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")

	return cmd
}

func trendingRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch a fresh batch of trending topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := trending.NewAgent(repo, newGateway(), cfg.Trending.Region, log)

			result, err := agent.Refresh(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Trending Refresh ===\n")
			fmt.Printf("Fetched: %d\n", result.Fetched)
			fmt.Printf("Added:   %d\n", result.Added)
			fmt.Printf("Dropped: %d\n", result.Dropped)
			fmt.Printf("Purged:  %d\n", result.Purged)

			return nil
		},
	}
}

// ============ FACT-CHECK COMMAND ============

func factCheckCmd() *cobra.Command {
	var id uint
	var force bool

	cmd := &cobra.Command{
		Use:   "fact-check",
		Short: "Verify an article's summary claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			agent := factcheck.NewAgent(repo, newGateway(), log)

			if force {
				if err := clearFactCheck(ctx, id); err != nil {
					return err
				}
			}

			result, err := agent.Check(ctx, id)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Fact Check [%d] ===\n", result.ArticleID)
			fmt.Printf("Article: %s\n", result.ArticleTitle)
			fmt.Printf("Cached:  %v\n", result.Cached)
			if result.FactCheck != nil {
				fmt.Printf("Verdict: %s (%d%% true)\n", result.FactCheck.OverallVerdict, result.FactCheck.TruthPercentage)
				fmt.Printf("Summary: %s\n\n", result.FactCheck.OverallSummary)
				for _, c := range result.FactCheck.ClaimVerifications {
					fmt.Printf("  - [%s] %s\n", c.Verdict, c.Claim)
					if c.Explanation != "" {
						fmt.Printf("    %s\n", c.Explanation)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().UintVar(&id, "id", 0, "Article ID (required)")
	cmd.Flags().BoolVar(&force, "force", false, "Discard the cached verdict and re-check")
	cmd.MarkFlagRequired("id")

	return cmd
}

// clearFactCheck drops a stored verdict so the next check recomputes it
func clearFactCheck(ctx context.Context, id uint) error {
	article, err := repo.GetArticleByID(ctx, id)
	if err != nil {
		return err
	}
	article.FactCheck = nil
	article.FactCheckedAt = nil
	return repo.UpdateArticle(ctx, article)
}
