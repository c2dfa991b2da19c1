// Package trending maintains the trending-topic table: batched refresh via
// the generation gateway, bounded retention, and case-insensitive title
// dedup among live rows.
package trending

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/newsroom-agent/internal/ai"
	"github.com/newsroom-agent/internal/models"
	"github.com/newsroom-agent/internal/storage"
	"github.com/newsroom-agent/pkg/logger"
)

// ErrNotConfigured indicates no generation credential is configured
var ErrNotConfigured = errors.New("generation API key not configured")

// retention is how long a fetched topic stays before it is purged
const retention = 24 * time.Hour

// Agent refreshes and serves trending topics
type Agent struct {
	repo   storage.Repository
	gen    ai.TextGenerator // nil when no credential is configured
	region string
	log    *logger.Logger
}

// NewAgent creates a new trending agent. gen may be nil.
func NewAgent(repo storage.Repository, gen ai.TextGenerator, region string, log *logger.Logger) *Agent {
	if region == "" {
		region = "India"
	}
	return &Agent{
		repo:   repo,
		gen:    gen,
		region: region,
		log:    log.WithComponent("trending"),
	}
}

// topicPayload is the JSON shape requested from the model
type topicPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TrendScore  int    `json:"trendScore"`
	Source      string `json:"source"`
}

// RefreshResult reports the outcome of one refresh run
type RefreshResult struct {
	Fetched int `json:"fetched"`
	Added   int `json:"added"`
	Dropped int `json:"dropped"` // duplicates and malformed entries
	Purged  int `json:"purged"`  // aged-out rows removed before insert
}

// Refresh requests one batch of topics for every category, purges rows
// older than the retention window, and inserts only net-new titles.
// Re-running does not create duplicate topics.
func (a *Agent) Refresh(ctx context.Context) (*RefreshResult, error) {
	if a.gen == nil {
		return nil, ErrNotConfigured
	}

	categories := strings.Join(models.CategoryNames(), ", ")
	prompt := fmt.Sprintf(ai.TrendingTopicsPrompt, a.region, categories, a.region)

	raw, err := a.gen.Generate(ctx, ai.PurposeTrending, prompt)
	if err != nil {
		return nil, err
	}

	var payload []topicPayload
	if err := ai.DecodeJSON(raw, &payload); err != nil {
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			a.log.Error().Err(err).Str("response", parseErr.Raw).Msg("Failed to parse trending topics")
		}
		return nil, err
	}

	now := time.Now()
	purged, err := a.repo.PurgeTrendingTopicsBefore(ctx, now.Add(-retention))
	if err != nil {
		return nil, fmt.Errorf("failed to purge expired topics: %w", err)
	}

	existing, err := a.repo.TrendingTopicTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load topic titles: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, title := range existing {
		seen[models.NormalizeTitle(title)] = true
	}

	result := &RefreshResult{Fetched: len(payload), Purged: int(purged)}
	for _, item := range payload {
		title := strings.TrimSpace(item.Title)
		key := models.NormalizeTitle(title)
		if title == "" || seen[key] {
			result.Dropped++
			continue
		}

		category := item.Category
		if !models.IsValidCategory(category) {
			category = "Politics"
		}
		score := item.TrendScore
		if score <= 0 {
			score = 50
		} else if score > 100 {
			score = 100
		}
		source := item.Source
		if source == "" {
			source = "AI Generated"
		}

		topic := &models.TrendingTopic{
			Title:       title,
			Description: item.Description,
			Category:    category,
			TrendScore:  score,
			Source:      source,
			Region:      a.region,
			ExpiresAt:   now.Add(retention),
		}
		if err := a.repo.CreateTrendingTopic(ctx, topic); err != nil {
			a.log.Warn().Err(err).Str("title", title).Msg("Failed to save topic")
			result.Dropped++
			continue
		}
		seen[key] = true
		result.Added++
	}

	a.log.Info().
		Int("fetched", result.Fetched).
		Int("added", result.Added).
		Int("dropped", result.Dropped).
		Int("purged", result.Purged).
		Msg("Trending refresh completed")
	return result, nil
}

// Listing pairs topics with the seeded category set
type Listing struct {
	Topics     []*models.TrendingTopic `json:"topics"`
	Categories []*models.Category      `json:"categories"`
}

// List returns topics ordered by trend score plus the category reference set
func (a *Agent) List(ctx context.Context, category string) (*Listing, error) {
	filter := storage.DefaultTopicFilter()
	filter.Category = category

	topics, err := a.repo.ListTrendingTopics(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	categories, err := a.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return &Listing{Topics: topics, Categories: categories}, nil
}

// Cleanup removes rows past the retention window; the scheduler runs this daily
func (a *Agent) Cleanup(ctx context.Context) (int64, error) {
	return a.repo.PurgeTrendingTopicsBefore(ctx, time.Now().Add(-retention))
}
