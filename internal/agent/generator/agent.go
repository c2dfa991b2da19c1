package generator

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

const (
	// minQueryLength is the shortest accepted search query
	minQueryLength = 2
	// satisfactionThreshold is the stored-match count above which no
	// generation happens (cost control)
	satisfactionThreshold = 3
	// storageResultCap bounds the stored matches returned per search
	storageResultCap = 10
	// topicPoolSize is how many top-scored topics the refill considers
	topicPoolSize = 10
	// refillBatchSize caps topics per batched generation prompt
	refillBatchSize = 5
	// recentWindow is the dedup window for refill against fresh articles,
	// and the recency window reported by Status
	recentWindow = 12 * time.Hour
	// statusRecentThreshold is the recent-article count under which Status
	// reports that generation is needed
	statusRecentThreshold = 5
)

// TopicRefresher fetches a fresh trending-topic batch. The refill path
// invokes it once when the topic table is empty.
type TopicRefresher interface {
	Refresh(ctx context.Context) error
}

// RefresherFunc adapts a function to the TopicRefresher interface
type RefresherFunc func(ctx context.Context) error

func (f RefresherFunc) Refresh(ctx context.Context) error { return f(ctx) }

// Agent decides the minimal sequence of storage reads, gateway calls, and
// storage writes that satisfies a content need.
type Agent struct {
	repo      storage.Repository
	gen       ai.TextGenerator // nil when no credential is configured
	refresher TopicRefresher
	log       *logger.Logger
}

// NewAgent creates a new generator agent. gen may be nil; refresher may be
// nil when no inline trending refresh is wanted.
func NewAgent(repo storage.Repository, gen ai.TextGenerator, refresher TopicRefresher, log *logger.Logger) *Agent {
	return &Agent{
		repo:      repo,
		gen:       gen,
		refresher: refresher,
		log:       log.WithComponent("generator"),
	}
}

// generatedArticle is the JSON shape requested from the model
type generatedArticle struct {
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	SummaryPoints []string `json:"summaryPoints"`
	FullContent   string   `json:"fullContent"`
	Tags          []string `json:"tags"`
}

// toArticle converts a parsed model element into a publishable article,
// normalizing the category and rejecting malformed records.
func (g generatedArticle) toArticle(provenance models.Provenance) (*models.Article, error) {
	category := g.Category
	if !models.IsValidCategory(category) {
		category = "Politics"
	}
	article := &models.Article{
		Title:         strings.TrimSpace(g.Title),
		SummaryPoints: g.SummaryPoints,
		FullContent:   g.FullContent,
		Category:      category,
		Tags:          g.Tags,
		Source:        provenance,
		Published:     true,
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}
	return article, nil
}

// SearchArticle is an article tagged with its provenance in a search result
type SearchArticle struct {
	*models.Article
	FromDatabase bool `json:"fromDatabase"`
}

// SearchResult is the outcome of a search, possibly degraded
type SearchResult struct {
	Query       string          `json:"query"`
	Articles    []SearchArticle `json:"articles"`
	Source      string          `json:"source"` // "database" or "mixed"
	AIGenerated bool            `json:"aiGenerated"`
	Notice      string          `json:"message,omitempty"`
}

// Search satisfies a free-text query from storage, generating one article
// when stored matches fall below the satisfaction threshold. Gateway
// failure degrades to the storage-only result; it never surfaces an error
// as long as a partial result exists.
func (a *Agent) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return nil, ErrQueryTooShort
	}

	log := a.log.WithQuery(query)

	stored, err := a.repo.SearchArticles(ctx, query, storageResultCap)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}

	result := &SearchResult{
		Query:    query,
		Articles: make([]SearchArticle, 0, len(stored)+1),
		Source:   "database",
	}
	for _, article := range stored {
		result.Articles = append(result.Articles, SearchArticle{Article: article, FromDatabase: true})
	}

	if len(stored) >= satisfactionThreshold {
		log.Debug().Int("matches", len(stored)).Msg("Query satisfied from storage")
		return result, nil
	}

	if a.gen == nil {
		result.Notice = "Limited results found. AI generation unavailable."
		return result, nil
	}

	prompt := fmt.Sprintf(ai.SearchArticlePrompt, query, strings.Join(models.CategoryNames(), ", "))
	raw, err := a.gen.Generate(ctx, ai.PurposeSearch, prompt)
	if err != nil {
		// Partial service beats none: return the stored matches with a
		// retry notice instead of failing the request.
		log.Warn().Err(err).Msg("Generation failed, returning stored results only")
		result.Notice = "AI quota exceeded. Showing stored results. Please wait a moment and try again."
		return result, nil
	}

	var generated []generatedArticle
	if err := ai.DecodeJSON(raw, &generated); err != nil {
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			log.Error().Err(err).Str("response", parseErr.Raw).Msg("Failed to parse generated articles")
		}
		result.Notice = "Limited results found."
		return result, nil
	}

	saved := 0
	for _, g := range generated {
		article, err := g.toArticle(models.ProvenanceSearch)
		if err != nil {
			log.Warn().Err(err).Str("title", g.Title).Msg("Skipping malformed generated article")
			continue
		}
		if err := a.repo.CreateArticle(ctx, article); err != nil {
			log.Warn().Err(err).Str("title", article.Title).Msg("Failed to save generated article")
			continue
		}
		result.Articles = append(result.Articles, SearchArticle{Article: article, FromDatabase: false})
		saved++
	}

	if saved > 0 {
		result.Source = "mixed"
		result.AIGenerated = true
		result.Notice = fmt.Sprintf("Found %d existing + generated %d new articles", len(stored), saved)
	}

	log.Info().
		Int("stored", len(stored)).
		Int("generated", saved).
		Msg("Search completed")
	return result, nil
}

// ArticleRef identifies a newly created article in a refill result
type ArticleRef struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// RefillResult reports the outcome of a front-page refill
type RefillResult struct {
	Generated int          `json:"generated"`
	Articles  []ArticleRef `json:"articles"`
	Message   string       `json:"message"`
}

// RefillFrontPage generates articles for the highest-scored trending topics
// that have no fresh article yet. Persistence failures for individual
// elements are logged and skipped; the batch is never aborted.
func (a *Agent) RefillFrontPage(ctx context.Context) (*RefillResult, error) {
	if a.gen == nil {
		return nil, ErrNotConfigured
	}

	topics, err := a.repo.ListTrendingTopics(ctx, storage.TopicFilter{Limit: topicPoolSize})
	if err != nil {
		return nil, fmt.Errorf("failed to load trending topics: %w", err)
	}

	if len(topics) == 0 && a.refresher != nil {
		if err := a.refresher.Refresh(ctx); err != nil {
			a.log.Warn().Err(err).Msg("Inline trending refresh failed")
		}
		topics, err = a.repo.ListTrendingTopics(ctx, storage.TopicFilter{Limit: topicPoolSize})
		if err != nil {
			return nil, fmt.Errorf("failed to load trending topics: %w", err)
		}
	}
	if len(topics) == 0 {
		return &RefillResult{Message: "No trending topics to generate from"}, nil
	}

	recentTitles, err := a.repo.RecentArticleTitles(ctx, time.Now().Add(-recentWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to load recent titles: %w", err)
	}
	seen := make(map[string]bool, len(recentTitles))
	for _, title := range recentTitles {
		seen[models.NormalizeTitle(title)] = true
	}

	var pending []*models.TrendingTopic
	for _, topic := range topics {
		if seen[models.NormalizeTitle(topic.Title)] {
			continue
		}
		pending = append(pending, topic)
	}
	if len(pending) == 0 {
		return &RefillResult{Message: "All trending topics already have articles"}, nil
	}
	if len(pending) > refillBatchSize {
		pending = pending[:refillBatchSize]
	}

	var topicsList strings.Builder
	for i, topic := range pending {
		description := topic.Description
		if description == "" {
			description = "N/A"
		}
		fmt.Fprintf(&topicsList, "%d. Topic: %q | Category: %s | Description: %s\n",
			i+1, topic.Title, topic.Category, description)
	}

	raw, err := a.gen.Generate(ctx, ai.PurposeFrontPage, fmt.Sprintf(ai.FrontPageBatchPrompt, topicsList.String()))
	if err != nil {
		return nil, err
	}

	var generated []generatedArticle
	if err := ai.DecodeJSON(raw, &generated); err != nil {
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			a.log.Error().Err(err).Str("response", parseErr.Raw).Msg("Failed to parse generated articles")
		}
		return nil, err
	}

	result := &RefillResult{}
	for _, g := range generated {
		article, err := g.toArticle(models.ProvenanceAI)
		if err != nil {
			a.log.Warn().Err(err).Str("title", g.Title).Msg("Skipping malformed generated article")
			continue
		}
		if err := a.repo.CreateArticle(ctx, article); err != nil {
			a.log.Warn().Err(err).Str("title", article.Title).Msg("Failed to save article")
			continue
		}
		result.Articles = append(result.Articles, ArticleRef{
			ID:       article.ID,
			Title:    article.Title,
			Category: article.Category,
		})
		result.Generated++
	}
	result.Message = fmt.Sprintf("Generated %d articles from trending topics", result.Generated)

	a.log.Info().
		Int("topics", len(pending)).
		Int("generated", result.Generated).
		Msg("Front page refill completed")
	return result, nil
}

// Status reports content freshness and whether a refill is warranted
type Status struct {
	RecentArticles  int64 `json:"recentArticles"`
	TotalArticles   int64 `json:"totalArticles"`
	TrendingTopics  int64 `json:"trendingTopics"`
	NeedsGeneration bool  `json:"needsGeneration"`
}

// CheckStatus returns article and topic counts plus the refill signal
func (a *Agent) CheckStatus(ctx context.Context) (*Status, error) {
	since := time.Now().Add(-recentWindow)
	recent, err := a.repo.CountArticles(ctx, &since)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent articles: %w", err)
	}
	total, err := a.repo.CountArticles(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	topics, err := a.repo.CountTrendingTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count trending topics: %w", err)
	}

	return &Status{
		RecentArticles:  recent,
		TotalArticles:   total,
		TrendingTopics:  topics,
		NeedsGeneration: recent < statusRecentThreshold && topics > 0,
	}, nil
}
