package trending

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsroom-agent/internal/ai"
	"github.com/newsroom-agent/internal/models"
	"github.com/newsroom-agent/internal/storage"
	"github.com/newsroom-agent/pkg/logger"
)

type stubGenerator struct {
	calls    int
	response string
	err      error
}

func (s *stubGenerator) Generate(ctx context.Context, purpose ai.Purpose, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubRepo is an in-memory storage.Repository covering the topic surface
type stubRepo struct {
	topics     []*models.TrendingTopic
	categories []*models.Category
	nextID     uint
}

func newStubRepo() *stubRepo { return &stubRepo{nextID: 1} }

func (r *stubRepo) CreateArticle(ctx context.Context, article *models.Article) error { return nil }
func (r *stubRepo) GetArticleByID(ctx context.Context, id uint) (*models.Article, error) {
	return nil, storage.ErrNotFound
}
func (r *stubRepo) ListArticles(ctx context.Context, filter storage.ArticleFilter) ([]*models.Article, int64, error) {
	return nil, 0, nil
}
func (r *stubRepo) SearchArticles(ctx context.Context, query string, limit int) ([]*models.Article, error) {
	return nil, nil
}
func (r *stubRepo) UpdateArticle(ctx context.Context, article *models.Article) error { return nil }
func (r *stubRepo) DeleteArticle(ctx context.Context, id uint) error                 { return nil }
func (r *stubRepo) RecentArticleTitles(ctx context.Context, since time.Time) ([]string, error) {
	return nil, nil
}
func (r *stubRepo) CountArticles(ctx context.Context, since *time.Time) (int64, error) {
	return 0, nil
}

func (r *stubRepo) CreateTrendingTopic(ctx context.Context, topic *models.TrendingTopic) error {
	topic.ID = r.nextID
	if topic.FetchedAt.IsZero() {
		topic.FetchedAt = time.Now()
	}
	r.nextID++
	r.topics = append(r.topics, topic)
	return nil
}

func (r *stubRepo) ListTrendingTopics(ctx context.Context, filter storage.TopicFilter) ([]*models.TrendingTopic, error) {
	if filter.Category == "" || filter.Category == "all" {
		return r.topics, nil
	}
	var out []*models.TrendingTopic
	for _, t := range r.topics {
		if t.Category == filter.Category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubRepo) TrendingTopicTitles(ctx context.Context) ([]string, error) {
	var titles []string
	for _, t := range r.topics {
		titles = append(titles, t.Title)
	}
	return titles, nil
}

func (r *stubRepo) PurgeTrendingTopicsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var kept []*models.TrendingTopic
	var purged int64
	for _, t := range r.topics {
		if t.FetchedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, t)
	}
	r.topics = kept
	return purged, nil
}

func (r *stubRepo) CountTrendingTopics(ctx context.Context) (int64, error) {
	return int64(len(r.topics)), nil
}

func (r *stubRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return r.categories, nil
}

func (r *stubRepo) Migrate() error { return nil }
func (r *stubRepo) Close() error   { return nil }

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

func TestRefresh_NotConfigured(t *testing.T) {
	agent := NewAgent(newStubRepo(), nil, "", testLog())

	_, err := agent.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRefresh_InsertsNetNewTopics(t *testing.T) {
	repo := newStubRepo()
	gen := &stubGenerator{response: "```json\n" + `[
		{"title": "Election results", "description": "d", "category": "Politics", "trendScore": 95, "source": "News"},
		{"title": "Cup final", "category": "Sports", "trendScore": 70}
	]` + "\n```"}
	agent := NewAgent(repo, gen, "India", testLog())

	result, err := agent.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 2, result.Added)
	assert.Zero(t, result.Dropped)
	require.Len(t, repo.topics, 2)

	first := repo.topics[0]
	assert.Equal(t, "Election results", first.Title)
	assert.Equal(t, "India", first.Region)
	assert.Equal(t, 95, first.TrendScore)
	assert.Equal(t, "News", first.Source)
	assert.WithinDuration(t, time.Now().Add(retention), first.ExpiresAt, time.Minute)

	// Omitted source falls back to the generated marker.
	assert.Equal(t, "AI Generated", repo.topics[1].Source)
}

func TestRefresh_DedupIsCaseInsensitive(t *testing.T) {
	repo := newStubRepo()
	require.NoError(t, repo.CreateTrendingTopic(context.Background(), &models.TrendingTopic{Title: "AI Summit"}))

	gen := &stubGenerator{response: `[
		{"title": "  ai summit  ", "category": "Technology", "trendScore": 60},
		{"title": "", "category": "Technology"},
		{"title": "New launch", "category": "Technology", "trendScore": 40}
	]`}
	agent := NewAgent(repo, gen, "India", testLog())

	result, err := agent.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, result.Dropped)
	require.Len(t, repo.topics, 2)
	assert.Equal(t, "New launch", repo.topics[1].Title)
}

func TestRefresh_RerunAddsNothing(t *testing.T) {
	repo := newStubRepo()
	gen := &stubGenerator{response: `[{"title": "Heat wave", "category": "Environment", "trendScore": 88}]`}
	agent := NewAgent(repo, gen, "India", testLog())

	_, err := agent.Refresh(context.Background())
	require.NoError(t, err)

	second, err := agent.Refresh(context.Background())
	require.NoError(t, err)

	assert.Zero(t, second.Added)
	assert.Equal(t, 1, second.Dropped)
	assert.Len(t, repo.topics, 1)
}

func TestRefresh_NormalizesCategoryAndScore(t *testing.T) {
	repo := newStubRepo()
	gen := &stubGenerator{response: `[
		{"title": "Zeroed", "category": "Nonsense", "trendScore": 0},
		{"title": "Overflow", "category": "Sports", "trendScore": 400}
	]`}
	agent := NewAgent(repo, gen, "India", testLog())

	_, err := agent.Refresh(context.Background())

	require.NoError(t, err)
	require.Len(t, repo.topics, 2)
	assert.Equal(t, "Politics", repo.topics[0].Category)
	assert.Equal(t, 50, repo.topics[0].TrendScore)
	assert.Equal(t, 100, repo.topics[1].TrendScore)
}

func TestRefresh_PurgesAgedRowsFirst(t *testing.T) {
	repo := newStubRepo()
	require.NoError(t, repo.CreateTrendingTopic(context.Background(), &models.TrendingTopic{
		Title:     "Stale",
		FetchedAt: time.Now().Add(-25 * time.Hour),
	}))

	gen := &stubGenerator{response: `[{"title": "Fresh", "category": "Politics", "trendScore": 75}]`}
	agent := NewAgent(repo, gen, "India", testLog())

	result, err := agent.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Purged)
	assert.Equal(t, 1, result.Added)
	require.Len(t, repo.topics, 1)
	assert.Equal(t, "Fresh", repo.topics[0].Title)
}

func TestRefresh_GatewayErrorPropagates(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("purpose trending: %w", ai.ErrModelsExhausted)}
	agent := NewAgent(newStubRepo(), gen, "India", testLog())

	_, err := agent.Refresh(context.Background())

	assert.ErrorIs(t, err, ai.ErrModelsExhausted)
}

func TestRefresh_UnparsableOutputPropagates(t *testing.T) {
	gen := &stubGenerator{response: "nothing structured"}
	agent := NewAgent(newStubRepo(), gen, "India", testLog())

	_, err := agent.Refresh(context.Background())

	var parseErr *ai.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestList_FiltersByCategory(t *testing.T) {
	repo := newStubRepo()
	repo.categories = []*models.Category{{Name: "Politics"}, {Name: "Sports"}}
	require.NoError(t, repo.CreateTrendingTopic(context.Background(), &models.TrendingTopic{Title: "A", Category: "Politics"}))
	require.NoError(t, repo.CreateTrendingTopic(context.Background(), &models.TrendingTopic{Title: "B", Category: "Sports"}))

	agent := NewAgent(repo, nil, "", testLog())

	listing, err := agent.List(context.Background(), "Sports")

	require.NoError(t, err)
	require.Len(t, listing.Topics, 1)
	assert.Equal(t, "B", listing.Topics[0].Title)
	assert.Len(t, listing.Categories, 2)
}

func TestCleanup_RemovesExpiredRows(t *testing.T) {
	repo := newStubRepo()
	require.NoError(t, repo.CreateTrendingTopic(context.Background(), &models.TrendingTopic{
		Title:     "Old",
		FetchedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.CreateTrendingTopic(context.Background(), &models.TrendingTopic{Title: "Live"}))

	agent := NewAgent(repo, nil, "", testLog())

	purged, err := agent.Cleanup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	require.Len(t, repo.topics, 1)
	assert.Equal(t, "Live", repo.topics[0].Title)
}

func TestNewAgent_DefaultRegion(t *testing.T) {
	agent := NewAgent(newStubRepo(), nil, "", testLog())

	assert.Equal(t, "India", agent.region)
}
