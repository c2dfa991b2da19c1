package factcheck

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
	prompts  []string
	response string
	err      error
}

func (s *stubGenerator) Generate(ctx context.Context, purpose ai.Purpose, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubRepo is an in-memory storage.Repository covering the article surface
type stubRepo struct {
	articles map[uint]*models.Article
	updates  int
}

func newStubRepo() *stubRepo {
	return &stubRepo{articles: make(map[uint]*models.Article)}
}

func (r *stubRepo) CreateArticle(ctx context.Context, article *models.Article) error {
	article.ID = uint(len(r.articles) + 1)
	r.articles[article.ID] = article
	return nil
}

func (r *stubRepo) GetArticleByID(ctx context.Context, id uint) (*models.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *article
	return &copied, nil
}

func (r *stubRepo) ListArticles(ctx context.Context, filter storage.ArticleFilter) ([]*models.Article, int64, error) {
	return nil, 0, nil
}
func (r *stubRepo) SearchArticles(ctx context.Context, query string, limit int) ([]*models.Article, error) {
	return nil, nil
}

func (r *stubRepo) UpdateArticle(ctx context.Context, article *models.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return storage.ErrNotFound
	}
	r.articles[article.ID] = article
	r.updates++
	return nil
}

func (r *stubRepo) DeleteArticle(ctx context.Context, id uint) error { return nil }
func (r *stubRepo) RecentArticleTitles(ctx context.Context, since time.Time) ([]string, error) {
	return nil, nil
}
func (r *stubRepo) CountArticles(ctx context.Context, since *time.Time) (int64, error) {
	return 0, nil
}
func (r *stubRepo) CreateTrendingTopic(ctx context.Context, topic *models.TrendingTopic) error {
	return nil
}
func (r *stubRepo) ListTrendingTopics(ctx context.Context, filter storage.TopicFilter) ([]*models.TrendingTopic, error) {
	return nil, nil
}
func (r *stubRepo) TrendingTopicTitles(ctx context.Context) ([]string, error) { return nil, nil }
func (r *stubRepo) PurgeTrendingTopicsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (r *stubRepo) CountTrendingTopics(ctx context.Context) (int64, error) { return 0, nil }
func (r *stubRepo) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return nil, nil
}
func (r *stubRepo) Migrate() error { return nil }
func (r *stubRepo) Close() error   { return nil }

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

const verdictJSON = `{
	"overallVerdict": "MOSTLY TRUE",
	"truthPercentage": 82,
	"overallSummary": "Largely accurate with minor caveats.",
	"claimVerifications": [
		{"claim": "c1", "verdict": "TRUE", "explanation": "e1", "sources": ["s1"]}
	],
	"sources": [{"name": "Press release", "type": "primary", "reliability": "High"}],
	"redFlags": [],
	"context": "ctx"
}`

func seedArticle(t *testing.T, repo *stubRepo, points ...string) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:         "Parliament passes reform bill",
		SummaryPoints: models.StringSlice(points),
		Category:      "Politics",
		Published:     true,
	}
	require.NoError(t, repo.CreateArticle(context.Background(), article))
	return article
}

func TestCheck_ArticleNotFound(t *testing.T) {
	agent := NewAgent(newStubRepo(), &stubGenerator{}, testLog())

	_, err := agent.Check(context.Background(), 42)

	assert.ErrorIs(t, err, ErrArticleNotFound)
}

func TestCheck_NotConfigured(t *testing.T) {
	repo := newStubRepo()
	seedArticle(t, repo, "claim")

	agent := NewAgent(repo, nil, testLog())

	_, err := agent.Check(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCheck_ComputesAndCaches(t *testing.T) {
	repo := newStubRepo()
	seedArticle(t, repo, "claim one", "claim two")
	gen := &stubGenerator{response: verdictJSON}
	agent := NewAgent(repo, gen, testLog())

	first, err := agent.Check(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.False(t, first.Cached)
	require.NotNil(t, first.FactCheck)
	assert.Equal(t, models.VerdictMostlyTrue, first.FactCheck.OverallVerdict)
	assert.Equal(t, 82, first.FactCheck.TruthPercentage)
	require.NotNil(t, first.CheckedAt)

	// Verdict is persisted on the article.
	assert.Equal(t, 1, repo.updates)
	stored := repo.articles[1]
	require.NotNil(t, stored.FactCheck)
	require.NotNil(t, stored.FactCheckedAt)

	// Second request is served from the cache without a gateway call.
	second, err := agent.Check(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls)
	assert.True(t, second.Cached)
	assert.Equal(t, first.FactCheck.OverallVerdict, second.FactCheck.OverallVerdict)
	assert.Equal(t, first.FactCheck.TruthPercentage, second.FactCheck.TruthPercentage)
}

func TestCheck_PromptBoundsClaims(t *testing.T) {
	repo := newStubRepo()
	seedArticle(t, repo, "one", "two", "three", "four", "five", "six")
	gen := &stubGenerator{response: verdictJSON}
	agent := NewAgent(repo, gen, testLog())

	_, err := agent.Check(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "4. four")
	assert.NotContains(t, gen.prompts[0], "five")
	assert.NotContains(t, gen.prompts[0], "six")
}

func TestCheck_GatewayErrorPropagates(t *testing.T) {
	repo := newStubRepo()
	seedArticle(t, repo, "claim")
	gen := &stubGenerator{err: fmt.Errorf("purpose factcheck: %w", ai.ErrModelsExhausted)}
	agent := NewAgent(repo, gen, testLog())

	_, err := agent.Check(context.Background(), 1)

	require.ErrorIs(t, err, ai.ErrModelsExhausted)
	assert.Nil(t, repo.articles[1].FactCheck)
}

func TestCheck_UnparsableVerdictNotPersisted(t *testing.T) {
	repo := newStubRepo()
	seedArticle(t, repo, "claim")
	gen := &stubGenerator{response: "I am unable to verify this."}
	agent := NewAgent(repo, gen, testLog())

	_, err := agent.Check(context.Background(), 1)

	var parseErr *ai.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Zero(t, repo.updates)
	assert.Nil(t, repo.articles[1].FactCheck)
}

func TestCheck_FencedVerdictParses(t *testing.T) {
	repo := newStubRepo()
	seedArticle(t, repo, "claim")
	gen := &stubGenerator{response: "Here is my analysis:\n```json\n" + verdictJSON + "\n```"}
	agent := NewAgent(repo, gen, testLog())

	result, err := agent.Check(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, result.FactCheck)
	require.Len(t, result.FactCheck.ClaimVerifications, 1)
	assert.Equal(t, "c1", result.FactCheck.ClaimVerifications[0].Claim)
}
