// Package factcheck verifies article claims through the generation gateway
// and caches the verdict on the article unconditionally: once computed, a
// fact-check is never recomputed.
package factcheck

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

// Sentinel errors for fact-check operations.
var (
	// ErrArticleNotFound indicates the referenced article does not exist.
	ErrArticleNotFound = errors.New("article not found")

	// ErrNotConfigured indicates no generation credential is configured.
	ErrNotConfigured = errors.New("generation API key not configured")
)

// maxClaims bounds how many summary points go into the prompt
const maxClaims = 4

// Agent performs cached fact-checks
type Agent struct {
	repo storage.Repository
	gen  ai.TextGenerator // nil when no credential is configured
	log  *logger.Logger
}

// NewAgent creates a new fact-check agent. gen may be nil.
func NewAgent(repo storage.Repository, gen ai.TextGenerator, log *logger.Logger) *Agent {
	return &Agent{
		repo: repo,
		gen:  gen,
		log:  log.WithComponent("factcheck"),
	}
}

// Result is the outcome of a fact-check request
type Result struct {
	ArticleID    uint                    `json:"articleId"`
	ArticleTitle string                  `json:"articleTitle"`
	FactCheck    *models.FactCheckResult `json:"factCheck"`
	Cached       bool                    `json:"cached"`
	CheckedAt    *time.Time              `json:"checkedAt,omitempty"`
}

// Check returns the cached verdict when one exists, otherwise computes one
// through the gateway and persists it. Unlike search, this operation does
// not degrade: a failed verification is reported as failed.
func (a *Agent) Check(ctx context.Context, articleID uint) (*Result, error) {
	article, err := a.repo.GetArticleByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to load article: %w", err)
	}

	log := a.log.WithArticleID(article.ID)

	if article.FactCheck != nil {
		log.Debug().Msg("Serving cached fact-check")
		return &Result{
			ArticleID:    article.ID,
			ArticleTitle: article.Title,
			FactCheck:    article.FactCheck,
			Cached:       true,
			CheckedAt:    article.FactCheckedAt,
		}, nil
	}

	if a.gen == nil {
		return nil, ErrNotConfigured
	}

	claims := article.SummaryPoints
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}
	var claimList strings.Builder
	for i, claim := range claims {
		fmt.Fprintf(&claimList, "%d. %s\n", i+1, claim)
	}

	prompt := fmt.Sprintf(ai.FactCheckPrompt, article.Title, article.Category, claimList.String())
	raw, err := a.gen.Generate(ctx, ai.PurposeFactCheck, prompt)
	if err != nil {
		return nil, err
	}

	var verdict models.FactCheckResult
	if err := ai.DecodeJSON(raw, &verdict); err != nil {
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			log.Error().Err(err).Str("response", parseErr.Raw).Msg("Failed to parse fact-check verdict")
		}
		return nil, err
	}

	now := time.Now()
	article.FactCheck = &verdict
	article.FactCheckedAt = &now
	if err := a.repo.UpdateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to persist fact-check: %w", err)
	}

	log.Info().
		Str("verdict", string(verdict.OverallVerdict)).
		Int("truth_percentage", verdict.TruthPercentage).
		Msg("Fact-check completed")

	return &Result{
		ArticleID:    article.ID,
		ArticleTitle: article.Title,
		FactCheck:    &verdict,
		Cached:       false,
		CheckedAt:    &now,
	}, nil
}
