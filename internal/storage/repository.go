package storage

import (
	"context"
	"errors"
	"time"

	"github.com/newsroom-agent/internal/models"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	// Article operations
	CreateArticle(ctx context.Context, article *models.Article) error
	GetArticleByID(ctx context.Context, id uint) (*models.Article, error)
	ListArticles(ctx context.Context, filter ArticleFilter) ([]*models.Article, int64, error)
	SearchArticles(ctx context.Context, query string, limit int) ([]*models.Article, error)
	UpdateArticle(ctx context.Context, article *models.Article) error
	DeleteArticle(ctx context.Context, id uint) error
	RecentArticleTitles(ctx context.Context, since time.Time) ([]string, error)
	CountArticles(ctx context.Context, since *time.Time) (int64, error)

	// Trending topic operations
	CreateTrendingTopic(ctx context.Context, topic *models.TrendingTopic) error
	ListTrendingTopics(ctx context.Context, filter TopicFilter) ([]*models.TrendingTopic, error)
	TrendingTopicTitles(ctx context.Context) ([]string, error)
	PurgeTrendingTopicsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountTrendingTopics(ctx context.Context) (int64, error)

	// Category operations
	ListCategories(ctx context.Context) ([]*models.Category, error)

	// Maintenance
	Migrate() error
	Close() error
}

// ArticleFilter defines filtering options for article listings
type ArticleFilter struct {
	Category      string
	Query         string // substring match on title or category
	PublishedOnly bool
	Limit         int
	Page          int // 1-indexed
}

// TopicFilter defines filtering options for trending topic listings
type TopicFilter struct {
	Category string
	Limit    int
}

// DefaultArticleFilter returns a filter with sensible defaults
func DefaultArticleFilter() ArticleFilter {
	return ArticleFilter{
		PublishedOnly: true,
		Limit:         50,
		Page:          1,
	}
}

// DefaultTopicFilter returns a filter with sensible defaults
func DefaultTopicFilter() TopicFilter {
	return TopicFilter{
		Limit: 200,
	}
}
