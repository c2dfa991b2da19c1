package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/newsroom-agent/internal/models"
	"github.com/newsroom-agent/internal/storage"
)

// Repository implements storage.Repository using SQLite
type Repository struct {
	db *gorm.DB
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate runs database migrations and seeds the category table
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(
		&models.Article{},
		&models.TrendingTopic{},
		&models.Category{},
	); err != nil {
		return err
	}
	return r.seedCategories()
}

// seedCategories inserts the fixed category set, skipping existing slugs
func (r *Repository) seedCategories() error {
	for _, cat := range models.DefaultCategories() {
		var existing models.Category
		err := r.db.Where("slug = ?", cat.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.db.Create(&cat).Error; err != nil {
			return fmt.Errorf("failed to seed category %s: %w", cat.Name, err)
		}
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Article operations

func (r *Repository) CreateArticle(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *Repository) GetArticleByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

func (r *Repository) ListArticles(ctx context.Context, filter storage.ArticleFilter) ([]*models.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Article{})

	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("title LIKE ? OR category LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var articles []*models.Article
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// SearchArticles performs a case-insensitive substring match over title,
// body, category, and serialized tags of published articles.
func (r *Repository) SearchArticles(ctx context.Context, query string, limit int) ([]*models.Article, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + query + "%"

	var articles []*models.Article
	err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Where(
			"title LIKE ? OR full_content LIKE ? OR category LIKE ? OR tags LIKE ?",
			pattern, pattern, pattern, pattern,
		).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *Repository) UpdateArticle(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *Repository) DeleteArticle(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *Repository) RecentArticleTitles(ctx context.Context, since time.Time) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("created_at >= ?", since).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *Repository) CountArticles(ctx context.Context, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Article{})
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Trending topic operations

func (r *Repository) CreateTrendingTopic(ctx context.Context, topic *models.TrendingTopic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *Repository) ListTrendingTopics(ctx context.Context, filter storage.TopicFilter) ([]*models.TrendingTopic, error) {
	query := r.db.WithContext(ctx).Model(&models.TrendingTopic{})

	if filter.Category != "" && filter.Category != "all" {
		query = query.Where("category = ?", filter.Category)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	var topics []*models.TrendingTopic
	if err := query.
		Order("trend_score DESC").
		Limit(limit).
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *Repository) TrendingTopicTitles(ctx context.Context) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.TrendingTopic{}).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}

func (r *Repository) PurgeTrendingTopicsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("fetched_at < ?", cutoff).
		Delete(&models.TrendingTopic{})
	return res.RowsAffected, res.Error
}

func (r *Repository) CountTrendingTopics(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TrendingTopic{}).Count(&count).Error
	return count, err
}

// Category operations

func (r *Repository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
