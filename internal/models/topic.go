package models

import "time"

// TrendingTopic represents a currently trending subject fetched in batches.
// Titles are unique (case-insensitive, trimmed) among non-expired rows.
type TrendingTopic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;index" json:"title"`
	Description string    `json:"description"`
	Category    string    `gorm:"index;default:'Politics'" json:"category"`
	TrendScore  int       `gorm:"index" json:"trendScore"` // 0-100
	Source      string    `json:"source"`                  // e.g. "Google Trends", "Social Media"
	Region      string    `json:"region"`
	FetchedAt   time.Time `gorm:"autoCreateTime;index" json:"fetchedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the topic has passed its retention window
func (t *TrendingTopic) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
