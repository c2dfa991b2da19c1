package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Provenance identifies how an article entered the system
type Provenance string

const (
	ProvenanceManual  Provenance = "Manual"
	ProvenanceYouTube Provenance = "YouTube"
	ProvenanceAI      Provenance = "AI Generated"
	ProvenanceSearch  Provenance = "Search Generated"
)

// StringSlice is a custom type for storing string arrays as JSON text
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Article represents a published or draft news article
type Article struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	Title         string           `gorm:"not null;index" json:"title"`
	SummaryPoints StringSlice      `gorm:"type:json;not null" json:"summaryPoints"`
	FullContent   string           `gorm:"type:text" json:"fullContent,omitempty"`
	YoutubeURL    string           `json:"youtubeUrl,omitempty"`
	ImageURL      string           `json:"imageUrl,omitempty"`
	Category      string           `gorm:"index;default:'Politics'" json:"category"`
	Tags          StringSlice      `gorm:"type:json" json:"tags"`
	Source        Provenance       `gorm:"default:'Manual'" json:"source"`
	Published     bool             `gorm:"default:true;index" json:"published"`
	AuthorID      *uint            `gorm:"index" json:"authorId,omitempty"`
	FactCheck     *FactCheckResult `gorm:"type:json" json:"factCheck,omitempty"`
	FactCheckedAt *time.Time       `json:"factCheckedAt,omitempty"`
	CreatedAt     time.Time        `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updatedAt"`
}

// NormalizeTitle lowercases and trims a title for dedup comparisons
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Validate checks the invariants for a publishable article
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if a.Published && len(a.SummaryPoints) == 0 {
		return fmt.Errorf("summary points are required for a published article")
	}
	return nil
}
