package models

// Category is a static reference entity seeded once at migration
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// DefaultCategories returns the fixed set of 10 content categories
func DefaultCategories() []Category {
	return []Category{
		{Name: "Politics", Slug: "politics", Description: "Political news and analysis", Icon: "🏛️"},
		{Name: "Technology", Slug: "technology", Description: "Tech industry news and innovations", Icon: "💻"},
		{Name: "Business", Slug: "business", Description: "Business and economy news", Icon: "📈"},
		{Name: "Sports", Slug: "sports", Description: "Sports news and updates", Icon: "⚽"},
		{Name: "Entertainment", Slug: "entertainment", Description: "Movies, music, and pop culture", Icon: "🎬"},
		{Name: "Science", Slug: "science", Description: "Science and research breakthroughs", Icon: "🔬"},
		{Name: "World", Slug: "world", Description: "International news", Icon: "🌍"},
		{Name: "Education", Slug: "education", Description: "Education sector news", Icon: "📚"},
		{Name: "Health", Slug: "health", Description: "Health and medical news", Icon: "🏥"},
		{Name: "Environment", Slug: "environment", Description: "Climate and environmental news", Icon: "🌿"},
	}
}

// CategoryNames returns the names of the default categories in seed order
func CategoryNames() []string {
	cats := DefaultCategories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

// IsValidCategory reports whether name is one of the seeded categories
func IsValidCategory(name string) bool {
	for _, c := range DefaultCategories() {
		if c.Name == name {
			return true
		}
	}
	return false
}
