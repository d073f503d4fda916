package models

type Category struct {
	CategoryID   int    `json:"category_id"`
	UserID       int64  `json:"user_id"`
	CategoryName string `json:"category_name"`
	UsageCount   int    `json:"usage_count"`
}

// DefaultCategories is the starter set seeded for a new user.
var DefaultCategories = []string{"study", "health", "focus", "relationships", "finance", "other"}
