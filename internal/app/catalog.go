package app

import (
	"context"
	"log"

	"quizdom/internal/domain"
)

// CategoryCatalog serves categories from the backend, or a static list when it is unavailable.
type CategoryCatalog struct {
	remote   CategoryRepository
	fallback []domain.Category
}

// NewCategoryCatalog builds a catalog; remote may be nil.
func NewCategoryCatalog(remote CategoryRepository, fallback []domain.Category) *CategoryCatalog {
	return &CategoryCatalog{remote: remote, fallback: fallback}
}

func (c *CategoryCatalog) Load(ctx context.Context) []domain.Category {
	if c.remote != nil {
		categories, err := c.remote.Categories(ctx)
		if err == nil && len(categories) > 0 {
			return categories
		}
		if err != nil {
			log.Printf("categories fetch failed, using static list: %v", err)
		}
	}
	return c.fallback
}

// Find looks up a category by key among the currently available ones.
func (c *CategoryCatalog) Find(ctx context.Context, key string) (domain.Category, bool) {
	for _, category := range c.Load(ctx) {
		if category.Key() == key {
			return category, true
		}
	}
	return domain.Category{}, false
}
