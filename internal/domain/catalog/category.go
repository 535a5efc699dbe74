package catalog

import (
	"time"
)

// Category groups products in the catalog
type Category struct {
	ID        int
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a category that has not been persisted yet
func NewCategory(name string) *Category {
	now := time.Now().UTC()
	return &Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename changes the category name
func (c *Category) Rename(name string) {
	c.Name = name
	c.UpdatedAt = time.Now().UTC()
}
