package catalog

import (
	"context"
)

// CategoryRepository defines the interface for category persistence.
// Lookups return a nil category and a nil error when nothing matches.
// Storage faults are returned as shared Database errors; a duplicate name is
// returned as a shared Conflict error.
type CategoryRepository interface {
	// GetByID finds a category by its ID
	GetByID(ctx context.Context, id int) (*Category, error)

	// GetByName finds a category by its exact name
	GetByName(ctx context.Context, name string) (*Category, error)

	// GetAll returns every category ordered by name
	GetAll(ctx context.Context) ([]Category, error)

	// Add inserts a category and fills in its generated ID
	Add(ctx context.Context, category *Category) (*Category, error)

	// Update persists the category, returning nil when no row matched
	Update(ctx context.Context, category *Category) (*Category, error)

	// Delete removes a category, reporting whether a row was removed
	Delete(ctx context.Context, id int) (bool, error)

	// ExistsByName checks if a category with the exact name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsByID checks if a category with the ID exists
	ExistsByID(ctx context.Context, id int) (bool, error)
}
