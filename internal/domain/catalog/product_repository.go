package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence.
// It follows the same conventions as CategoryRepository.
type ProductRepository interface {
	// GetByID finds a product by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetByName finds a product by its exact name
	GetByName(ctx context.Context, name string) (*Product, error)

	// GetAll returns every product ordered by name
	GetAll(ctx context.Context) ([]Product, error)

	// GetByCategoryID returns the products of a category ordered by name
	GetByCategoryID(ctx context.Context, categoryID int) ([]Product, error)

	// GetByPriceRange returns products priced within [minPrice, maxPrice] ordered by price
	GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]Product, error)

	// Search matches term case-insensitively against name or description
	Search(ctx context.Context, term string) ([]Product, error)

	// Add inserts a product
	Add(ctx context.Context, product *Product) (*Product, error)

	// Update overwrites the product unless another product already holds its
	// name. It returns nil when no row was written.
	Update(ctx context.Context, product *Product) (*Product, error)

	// UpdateStock overwrites the stock, reporting whether a row was affected
	UpdateStock(ctx context.Context, id uuid.UUID, stock int) (bool, error)

	// Delete removes a product, reporting whether a row was removed
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsByName checks if a product with the exact name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsByID checks if a product with the ID exists
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
