package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"github.com/ecommerce/product-service/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const productEntity = "Product"

// updateProductUnlessNameTaken writes every mutable column in one statement,
// skipping the write when another product already holds the new name.
const updateProductUnlessNameTaken = `UPDATE products
SET name = ?, description = ?, price = ?, stock = ?, category_id = ?, updated_at = ?
WHERE id = ? AND NOT EXISTS (SELECT 1 FROM products WHERE name = ? AND id <> ?)`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetByID finds a product by its ID
func (r *GormProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.first(ctx, "Failed to get product by id", "id = ?", id)
}

// GetByName finds a product by its exact name
func (r *GormProductRepository) GetByName(ctx context.Context, name string) (*catalog.Product, error) {
	return r.first(ctx, "Failed to get product by name", "name = ?", name)
}

func (r *GormProductRepository) first(ctx context.Context, operation, query string, arg any) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError(operation, err)
	}
	return model.ToDomain(), nil
}

// GetAll returns every product ordered by name
func (r *GormProductRepository) GetAll(ctx context.Context) ([]catalog.Product, error) {
	return r.find("Failed to get all products", r.db.WithContext(ctx).Order("name ASC"))
}

// GetByCategoryID returns the products of a category ordered by name
func (r *GormProductRepository) GetByCategoryID(ctx context.Context, categoryID int) ([]catalog.Product, error) {
	return r.find("Failed to get products by category",
		r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("name ASC"))
}

// GetByPriceRange returns products priced within [minPrice, maxPrice] ordered by price
func (r *GormProductRepository) GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]catalog.Product, error) {
	return r.find("Failed to get products by price range",
		r.db.WithContext(ctx).Where("price >= ? AND price <= ?", minPrice, maxPrice).Order("price ASC, name ASC"))
}

// Search matches term case-insensitively against name or description
func (r *GormProductRepository) Search(ctx context.Context, term string) ([]catalog.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	return r.find("Failed to search products",
		r.db.WithContext(ctx).
			Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern).
			Order("name ASC"))
}

func (r *GormProductRepository) find(operation string, query *gorm.DB) ([]catalog.Product, error) {
	var ms []models.ProductModel
	if err := query.Find(&ms).Error; err != nil {
		return nil, storageError(operation, err)
	}
	return models.ProductsToDomain(ms), nil
}

// Add inserts a product
func (r *GormProductRepository) Add(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, writeError("Failed to add product", productEntity, product.Name, err)
	}
	return model.ToDomain(), nil
}

// Update overwrites the product unless another product already holds its
// name. It returns nil when no row was written.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) (*catalog.Product, error) {
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).Exec(updateProductUnlessNameTaken,
		product.Name, product.Description, product.Price, product.Stock, product.CategoryID, product.UpdatedAt,
		product.ID, product.Name, product.ID,
	)
	if result.Error != nil {
		return nil, writeError("Failed to update product", productEntity, product.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, product.ID)
}

// UpdateStock overwrites the stock, reporting whether a row was affected
func (r *GormProductRepository) UpdateStock(ctx context.Context, id uuid.UUID, stock int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock":      stock,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, storageError("Failed to update product stock", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a product, reporting whether a row was removed
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return false, storageError("Failed to delete product", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ExistsByName checks if a product with the exact name exists
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "Failed to check product name", "name = ?", name)
}

// ExistsByID checks if a product with the ID exists
func (r *GormProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, "Failed to check product id", "id = ?", id)
}

func (r *GormProductRepository) exists(ctx context.Context, operation, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where(query, arg).
		Count(&count).Error; err != nil {
		return false, storageError(operation, err)
	}
	return count > 0, nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
