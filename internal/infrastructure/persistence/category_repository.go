package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"github.com/ecommerce/product-service/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const categoryEntity = "Category"

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// GetByID finds a category by its ID
func (r *GormCategoryRepository) GetByID(ctx context.Context, id int) (*catalog.Category, error) {
	return r.first(ctx, "Failed to get category by id", "id = ?", id)
}

// GetByName finds a category by its exact name
func (r *GormCategoryRepository) GetByName(ctx context.Context, name string) (*catalog.Category, error) {
	return r.first(ctx, "Failed to get category by name", "name = ?", name)
}

func (r *GormCategoryRepository) first(ctx context.Context, operation, query string, arg any) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError(operation, err)
	}
	return model.ToDomain(), nil
}

// GetAll returns every category ordered by name
func (r *GormCategoryRepository) GetAll(ctx context.Context) ([]catalog.Category, error) {
	var ms []models.CategoryModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&ms).Error; err != nil {
		return nil, storageError("Failed to get all categories", err)
	}
	return models.CategoriesToDomain(ms), nil
}

// Add inserts a category and fills in its generated ID
func (r *GormCategoryRepository) Add(ctx context.Context, category *catalog.Category) (*catalog.Category, error) {
	model := models.CategoryModelFromDomain(category)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, writeError("Failed to add category", categoryEntity, category.Name, err)
	}
	return model.ToDomain(), nil
}

// Update persists the category name, returning nil when no row matched
func (r *GormCategoryRepository) Update(ctx context.Context, category *catalog.Category) (*catalog.Category, error) {
	if category.UpdatedAt.IsZero() {
		category.UpdatedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":       category.Name,
			"updated_at": category.UpdatedAt,
		})
	if result.Error != nil {
		return nil, writeError("Failed to update category", categoryEntity, category.Name, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, category.ID)
}

// Delete removes a category, reporting whether a row was removed
func (r *GormCategoryRepository) Delete(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return false, storageError("Failed to delete category", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ExistsByName checks if a category with the exact name exists
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "Failed to check category name", "name = ?", name)
}

// ExistsByID checks if a category with the ID exists
func (r *GormCategoryRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, "Failed to check category id", "id = ?", id)
}

func (r *GormCategoryRepository) exists(ctx context.Context, operation, query string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where(query, arg).
		Count(&count).Error; err != nil {
		return false, storageError(operation, err)
	}
	return count > 0, nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
