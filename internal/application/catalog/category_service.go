package catalog

import (
	"context"
	"fmt"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"github.com/ecommerce/product-service/internal/domain/shared"
	"go.uber.org/zap"
)

const categoryEntity = "Category"

// Option configures the catalog services
type Option func(*options)

type options struct {
	cache  CategoryNameCache
	epoch  *nameEpoch
	logger *zap.Logger
}

// WithCategoryNameCache sets the cache used to resolve product category names.
// Services built from the same option share its invalidation epoch.
func WithCategoryNameCache(cache CategoryNameCache) Option {
	epoch := &nameEpoch{}
	return func(o *options) {
		if cache != nil {
			o.cache = cache
			o.epoch = epoch
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newCategoryNames(repo catalog.CategoryRepository, opts []Option) *categoryNames {
	o := options{cache: noopCategoryNameCache{}, epoch: &nameEpoch{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &categoryNames{repo: repo, cache: o.cache, epoch: o.epoch, logger: o.logger}
}

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	names        *categoryNames
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, opts ...Option) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		names:        newCategoryNames(categoryRepo, opts),
	}
}

// Create creates a new category with a unique name
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict(categoryEntity, req.Name)
	}

	created, err := s.categoryRepo.Add(ctx, catalog.NewCategory(req.Name))
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(created)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id int) (*CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.NotFound(categoryEntity, id)
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByName retrieves a category by its exact name
func (s *CategoryService) GetByName(ctx context.Context, name string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.NotFound(categoryEntity, name)
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetAll retrieves every category ordered by name
func (s *CategoryService) GetAll(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToCategoryResponses(categories), nil
}

// Update renames a category. Existence is checked before uniqueness.
func (s *CategoryService) Update(ctx context.Context, id int, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.NotFound(categoryEntity, id)
	}

	holder, err := s.categoryRepo.GetByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != id {
		return nil, shared.Conflict(categoryEntity, req.Name)
	}

	category.Rename(req.Name)
	updated, err := s.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, shared.NewDomainError(shared.KindServiceUnavailable,
			fmt.Sprintf("Unexpectedly failed updating Category with id '%d'", id))
	}
	s.names.invalidate(ctx, id)

	response := ToCategoryResponse(updated)
	return &response, nil
}

// Delete removes a category. It returns false when the category does not exist.
// Products that still reference the category are left untouched.
func (s *CategoryService) Delete(ctx context.Context, id int) (bool, error) {
	exists, err := s.categoryRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	deleted, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.names.invalidate(ctx, id)
	}
	return deleted, nil
}
