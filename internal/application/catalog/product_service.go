package catalog

import (
	"context"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const productEntity = "Product"

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	names        *categoryNames
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	opts ...Option,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		names:        newCategoryNames(categoryRepo, opts),
	}
}

// Create creates a new product in an existing category.
// The category is checked before the name.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	details := req.details()

	if err := s.requireCategory(ctx, details.CategoryID); err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByName(ctx, details.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.Conflict(productEntity, details.Name)
	}

	created, err := s.productRepo.Add(ctx, catalog.NewProduct(details))
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, created)
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NotFound(productEntity, id)
	}
	return s.respond(ctx, product)
}

// GetByName retrieves a product by its exact name
func (s *ProductService) GetByName(ctx context.Context, name string) (*ProductResponse, error) {
	product, err := s.productRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NotFound(productEntity, name)
	}
	return s.respond(ctx, product)
}

// GetAll retrieves every product ordered by name
func (s *ProductService) GetAll(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.names.enrich(ctx, products)
}

// GetByCategory retrieves the products of a category
func (s *ProductService) GetByCategory(ctx context.Context, categoryID int) ([]ProductResponse, error) {
	products, err := s.productRepo.GetByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.names.enrich(ctx, products)
}

// GetByPriceRange retrieves products priced within [minPrice, maxPrice]
func (s *ProductService) GetByPriceRange(ctx context.Context, minPrice, maxPrice decimal.Decimal) ([]ProductResponse, error) {
	products, err := s.productRepo.GetByPriceRange(ctx, minPrice, maxPrice)
	if err != nil {
		return nil, err
	}
	return s.names.enrich(ctx, products)
}

// Search retrieves products whose name or description contains term
func (s *ProductService) Search(ctx context.Context, term string) ([]ProductResponse, error) {
	products, err := s.productRepo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return s.names.enrich(ctx, products)
}

// Update overwrites every mutable field of a product.
// Checks run in order: product exists, category exists, name is free.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	details := req.details()

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.NotFound(productEntity, id)
	}

	if err := s.requireCategory(ctx, details.CategoryID); err != nil {
		return nil, err
	}

	holder, err := s.productRepo.GetByName(ctx, details.Name)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != id {
		return nil, shared.Conflict(productEntity, details.Name)
	}

	product.Update(details)
	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// the name was taken or the product removed after the checks above
		exists, err := s.productRepo.ExistsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NotFound(productEntity, id)
		}
		return nil, shared.Conflict(productEntity, details.Name)
	}
	return s.respond(ctx, updated)
}

// Delete removes a product. It returns false when the product does not exist.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := s.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return s.productRepo.Delete(ctx, id)
}

// UpdateStock overwrites the stock of a product. It returns false when the
// product does not exist.
func (s *ProductService) UpdateStock(ctx context.Context, id uuid.UUID, req UpdateStockRequest) (bool, error) {
	exists, err := s.productRepo.ExistsByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	var stock int
	if req.NewStock != nil {
		stock = *req.NewStock
	}
	return s.productRepo.UpdateStock(ctx, id, stock)
}

func (s *ProductService) requireCategory(ctx context.Context, categoryID int) error {
	exists, err := s.categoryRepo.ExistsByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NotFound(categoryEntity, categoryID)
	}
	return nil
}

func (s *ProductService) respond(ctx context.Context, product *catalog.Product) (*ProductResponse, error) {
	name, err := s.names.lookup(ctx, product.CategoryID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product, name)
	return &response, nil
}
