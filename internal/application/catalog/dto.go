package catalog

import (
	"time"

	"github.com/ecommerce/product-service/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// UpdateCategoryRequest represents a request to rename a category
type UpdateCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain Categories to CategoryResponses
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

// CreateProductRequest represents a request to create a new product.
// Numeric fields are pointers so that an omitted value can be told apart
// from zero.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *int             `json:"categoryId"`
}

// UpdateProductRequest represents a request to overwrite a product
type UpdateProductRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	CategoryID  *int             `json:"categoryId"`
}

// UpdateStockRequest represents a request to overwrite a product's stock
type UpdateStockRequest struct {
	NewStock *int `json:"newStock"`
}

func (r CreateProductRequest) details() catalog.ProductDetails {
	return productDetails(r.Name, r.Description, r.Price, r.Stock, r.CategoryID)
}

func (r UpdateProductRequest) details() catalog.ProductDetails {
	return productDetails(r.Name, r.Description, r.Price, r.Stock, r.CategoryID)
}

func productDetails(name string, description *string, price *decimal.Decimal, stock, categoryID *int) catalog.ProductDetails {
	d := catalog.ProductDetails{
		Name:        name,
		Description: description,
	}
	if price != nil {
		d.Price = *price
	}
	if stock != nil {
		d.Stock = *stock
	}
	if categoryID != nil {
		d.CategoryID = *categoryID
	}
	return d
}

// ProductResponse represents a product in API responses. CategoryName is
// nil when the referenced category no longer exists.
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	CategoryID   int             `json:"categoryId"`
	CategoryName *string         `json:"categoryName"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product, categoryName *string) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
