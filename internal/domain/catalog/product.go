package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product limits shared by the validators and the schema
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 255
	MaxStock             = 1_000_000
	PricePrecision       = 10
	PriceScale           = 2
)

// Product is a sellable item belonging to a category
type Product struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductDetails holds the mutable fields of a product
type ProductDetails struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	CategoryID  int
}

// NewProduct creates a product with a fresh identifier
func NewProduct(details ProductDetails) *Product {
	now := time.Now().UTC()
	p := &Product{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	p.apply(details, now)
	return p
}

// Update overwrites every mutable field
func (p *Product) Update(details ProductDetails) {
	p.apply(details, time.Now().UTC())
}

func (p *Product) apply(details ProductDetails, at time.Time) {
	p.Name = details.Name
	p.Description = details.Description
	p.Price = details.Price
	p.Stock = details.Stock
	p.CategoryID = details.CategoryID
	p.UpdatedAt = at
}
