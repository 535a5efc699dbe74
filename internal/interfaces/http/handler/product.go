package handler

import (
	"strings"

	catalogapp "github.com/ecommerce/product-service/internal/application/catalog"
	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/ecommerce/product-service/internal/interfaces/http/middleware"
	"github.com/ecommerce/product-service/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Routes returns the product route group
func (h *ProductHandler) Routes(validators middleware.RequestValidator) *router.DomainGroup {
	g := router.NewDomainGroup("products", "/products")
	g.POST("", middleware.ValidateJSON[catalogapp.CreateProductRequest](validators), h.Create)
	g.GET("", h.GetAll)
	g.GET("/category/:categoryId", h.GetByCategory)
	g.GET("/price-range", h.GetByPriceRange)
	g.GET("/search", h.Search)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", middleware.ValidateJSON[catalogapp.UpdateProductRequest](validators), h.Update)
	g.PATCH("/:id/stock", middleware.ValidateJSON[catalogapp.UpdateStockRequest](validators), h.UpdateStock)
	g.DELETE("/:id", h.Delete)
	return g
}

// Create godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} catalogapp.ProductResponse
// @Failure      400 {object} dto.ValidationErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	req, ok := middleware.ValidatedRequest[catalogapp.CreateProductRequest](c)
	if !ok {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resourcePath(c, product.ID.String()), product)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} catalogapp.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// GetAll godoc
// @Summary      Get all products
// @Tags         products
// @Produce      json
// @Success      200 {array} catalogapp.ProductResponse
// @Router       /products [get]
func (h *ProductHandler) GetAll(c *gin.Context) {
	products, err := h.productService.GetAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// GetByCategory godoc
// @Summary      Get products by category
// @Tags         products
// @Produce      json
// @Param        categoryId path int true "Category ID"
// @Success      200 {array} catalogapp.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /products/category/{categoryId} [get]
func (h *ProductHandler) GetByCategory(c *gin.Context) {
	categoryID, err := intParam(c, "categoryId")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	products, err := h.productService.GetByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// GetByPriceRange godoc
// @Summary      Get products by price range
// @Tags         products
// @Produce      json
// @Param        minPrice query number true "Lowest price, inclusive"
// @Param        maxPrice query number true "Highest price, inclusive"
// @Success      200 {array} catalogapp.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /products/price-range [get]
func (h *ProductHandler) GetByPriceRange(c *gin.Context) {
	minPrice, err := decimalQuery(c, "minPrice")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	maxPrice, err := decimalQuery(c, "maxPrice")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if minPrice.IsNegative() || maxPrice.IsNegative() || minPrice.GreaterThan(maxPrice) {
		h.HandleError(c, shared.BadRequest("Invalid price range parameters."))
		return
	}

	products, err := h.productService.GetByPriceRange(c.Request.Context(), minPrice, maxPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Search godoc
// @Summary      Search products
// @Description  Case-insensitive match on name or description
// @Tags         products
// @Produce      json
// @Param        searchTerm query string true "Text to look for"
// @Success      200 {array} catalogapp.ProductResponse
// @Failure      400 {object} dto.ErrorResponse
// @Router       /products/search [get]
func (h *ProductHandler) Search(c *gin.Context) {
	term := c.Query("searchTerm")
	if strings.TrimSpace(term) == "" {
		h.HandleError(c, shared.BadRequest("Search term cannot be empty."))
		return
	}

	products, err := h.productService.Search(c.Request.Context(), term)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Update godoc
// @Summary      Update a product
// @Description  Overwrites every mutable field of the product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} catalogapp.ProductResponse
// @Failure      400 {object} dto.ValidationErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	req, ok := middleware.ValidatedRequest[catalogapp.UpdateProductRequest](c)
	if !ok {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UpdateStock godoc
// @Summary      Update product stock
// @Tags         products
// @Accept       json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateStockRequest true "New stock level"
// @Success      204
// @Failure      400 {object} dto.ValidationErrorResponse
// @Failure      404
// @Router       /products/{id}/stock [patch]
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	req, ok := middleware.ValidatedRequest[catalogapp.UpdateStockRequest](c)
	if !ok {
		return
	}

	updated, err := h.productService.UpdateStock(c.Request.Context(), id, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !updated {
		h.NotFound(c)
		return
	}

	h.NoContent(c)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	deleted, err := h.productService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !deleted {
		h.NotFound(c)
		return
	}

	h.NoContent(c)
}

// decimalQuery parses a required decimal query parameter
func decimalQuery(c *gin.Context, name string) (decimal.Decimal, error) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return decimal.Zero, shared.MissingParameter(name)
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, shared.InvalidArgument(name, "must be a decimal number")
	}
	return value, nil
}
