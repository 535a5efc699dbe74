package handler

import (
	"strconv"

	catalogapp "github.com/ecommerce/product-service/internal/application/catalog"
	"github.com/ecommerce/product-service/internal/interfaces/http/middleware"
	"github.com/ecommerce/product-service/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category-related API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// Routes returns the category route group. Request bodies are bound and
// validated before the handlers run.
func (h *CategoryHandler) Routes(validators middleware.RequestValidator) *router.DomainGroup {
	g := router.NewDomainGroup("categories", "/categories")
	g.POST("", middleware.ValidateJSON[catalogapp.CreateCategoryRequest](validators), h.Create)
	g.GET("", h.GetAll)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", middleware.ValidateJSON[catalogapp.UpdateCategoryRequest](validators), h.Update)
	g.DELETE("/:id", h.Delete)
	return g
}

// Create godoc
// @Summary      Create a new category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category creation request"
// @Success      201 {object} catalogapp.CategoryResponse
// @Failure      400 {object} dto.ValidationErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	req, ok := middleware.ValidatedRequest[catalogapp.CreateCategoryRequest](c)
	if !ok {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resourcePath(c, strconv.Itoa(category.ID)), category)
}

// GetByID godoc
// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category ID"
// @Success      200 {object} catalogapp.CategoryResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// GetAll godoc
// @Summary      Get all categories
// @Tags         categories
// @Produce      json
// @Success      200 {array} catalogapp.CategoryResponse
// @Router       /categories [get]
func (h *CategoryHandler) GetAll(c *gin.Context) {
	categories, err := h.categoryService.GetAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Update godoc
// @Summary      Rename a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path int true "Category ID"
// @Param        request body catalogapp.UpdateCategoryRequest true "Category update request"
// @Success      200 {object} catalogapp.CategoryResponse
// @Failure      400 {object} dto.ValidationErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	req, ok := middleware.ValidatedRequest[catalogapp.UpdateCategoryRequest](c)
	if !ok {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete godoc
// @Summary      Delete a category
// @Description  Products of the category are kept.
// @Tags         categories
// @Param        id path int true "Category ID"
// @Success      204
// @Failure      404
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	deleted, err := h.categoryService.Delete(c.Request.Context(), id)
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
