package handler

import (
	"net/http"
	"strconv"

	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities. Failures are recorded on
// the gin context and rendered by the error translator middleware.
type BaseHandler struct{}

// Success sends a 200 response with data as the body
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response pointing at the new resource
func (h *BaseHandler) Created(c *gin.Context, location string, data any) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NotFound sends a 404 response without a body
func (h *BaseHandler) NotFound(c *gin.Context) {
	c.Status(http.StatusNotFound)
}

// HandleError hands err to the error translator
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

// intParam parses the named path parameter as an integer
func intParam(c *gin.Context, name string) (int, error) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, shared.InvalidArgument(name, "must be an integer")
	}
	return value, nil
}

// uuidParam parses the named path parameter as a UUID
func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, shared.InvalidArgument(name, "must be a valid identifier")
	}
	return value, nil
}

// resourcePath joins the request path with the id of a created resource
func resourcePath(c *gin.Context, id string) string {
	return c.Request.URL.Path + "/" + id
}
