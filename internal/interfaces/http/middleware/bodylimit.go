package middleware

import (
	"net/http"

	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects request bodies larger than maxBytes. Declared oversize
// bodies are refused up front; streamed ones fail while decoding.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			_ = c.Error(shared.BadRequest("The request body exceeds the maximum allowed size."))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
