package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecommerce/product-service/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *SystemHandler) (*httptest.ResponseRecorder, dto.HealthResponse) {
	t.Helper()
	engine := gin.New()
	engine.GET("/health", h.Health)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler(nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Health(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 11, 30, 0, 0, time.UTC)

	t.Run("reports up when every check passes", func(t *testing.T) {
		h := NewSystemHandler(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
		})
		h.now = func() time.Time { return fixed }

		w, resp := serveHealth(t, h)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, dto.HealthStatusUp, resp.Status)
		assert.Equal(t, map[string]string{"database": "up"}, resp.Checks)
		assert.NotEmpty(t, resp.Uptime)
		assert.True(t, fixed.Equal(resp.Timestamp))
	})

	t.Run("reports down when a check fails", func(t *testing.T) {
		h := NewSystemHandler(map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"cache":    func(context.Context) error { return errors.New("connection refused") },
		})

		w, resp := serveHealth(t, h)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.HealthStatusDown, resp.Status)
		assert.Equal(t, "up", resp.Checks["database"])
		assert.Equal(t, "down", resp.Checks["cache"])
	})

	t.Run("bounds each check with a deadline", func(t *testing.T) {
		var hasDeadline bool
		h := NewSystemHandler(map[string]HealthCheck{
			"database": func(ctx context.Context) error {
				_, hasDeadline = ctx.Deadline()
				return nil
			},
		})

		serveHealth(t, h)

		assert.True(t, hasDeadline)
	})
}
