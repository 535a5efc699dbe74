package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/ecommerce/product-service/internal/infrastructure/logger"
	"github.com/ecommerce/product-service/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	startTime time.Time
	checks    map[string]HealthCheck
	now       func() time.Time
}

// NewSystemHandler creates a new SystemHandler probing checks on every
// health request
func NewSystemHandler(checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		checks:    checks,
		now:       time.Now,
	}
}

// Health godoc
// @Summary      Service health
// @Description  Reports uptime and the reachability of every dependency
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Failure      503 {object} dto.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{
		Status:    dto.HealthStatusUp,
		Checks:    make(map[string]string, len(names)),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: h.now().UTC(),
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed",
				zap.String("check", name),
				zap.Error(err),
			)
			resp.Checks[name] = dto.HealthStatusDown
			resp.Status = dto.HealthStatusDown
			continue
		}
		resp.Checks[name] = dto.HealthStatusUp
	}

	status := http.StatusOK
	if resp.Status == dto.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
