package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/service"
)

// MetricsHandler exposes the observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	started time.Time
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, started: time.Now()}
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports liveness with process uptime.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime_ms": time.Since(h.started).Milliseconds(),
	})
}
