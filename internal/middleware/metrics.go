package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodtrackhq/prodtrack-api/internal/service"
)

// Metrics records request duration and count per route. The scrape endpoint
// itself is excluded to keep the histogram meaningful.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		metricsSvc.ObserveHTTPRequest(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}

// routeLabel prefers the route template so path parameters do not explode
// label cardinality.
func routeLabel(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return c.Request.URL.Path
}
