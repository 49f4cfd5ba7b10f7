package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edulearn-api/internal/service"
)

const (
	// unmatchedRoute labels requests that hit no registered route, keeping
	// scanner noise from minting one series per URL.
	unmatchedRoute  = "unmatched"
	metricsEndpoint = "/public/metrics"
)

// Metrics observes every request under its route template. Scrapes of the
// metrics endpoint itself are not counted.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || strings.HasSuffix(c.Request.URL.Path, metricsEndpoint) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
