package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wellness-advisor-server/internal/metrics"
)

// RequestMetrics records request counts and latency per route template.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
