package middleware

import (
	"time"

	"go-erp/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records latency and status per route template. Unmatched routes
// are grouped under "unmatched" to keep label cardinality bounded.
func Metrics(m *metrics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
