package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pokedex/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count and latency by route pattern.
// Unmatched routes share one label so scans cannot blow up cardinality.
func HTTPMetrics(metrics *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
