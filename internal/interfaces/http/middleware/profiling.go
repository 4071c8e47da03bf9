package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pokedex/backend/internal/infrastructure/telemetry"
)

// ProfilingLabels tags CPU samples taken while serving a request with its
// route and method so Pyroscope can split profiles per endpoint.
func ProfilingLabels(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := map[string]string{
			"route":  route,
			"method": c.Request.Method,
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
