package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin middleware, or a pass-through when disabled.
// Span names follow "METHOD route", e.g. "POST /api/graphql".
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// TraceAttributes copies the request ID onto the server span before the handler
// runs and the user ID after authentication has run.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if requestID := c.GetString("request_id"); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}

		c.Next()

		if userID := c.GetString(UserIDKey); userID != "" {
			span.SetAttributes(attribute.String("user_id", userID))
		}
	}
}
