package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupSpanRecorder(t)

	router := gin.New()
	router.Use(Tracing("pokedex-test", false))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_WithAttributes(t *testing.T) {
	sr := setupSpanRecorder(t)

	router := gin.New()
	router.Use(RequestID(), Tracing("pokedex-test", true), TraceAttributes())
	router.POST("/api/graphql", func(c *gin.Context) {
		c.Set(UserIDKey, "user-42")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/graphql", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "POST /api/graphql", ended[0].Name())

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "req-1", attrs["request_id"])
	assert.Equal(t, "user-42", attrs["user_id"])
}
