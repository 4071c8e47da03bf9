package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// newBodyLimitEngine mounts an echo endpoint that reports how much of the
// body it managed to read
func newBodyLimitEngine(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodyLimit(limit))
	echo := func(c *gin.Context) {
		if c.Request.Body == nil {
			c.String(http.StatusOK, "0")
			return
		}
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusBadRequest, "truncated")
			return
		}
		c.String(http.StatusOK, "%d", len(data))
	}
	engine.POST("/api/graphql", echo)
	engine.GET("/api/graphql", echo)
	return engine
}

func TestBodyLimit(t *testing.T) {
	query := `{"query":"{ pokemons { pokemons { name } } }"}`

	tests := []struct {
		name     string
		limit    int64
		method   string
		body     string
		length   int64
		wantCode int
		wantBody string
	}{
		{
			name:     "query within the limit",
			limit:    1024,
			method:   http.MethodPost,
			body:     query,
			length:   int64(len(query)),
			wantCode: http.StatusOK,
			wantBody: "46",
		},
		{
			name:     "declared length over the limit",
			limit:    16,
			method:   http.MethodPost,
			body:     query,
			length:   int64(len(query)),
			wantCode: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "undeclared length is capped while reading",
			limit:    16,
			method:   http.MethodPost,
			body:     query,
			length:   -1,
			wantCode: http.StatusBadRequest,
			wantBody: "truncated",
		},
		{
			name:     "zero disables the limit",
			limit:    0,
			method:   http.MethodPost,
			body:     strings.Repeat("x", 4096),
			length:   4096,
			wantCode: http.StatusOK,
			wantBody: "4096",
		},
		{
			name:     "GET without a body",
			limit:    8,
			method:   http.MethodGet,
			wantCode: http.StatusOK,
			wantBody: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, "/api/graphql", body)
			if tt.body != "" {
				req.ContentLength = tt.length
			}
			w := httptest.NewRecorder()

			newBodyLimitEngine(tt.limit).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestBodyLimit_RejectionEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/graphql", strings.NewReader(strings.Repeat("x", 200)))
	w := httptest.NewRecorder()

	newBodyLimitEngine(100).ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"REQUEST_TOO_LARGE","message":"Request body exceeds maximum allowed size"}}`, w.Body.String())
}
