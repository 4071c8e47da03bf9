package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/infrastructure/auth"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars!!",
		Expiration: expiration,
		Issuer:     "pokedex-test",
	})
}

type seenRequest struct {
	principal *auth.Principal
	token     string
}

// newAuthRouter returns a router whose handler records what OptionalAuth left on the context
func newAuthRouter(cfg AuthConfig, seen *seenRequest) *gin.Engine {
	router := gin.New()
	router.Use(OptionalAuth(cfg))
	router.POST("/api/graphql", func(c *gin.Context) {
		seen.principal, _ = auth.PrincipalFromContext(c.Request.Context())
		seen.token = auth.BearerTokenFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router
}

func doAuthRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/graphql", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error { return nil }
func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestOptionalAuth(t *testing.T) {
	jwtService := newTestJWTService(time.Hour)
	userID := uuid.New()
	issued, err := jwtService.GenerateToken(userID, "brock@pewter.gym")
	require.NoError(t, err)

	t.Run("valid token sets the principal", func(t *testing.T) {
		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService}, &seen)

		w := doAuthRequest(router, "Bearer "+issued.Token)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen.principal)
		assert.Equal(t, userID, seen.principal.UserID)
		assert.Equal(t, "brock@pewter.gym", seen.principal.Email)
		assert.Equal(t, issued.ID, seen.principal.TokenID)
		assert.Equal(t, issued.Token, seen.token)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService}, &seen)

		doAuthRequest(router, "bearer "+issued.Token)
		assert.NotNil(t, seen.principal)
	})

	t.Run("missing header is anonymous", func(t *testing.T) {
		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService}, &seen)

		w := doAuthRequest(router, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, seen.principal)
		assert.Empty(t, seen.token)
	})

	t.Run("non-bearer scheme is anonymous", func(t *testing.T) {
		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService}, &seen)

		doAuthRequest(router, "Basic dXNlcjpwYXNz")
		assert.Nil(t, seen.principal)
		assert.Empty(t, seen.token)
	})

	t.Run("garbage token is anonymous but kept for logout", func(t *testing.T) {
		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService}, &seen)

		w := doAuthRequest(router, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, seen.principal)
		assert.Equal(t, "not-a-jwt", seen.token)
	})

	t.Run("expired token is anonymous", func(t *testing.T) {
		expired, err := newTestJWTService(-time.Minute).GenerateToken(userID, "brock@pewter.gym")
		require.NoError(t, err)

		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService}, &seen)

		doAuthRequest(router, "Bearer "+expired.Token)
		assert.Nil(t, seen.principal)
	})

	t.Run("revoked token is anonymous", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), issued.ID, time.Hour))

		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService, TokenBlacklist: blacklist}, &seen)

		doAuthRequest(router, "Bearer "+issued.Token)
		assert.Nil(t, seen.principal)
	})

	t.Run("blacklist failure fails open", func(t *testing.T) {
		var seen seenRequest
		router := newAuthRouter(AuthConfig{JWTService: jwtService, TokenBlacklist: failingBlacklist{}}, &seen)

		doAuthRequest(router, "Bearer "+issued.Token)
		assert.NotNil(t, seen.principal)
	})
}
