package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pokedex/backend/internal/infrastructure/auth"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Header names and gin keys used by OptionalAuth
const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
	UserIDKey     = "user_id"
)

// AuthConfig holds the dependencies of OptionalAuth
type AuthConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is optional; lookups fail open
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// OptionalAuth resolves the bearer token into a Principal on the request
// context. It never rejects: a missing, malformed, expired or revoked token
// leaves the request anonymous and resolvers decide what needs a user.
func OptionalAuth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader(AuthHeaderKey))
		if token == "" {
			c.Next()
			return
		}

		ctx := auth.WithBearerToken(c.Request.Context(), token)
		c.Request = c.Request.WithContext(ctx)

		claims, err := cfg.JWTService.ValidateToken(token)
		if err != nil {
			log.Debug("Ignoring bearer token", zap.Error(err))
			c.Next()
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
			if err != nil {
				log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				log.Debug("Ignoring revoked bearer token", zap.String("jti", claims.ID))
				c.Next()
				return
			}
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			c.Next()
			return
		}

		ctx = auth.WithPrincipal(ctx, &auth.Principal{
			UserID:  userID,
			Email:   claims.Email,
			TokenID: claims.ID,
		})
		ctx, _ = logger.WithUser(ctx, logger.FromContext(ctx), claims.UserID, claims.Email, claims.ID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(UserIDKey, claims.UserID)

		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value
func bearerToken(header string) string {
	if len(header) < len(BearerPrefix) || !strings.EqualFold(header[:len(BearerPrefix)], BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(BearerPrefix):])
}
