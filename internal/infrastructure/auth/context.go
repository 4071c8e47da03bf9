package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey struct{ name string }

var (
	principalKey   = contextKey{"principal"}
	bearerTokenKey = contextKey{"bearer_token"}
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID  uuid.UUID
	Email   string
	TokenID string
}

// WithPrincipal attaches an authenticated caller to ctx
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the caller, or false for anonymous requests
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// UserIDFromContext returns the caller's ID, or uuid.Nil when anonymous
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if p, ok := PrincipalFromContext(ctx); ok {
		return p.UserID
	}
	return uuid.Nil
}

// WithBearerToken keeps the raw bearer token, valid or not, for logout
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey, token)
}

// BearerTokenFromContext returns the raw bearer token, or ""
func BearerTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey).(string)
	return token
}
