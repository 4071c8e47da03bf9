package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	_, ok := PrincipalFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, UserIDFromContext(ctx))

	id := uuid.New()
	ctx = WithPrincipal(ctx, &Principal{UserID: id, Email: "misty@cerulean.gym", TokenID: "jti-1"})

	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "misty@cerulean.gym", p.Email)
	assert.Equal(t, id, UserIDFromContext(ctx))
}

func TestPrincipalContext_NilPrincipal(t *testing.T) {
	ctx := WithPrincipal(context.Background(), nil)
	_, ok := PrincipalFromContext(ctx)
	assert.False(t, ok)
}

func TestBearerTokenContext(t *testing.T) {
	assert.Empty(t, BearerTokenFromContext(context.Background()))
	ctx := WithBearerToken(context.Background(), "abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", BearerTokenFromContext(ctx))
}
