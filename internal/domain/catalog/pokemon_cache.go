package catalog

import (
	"context"
	"time"
)

// PokemonCache holds single-entry lookups by name.
// A miss returns (nil, nil).
type PokemonCache interface {
	Get(ctx context.Context, name string) (*Pokemon, error)
	Set(ctx context.Context, pokemon *Pokemon, ttl time.Duration) error
	Delete(ctx context.Context, names ...string) error
}
