package cache

import (
	"context"
	"time"

	"github.com/pokedex/backend/internal/domain/catalog"
)

// NoopPokemonCache never stores anything. Used when caching is disabled.
type NoopPokemonCache struct{}

func (NoopPokemonCache) Get(context.Context, string) (*catalog.Pokemon, error) { return nil, nil }

func (NoopPokemonCache) Set(context.Context, *catalog.Pokemon, time.Duration) error { return nil }

func (NoopPokemonCache) Delete(context.Context, ...string) error { return nil }

var _ catalog.PokemonCache = NoopPokemonCache{}
