package cache

import (
	"context"
	"time"

	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/infrastructure/telemetry"
)

// LookupRecorder receives one result per cache read
type LookupRecorder interface {
	ObserveCacheLookup(result string)
}

// InstrumentedPokemonCache reports hit, miss and error counts for an inner cache
type InstrumentedPokemonCache struct {
	inner    catalog.PokemonCache
	recorder LookupRecorder
}

// NewInstrumentedPokemonCache wraps inner so every Get is recorded
func NewInstrumentedPokemonCache(inner catalog.PokemonCache, recorder LookupRecorder) *InstrumentedPokemonCache {
	return &InstrumentedPokemonCache{inner: inner, recorder: recorder}
}

func (c *InstrumentedPokemonCache) Get(ctx context.Context, name string) (*catalog.Pokemon, error) {
	pokemon, err := c.inner.Get(ctx, name)
	switch {
	case err != nil:
		c.recorder.ObserveCacheLookup(telemetry.CacheResultError)
	case pokemon == nil:
		c.recorder.ObserveCacheLookup(telemetry.CacheResultMiss)
	default:
		c.recorder.ObserveCacheLookup(telemetry.CacheResultHit)
	}
	return pokemon, err
}

func (c *InstrumentedPokemonCache) Set(ctx context.Context, pokemon *catalog.Pokemon, ttl time.Duration) error {
	return c.inner.Set(ctx, pokemon, ttl)
}

func (c *InstrumentedPokemonCache) Delete(ctx context.Context, names ...string) error {
	return c.inner.Delete(ctx, names...)
}

var _ catalog.PokemonCache = (*InstrumentedPokemonCache)(nil)
