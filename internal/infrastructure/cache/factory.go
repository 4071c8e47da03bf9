package cache

import (
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// FactoryOption configures NewPokemonCache
type FactoryOption func(*factoryOptions)

type factoryOptions struct {
	logger   *zap.Logger
	client   redis.UniversalClient
	recorder LookupRecorder
}

// WithLogger sets the logger used to report the selected backend
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(o *factoryOptions) {
		o.logger = logger
	}
}

// WithRedisClient supplies a connected Redis client.
// Without one the cache falls back to memory.
func WithRedisClient(client redis.UniversalClient) FactoryOption {
	return func(o *factoryOptions) {
		o.client = client
	}
}

// WithLookupRecorder counts hits and misses of the selected backend
func WithLookupRecorder(recorder LookupRecorder) FactoryOption {
	return func(o *factoryOptions) {
		o.recorder = recorder
	}
}

// NewPokemonCache selects a cache backend:
//   - caching disabled: NoopPokemonCache
//   - Redis client available: RedisPokemonCache
//   - otherwise: InMemoryPokemonCache
//
// The returned close func releases background resources and is never nil.
func NewPokemonCache(cfg config.CacheConfig, opts ...FactoryOption) (catalog.PokemonCache, func() error) {
	o := &factoryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	if !cfg.Enabled {
		o.logger.Info("Pokemon cache disabled")
		return NoopPokemonCache{}, func() error { return nil }
	}

	if o.client != nil {
		o.logger.Info("Using Redis pokemon cache", zap.Duration("ttl", cfg.TTL))
		return o.instrument(NewRedisPokemonCache(o.client)), func() error { return nil }
	}

	o.logger.Info("Using in-memory pokemon cache", zap.Duration("ttl", cfg.TTL))
	c := NewInMemoryPokemonCache()
	return o.instrument(c), c.Close
}

func (o *factoryOptions) instrument(c catalog.PokemonCache) catalog.PokemonCache {
	if o.recorder == nil {
		return c
	}
	return NewInstrumentedPokemonCache(c, o.recorder)
}
