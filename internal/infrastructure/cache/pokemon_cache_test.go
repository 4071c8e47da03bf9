package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCharizard(t *testing.T) *catalog.Pokemon {
	t.Helper()
	p, err := catalog.NewOfficialPokemon("Charizard", 6, 1.7, 90.5)
	require.NoError(t, err)
	require.NoError(t, p.SetTypes([]string{"Fire", "Flying"}))
	p.SetAbilities([]string{"Blaze", "Solar Power"})
	hp, speed := 78, 100
	require.NoError(t, p.SetBaseStats(&catalog.BaseStats{HP: &hp, Speed: &speed}))
	return p
}

func newTestRedisCache(t *testing.T) (*RedisPokemonCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPokemonCache(client), mr
}

func TestRedisPokemonCache_RoundTrip(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()
	p := newCharizard(t)

	require.NoError(t, c.Set(ctx, p, 10*time.Minute))
	assert.Equal(t, 10*time.Minute, mr.TTL(pokemonKeyPrefix+"Charizard"))

	got, err := c.Get(ctx, "Charizard")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, []string{"Fire", "Flying"}, got.Types)
	assert.Equal(t, []string{"Blaze", "Solar Power"}, got.Abilities)
	assert.Equal(t, 6, *got.PokedexID)
	assert.Equal(t, 78, *got.BaseStats.HP)
	assert.Nil(t, got.BaseStats.Attack)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestRedisPokemonCache_MissAndExpiry(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "Missingno")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, newCharizard(t), time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err = c.Get(ctx, "Charizard")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisPokemonCache_CorruptEntryIsDropped(t *testing.T) {
	c, mr := newTestRedisCache(t)
	require.NoError(t, mr.Set(pokemonKeyPrefix+"Charizard", "{not json"))

	got, err := c.Get(context.Background(), "Charizard")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(pokemonKeyPrefix+"Charizard"))
}

func TestRedisPokemonCache_Delete(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, newCharizard(t), time.Minute))
	require.NoError(t, c.Delete(ctx))
	require.NoError(t, c.Delete(ctx, "Charizard", "Charmander"))
	assert.False(t, mr.Exists(pokemonKeyPrefix+"Charizard"))
}

func TestRedisPokemonCache_ConnectionError(t *testing.T) {
	c, mr := newTestRedisCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "Charizard")
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), newCharizard(t), time.Minute))
}

func TestInMemoryPokemonCache(t *testing.T) {
	c := NewInMemoryPokemonCache()
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	p := newCharizard(t)
	require.NoError(t, c.Set(ctx, p, time.Minute))

	t.Run("returns a copy", func(t *testing.T) {
		got, err := c.Get(ctx, "Charizard")
		require.NoError(t, err)
		require.NotNil(t, got)
		got.Types[0] = "Water"

		again, err := c.Get(ctx, "Charizard")
		require.NoError(t, err)
		assert.Equal(t, "Fire", again.Types[0])
	})

	t.Run("non-positive ttl is ignored", func(t *testing.T) {
		other, err := catalog.NewCustomPokemon(uuid.New(), "Pikachu Libre", 152, 0.4, 6)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, other, 0))
		got, err := c.Get(ctx, "Pikachu Libre")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired entries miss and are purged", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		got, err := c.Get(ctx, "Charizard")
		require.NoError(t, err)
		assert.Nil(t, got)

		c.purgeExpired()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, p, time.Minute))
		require.NoError(t, c.Delete(ctx, "Charizard"))
		assert.Equal(t, 0, c.Len())
	})

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestNewPokemonCache(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c, closeFn := NewPokemonCache(config.CacheConfig{Enabled: false})
		defer closeFn()
		assert.IsType(t, NoopPokemonCache{}, c)

		require.NoError(t, c.Set(context.Background(), newCharizard(t), time.Minute))
		got, err := c.Get(context.Background(), "Charizard")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("redis when a client is given", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		c, closeFn := NewPokemonCache(config.CacheConfig{Enabled: true, TTL: time.Minute}, WithRedisClient(client))
		defer closeFn()
		assert.IsType(t, &RedisPokemonCache{}, c)
	})

	t.Run("memory fallback", func(t *testing.T) {
		c, closeFn := NewPokemonCache(config.CacheConfig{Enabled: true, TTL: time.Minute})
		assert.IsType(t, &InMemoryPokemonCache{}, c)
		require.NoError(t, closeFn())
	})
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	port := mr.Server().Addr().Port

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(context.Background(), config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
}

type recordedLookups []string

func (r *recordedLookups) ObserveCacheLookup(result string) {
	*r = append(*r, result)
}

func TestInstrumentedPokemonCache(t *testing.T) {
	ctx := context.Background()
	inner, mr := newTestRedisCache(t)
	var lookups recordedLookups
	c := NewInstrumentedPokemonCache(inner, &lookups)

	got, err := c.Get(ctx, "Charizard")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, newCharizard(t), time.Minute))
	got, err = c.Get(ctx, "Charizard")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, c.Delete(ctx, "Charizard"))
	assert.False(t, mr.Exists(pokemonKeyPrefix+"Charizard"))

	mr.SetError("server down")
	_, err = c.Get(ctx, "Charizard")
	require.Error(t, err)

	assert.Equal(t, recordedLookups{"miss", "hit", "error"}, lookups)
}

func TestNewPokemonCache_WithLookupRecorder(t *testing.T) {
	var lookups recordedLookups
	c, closeFn := NewPokemonCache(config.CacheConfig{Enabled: true, TTL: time.Minute}, WithLookupRecorder(&lookups))
	defer closeFn()
	assert.IsType(t, &InstrumentedPokemonCache{}, c)

	_, err := c.Get(context.Background(), "Mew")
	require.NoError(t, err)
	assert.Equal(t, recordedLookups{"miss"}, lookups)
}
