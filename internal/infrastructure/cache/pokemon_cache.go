package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
)

const pokemonKeyPrefix = "pokedex:pokemon:name:"

// cachedPokemon is the wire form of a cached entry
type cachedPokemon struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	PokedexID       *int               `json:"pokedexId,omitempty"`
	Height          float64            `json:"height"`
	Weight          float64            `json:"weight"`
	Image           *string            `json:"image,omitempty"`
	ImageShiny      *string            `json:"imageShiny,omitempty"`
	Types           []string           `json:"types"`
	Abilities       []string           `json:"abilities"`
	BaseStats       *catalog.BaseStats `json:"baseStats,omitempty"`
	Description     *string            `json:"description,omitempty"`
	Species         *string            `json:"species,omitempty"`
	IsCustom        bool               `json:"isCustom"`
	CreatedByUserID *uuid.UUID         `json:"createdByUserId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

func toCached(p *catalog.Pokemon) cachedPokemon {
	return cachedPokemon{
		ID:              p.ID,
		Name:            p.Name,
		PokedexID:       p.PokedexID,
		Height:          p.Height,
		Weight:          p.Weight,
		Image:           p.Image,
		ImageShiny:      p.ImageShiny,
		Types:           p.Types,
		Abilities:       p.Abilities,
		BaseStats:       p.BaseStats,
		Description:     p.Description,
		Species:         p.Species,
		IsCustom:        p.IsCustom,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (c cachedPokemon) toDomain() *catalog.Pokemon {
	return catalog.Reconstruct(c.ID, c.CreatedAt, c.UpdatedAt, catalog.Pokemon{
		Name:            c.Name,
		PokedexID:       c.PokedexID,
		Height:          c.Height,
		Weight:          c.Weight,
		Image:           c.Image,
		ImageShiny:      c.ImageShiny,
		Types:           c.Types,
		Abilities:       c.Abilities,
		BaseStats:       c.BaseStats,
		Description:     c.Description,
		Species:         c.Species,
		IsCustom:        c.IsCustom,
		CreatedByUserID: c.CreatedByUserID,
	})
}

// RedisPokemonCache implements PokemonCache using Redis.
// Entries are shared across server instances.
type RedisPokemonCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisPokemonCache creates a cache on top of an existing Redis client
func NewRedisPokemonCache(client redis.UniversalClient) *RedisPokemonCache {
	return &RedisPokemonCache{
		client:    client,
		keyPrefix: pokemonKeyPrefix,
	}
}

// Get returns the cached entry, or nil on a miss
func (c *RedisPokemonCache) Get(ctx context.Context, name string) (*catalog.Pokemon, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached pokemon: %w", err)
	}

	var cached cachedPokemon
	if err := json.Unmarshal(data, &cached); err != nil {
		// a corrupt entry behaves like a miss and is dropped
		_ = c.client.Del(ctx, c.keyPrefix+name).Err()
		return nil, nil
	}
	return cached.toDomain(), nil
}

// Set stores an entry under its name
func (c *RedisPokemonCache) Set(ctx context.Context, pokemon *catalog.Pokemon, ttl time.Duration) error {
	data, err := json.Marshal(toCached(pokemon))
	if err != nil {
		return fmt.Errorf("failed to encode pokemon for cache: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+pokemon.Name, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache pokemon: %w", err)
	}
	return nil
}

// Delete evicts entries by name
func (c *RedisPokemonCache) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = c.keyPrefix + n
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to evict cached pokemon: %w", err)
	}
	return nil
}

var _ catalog.PokemonCache = (*RedisPokemonCache)(nil)
