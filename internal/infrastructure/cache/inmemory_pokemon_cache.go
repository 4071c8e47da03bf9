package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pokedex/backend/internal/domain/catalog"
)

type entry struct {
	pokemon   catalog.Pokemon
	expiresAt time.Time
}

// InMemoryPokemonCache implements PokemonCache using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryPokemonCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryPokemonCache creates a new in-memory cache.
// It starts a background goroutine that purges expired entries; call Close to stop it.
func NewInMemoryPokemonCache() *InMemoryPokemonCache {
	c := &InMemoryPokemonCache{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a copy of the cached entry, or nil on a miss
func (c *InMemoryPokemonCache) Get(_ context.Context, name string) (*catalog.Pokemon, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[name]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, nil
	}
	p := clonePokemon(e.pokemon)
	return &p, nil
}

// Set stores a copy of the entry
func (c *InMemoryPokemonCache) Set(_ context.Context, pokemon *catalog.Pokemon, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[pokemon.Name] = entry{
		pokemon:   clonePokemon(*pokemon),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete evicts entries by name
func (c *InMemoryPokemonCache) Delete(_ context.Context, names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range names {
		delete(c.entries, n)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryPokemonCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine
func (c *InMemoryPokemonCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
	return nil
}

func (c *InMemoryPokemonCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.purgeExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryPokemonCache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for name, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, name)
		}
	}
}

// clonePokemon copies the slices so callers cannot mutate cached state
func clonePokemon(p catalog.Pokemon) catalog.Pokemon {
	p.Types = append([]string{}, p.Types...)
	p.Abilities = append([]string{}, p.Abilities...)
	if p.BaseStats != nil {
		stats := *p.BaseStats
		p.BaseStats = &stats
	}
	return p
}

var _ catalog.PokemonCache = (*InMemoryPokemonCache)(nil)
