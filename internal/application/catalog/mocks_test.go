package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/stretchr/testify/mock"
)

// MockPokemonRepository is a mock implementation of catalog.PokemonRepository
type MockPokemonRepository struct {
	mock.Mock
}

func (m *MockPokemonRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Pokemon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Pokemon), args.Error(1)
}

func (m *MockPokemonRepository) FindByName(ctx context.Context, name string) (*catalog.Pokemon, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Pokemon), args.Error(1)
}

func (m *MockPokemonRepository) FindByPokedexID(ctx context.Context, pokedexID int) (*catalog.Pokemon, error) {
	args := m.Called(ctx, pokedexID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Pokemon), args.Error(1)
}

func (m *MockPokemonRepository) FindNeighbors(ctx context.Context, pokedexID int) (*catalog.Pokemon, *catalog.Pokemon, error) {
	args := m.Called(ctx, pokedexID)
	var prev, next *catalog.Pokemon
	if v := args.Get(0); v != nil {
		prev = v.(*catalog.Pokemon)
	}
	if v := args.Get(1); v != nil {
		next = v.(*catalog.Pokemon)
	}
	return prev, next, args.Error(2)
}

func (m *MockPokemonRepository) List(ctx context.Context, filter catalog.PokemonFilter, sort catalog.PokemonSort, offset, limit int) ([]catalog.Pokemon, int64, error) {
	args := m.Called(ctx, filter, sort, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]catalog.Pokemon), args.Get(1).(int64), args.Error(2)
}

func (m *MockPokemonRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockPokemonRepository) MaxPokedexID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPokemonRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPokemonRepository) Create(ctx context.Context, pokemon *catalog.Pokemon) error {
	args := m.Called(ctx, pokemon)
	return args.Error(0)
}

func (m *MockPokemonRepository) Update(ctx context.Context, pokemon *catalog.Pokemon) error {
	args := m.Called(ctx, pokemon)
	return args.Error(0)
}

func (m *MockPokemonRepository) Upsert(ctx context.Context, pokemon *catalog.Pokemon) error {
	args := m.Called(ctx, pokemon)
	return args.Error(0)
}

func (m *MockPokemonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPokemonCache is a mock implementation of catalog.PokemonCache
type MockPokemonCache struct {
	mock.Mock
}

func (m *MockPokemonCache) Get(ctx context.Context, name string) (*catalog.Pokemon, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Pokemon), args.Error(1)
}

func (m *MockPokemonCache) Set(ctx context.Context, pokemon *catalog.Pokemon, ttl time.Duration) error {
	args := m.Called(ctx, pokemon, ttl)
	return args.Error(0)
}

func (m *MockPokemonCache) Delete(ctx context.Context, names ...string) error {
	args := m.Called(ctx, names)
	return args.Error(0)
}
