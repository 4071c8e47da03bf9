package graphql

import (
	"context"

	"github.com/google/uuid"
	catalogapp "github.com/pokedex/backend/internal/application/catalog"
	identityapp "github.com/pokedex/backend/internal/application/identity"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPokemonService is a mock implementation of PokemonService
type MockPokemonService struct {
	mock.Mock
}

func (m *MockPokemonService) List(ctx context.Context, input catalogapp.ListPokemonInput) (shared.Paginated[catalogapp.PokemonDTO], error) {
	args := m.Called(ctx, input)
	return args.Get(0).(shared.Paginated[catalogapp.PokemonDTO]), args.Error(1)
}

func (m *MockPokemonService) Get(ctx context.Context, input catalogapp.GetPokemonInput) (*catalogapp.PokemonDTO, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PokemonDTO), args.Error(1)
}

func (m *MockPokemonService) Create(ctx context.Context, userID uuid.UUID, input catalogapp.CreatePokemonInput) (*catalogapp.PokemonDTO, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PokemonDTO), args.Error(1)
}

func (m *MockPokemonService) Update(ctx context.Context, userID uuid.UUID, input catalogapp.UpdatePokemonInput) (*catalogapp.PokemonDTO, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.PokemonDTO), args.Error(1)
}

func (m *MockPokemonService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPokemonService) Neighbors(ctx context.Context, pokedexID int) (catalogapp.PokemonNeighbors, error) {
	args := m.Called(ctx, pokedexID)
	return args.Get(0).(catalogapp.PokemonNeighbors), args.Error(1)
}

func (m *MockPokemonService) Weaknesses(types []string) []string {
	args := m.Called(types)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockPokemonService) Presets() catalogapp.FilterPresets {
	args := m.Called()
	return args.Get(0).(catalogapp.FilterPresets)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.AuthPayload, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AuthPayload), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthPayload, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.AuthPayload), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.UserInfo), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, tokenString string) error {
	args := m.Called(ctx, tokenString)
	return args.Error(0)
}
