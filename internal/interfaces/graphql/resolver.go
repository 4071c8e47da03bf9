package graphql

import (
	"context"

	"github.com/google/uuid"
	catalogapp "github.com/pokedex/backend/internal/application/catalog"
	identityapp "github.com/pokedex/backend/internal/application/identity"
	"github.com/pokedex/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PokemonService is the catalog use-case surface the resolvers need
type PokemonService interface {
	List(ctx context.Context, input catalogapp.ListPokemonInput) (shared.Paginated[catalogapp.PokemonDTO], error)
	Get(ctx context.Context, input catalogapp.GetPokemonInput) (*catalogapp.PokemonDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input catalogapp.CreatePokemonInput) (*catalogapp.PokemonDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input catalogapp.UpdatePokemonInput) (*catalogapp.PokemonDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, error)
	Neighbors(ctx context.Context, pokedexID int) (catalogapp.PokemonNeighbors, error)
	Weaknesses(types []string) []string
	Presets() catalogapp.FilterPresets
}

// AuthService is the account use-case surface the resolvers need
type AuthService interface {
	Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.AuthPayload, error)
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthPayload, error)
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserInfo, error)
	Logout(ctx context.Context, tokenString string) error
}

// Resolver is the root resolver for both Query and Mutation
type Resolver struct {
	pokemons PokemonService
	auth     AuthService
	logger   *zap.Logger
}

// NewResolver creates a new root resolver
func NewResolver(pokemons PokemonService, auth AuthService, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		pokemons: pokemons,
		auth:     auth,
		logger:   logger,
	}
}

var (
	_ PokemonService = (*catalogapp.PokemonService)(nil)
	_ AuthService    = (*identityapp.AuthService)(nil)
)
