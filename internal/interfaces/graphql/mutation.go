package graphql

import (
	"context"

	"github.com/google/uuid"
	gqlgo "github.com/graph-gophers/graphql-go"
	catalogapp "github.com/pokedex/backend/internal/application/catalog"
	identityapp "github.com/pokedex/backend/internal/application/identity"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/pokedex/backend/internal/infrastructure/auth"
	"github.com/pokedex/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

var errPokemonNotFound = shared.NewDomainError("NOT_FOUND", "Pokemon not found")

type credentialsInput struct {
	Email    string
	Password string
}

type statsInput struct {
	HP        *int32
	Attack    *int32
	Defense   *int32
	SpAttack  *int32
	SpDefense *int32
	Speed     *int32
}

func (s *statsInput) toDomain() *catalog.BaseStats {
	if s == nil {
		return nil
	}
	return &catalog.BaseStats{
		HP:        intPtr(s.HP),
		Attack:    intPtr(s.Attack),
		Defense:   intPtr(s.Defense),
		SpAttack:  intPtr(s.SpAttack),
		SpDefense: intPtr(s.SpDefense),
		Speed:     intPtr(s.Speed),
	}
}

type createPokemonInput struct {
	Name        string
	Height      float64
	Weight      float64
	Image       *string
	ImageShiny  *string
	Types       *[]string
	Abilities   *[]string
	BaseStats   *statsInput
	Description *string
	Species     *string
}

// updatePokemonInput uses NullString where an explicit null clears the
// stored value. A null list or stats object is treated as omitted.
type updatePokemonInput struct {
	ID          gqlgo.ID
	Name        *string
	Height      *float64
	Weight      *float64
	Image       gqlgo.NullString
	ImageShiny  gqlgo.NullString
	Types       *[]string
	Abilities   *[]string
	BaseStats   *statsInput
	Description gqlgo.NullString
	Species     gqlgo.NullString
}

func optionalString(v gqlgo.NullString) catalogapp.Optional[string] {
	return catalogapp.Optional[string]{Set: v.Set, Value: v.Value}
}

func optionalList(v *[]string) catalogapp.Optional[[]string] {
	if v == nil {
		return catalogapp.Optional[[]string]{}
	}
	return catalogapp.Some(*v)
}

func derefStrings(v *[]string) []string {
	if v == nil {
		return nil
	}
	return *v
}

// Register resolves account creation
func (r *Resolver) Register(ctx context.Context, args struct{ Input credentialsInput }) (*authPayloadResolver, error) {
	payload, err := r.auth.Register(ctx, identityapp.RegisterInput{
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, r.toGraphQLError(ctx, "register", err)
	}
	return &authPayloadResolver{p: payload}, nil
}

// Login resolves credential exchange for a token
func (r *Resolver) Login(ctx context.Context, args struct{ Input credentialsInput }) (*authPayloadResolver, error) {
	payload, err := r.auth.Login(ctx, identityapp.LoginInput{
		Email:    args.Input.Email,
		Password: args.Input.Password,
	})
	if err != nil {
		return nil, r.toGraphQLError(ctx, "login", err)
	}
	return &authPayloadResolver{p: payload}, nil
}

// Logout revokes the bearer token the request was sent with
func (r *Resolver) Logout(ctx context.Context) (bool, error) {
	token := auth.BearerTokenFromContext(ctx)
	if token == "" {
		return false, r.toGraphQLError(ctx, "logout", shared.ErrUnauthorized)
	}
	if err := r.auth.Logout(ctx, token); err != nil {
		return false, r.toGraphQLError(ctx, "logout", err)
	}
	return true, nil
}

// CreatePokemon resolves creation of a custom entry
func (r *Resolver) CreatePokemon(ctx context.Context, args struct{ Input createPokemonInput }) (*pokemonResolver, error) {
	in := args.Input
	p, err := r.pokemons.Create(ctx, auth.UserIDFromContext(ctx), catalogapp.CreatePokemonInput{
		Name:        in.Name,
		Height:      in.Height,
		Weight:      in.Weight,
		Image:       in.Image,
		ImageShiny:  in.ImageShiny,
		Types:       derefStrings(in.Types),
		Abilities:   derefStrings(in.Abilities),
		BaseStats:   in.BaseStats.toDomain(),
		Description: in.Description,
		Species:     in.Species,
	})
	if err != nil {
		return nil, r.toGraphQLError(ctx, "createPokemon", err)
	}
	telemetry.SetAttributes(trace.SpanFromContext(ctx),
		telemetry.SpanAttrPokemonID, p.ID.String(),
		telemetry.SpanAttrPokemonName, p.Name,
	)
	return newPokemonResolver(p), nil
}

// UpdatePokemon resolves a partial update of a custom entry
func (r *Resolver) UpdatePokemon(ctx context.Context, args struct{ Input updatePokemonInput }) (*pokemonResolver, error) {
	in := args.Input
	userID := auth.UserIDFromContext(ctx)
	id, err := parsePokemonID(userID, in.ID)
	if err != nil {
		return nil, r.toGraphQLError(ctx, "updatePokemon", err)
	}

	input := catalogapp.UpdatePokemonInput{
		ID:          id,
		Name:        in.Name,
		Height:      in.Height,
		Weight:      in.Weight,
		Image:       optionalString(in.Image),
		ImageShiny:  optionalString(in.ImageShiny),
		Types:       optionalList(in.Types),
		Abilities:   optionalList(in.Abilities),
		Description: optionalString(in.Description),
		Species:     optionalString(in.Species),
	}
	if in.BaseStats != nil {
		input.BaseStats = catalogapp.Some(*in.BaseStats.toDomain())
	}

	p, err := r.pokemons.Update(ctx, userID, input)
	if err != nil {
		return nil, r.toGraphQLError(ctx, "updatePokemon", err)
	}
	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrPokemonID, p.ID.String())
	return newPokemonResolver(p), nil
}

// DeletePokemon resolves removal of a custom entry
func (r *Resolver) DeletePokemon(ctx context.Context, args struct{ ID gqlgo.ID }) (bool, error) {
	userID := auth.UserIDFromContext(ctx)
	id, err := parsePokemonID(userID, args.ID)
	if err != nil {
		return false, r.toGraphQLError(ctx, "deletePokemon", err)
	}

	deleted, err := r.pokemons.Delete(ctx, userID, id)
	if err != nil {
		return false, r.toGraphQLError(ctx, "deletePokemon", err)
	}
	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrPokemonID, id.String())
	return deleted, nil
}

// parsePokemonID turns a malformed id into the same answer a missing entry
// gets, after the authentication check the service would have made first.
func parsePokemonID(userID uuid.UUID, raw gqlgo.ID) (uuid.UUID, error) {
	id, err := uuid.Parse(string(raw))
	if err == nil {
		return id, nil
	}
	if userID == uuid.Nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return uuid.Nil, errPokemonNotFound
}
