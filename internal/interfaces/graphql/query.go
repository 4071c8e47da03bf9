package graphql

import (
	"context"

	gqlgo "github.com/graph-gophers/graphql-go"
	catalogapp "github.com/pokedex/backend/internal/application/catalog"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/infrastructure/auth"
)

type sortInput struct {
	Field     string
	Direction string
}

type filterInput struct {
	Name         *string
	HeightMin    *float64
	HeightMax    *float64
	WeightMin    *float64
	WeightMax    *float64
	Types        *[]string
	Weaknesses   *[]string
	PokedexIDMin *int32
	PokedexIDMax *int32
	Ability      *string
}

func (f *filterInput) toDomain() catalog.PokemonFilter {
	if f == nil {
		return catalog.PokemonFilter{}
	}
	filter := catalog.PokemonFilter{
		Name:         f.Name,
		HeightMin:    f.HeightMin,
		HeightMax:    f.HeightMax,
		WeightMin:    f.WeightMin,
		WeightMax:    f.WeightMax,
		PokedexIDMin: intPtr(f.PokedexIDMin),
		PokedexIDMax: intPtr(f.PokedexIDMax),
		Ability:      f.Ability,
	}
	if f.Types != nil {
		filter.Types = *f.Types
	}
	if f.Weaknesses != nil {
		filter.Weaknesses = *f.Weaknesses
	}
	return filter
}

type pokemonsArgs struct {
	Page     int32
	PageSize int32
	Sort     *sortInput
	Filter   *filterInput
}

// Pokemons resolves a filtered, sorted page of the catalog
func (r *Resolver) Pokemons(ctx context.Context, args pokemonsArgs) (*pokemonConnectionResolver, error) {
	input := catalogapp.ListPokemonInput{
		Page:     int(args.Page),
		PageSize: intPtr(&args.PageSize),
		Filter:   args.Filter.toDomain(),
	}
	if args.Sort != nil {
		input.Sort = &catalog.PokemonSort{
			Field:     catalog.SortField(args.Sort.Field),
			Direction: catalog.SortDirection(args.Sort.Direction),
		}
	}

	result, err := r.pokemons.List(ctx, input)
	if err != nil {
		return nil, r.toGraphQLError(ctx, "pokemons", err)
	}
	return &pokemonConnectionResolver{result: result}, nil
}

type pokemonArgs struct {
	ID        *gqlgo.ID
	PokedexID *int32
	Name      *string
}

// Pokemon resolves a single entry by name, pokedex number or id
func (r *Resolver) Pokemon(ctx context.Context, args pokemonArgs) (*pokemonResolver, error) {
	input := catalogapp.GetPokemonInput{
		PokedexID: intPtr(args.PokedexID),
		Name:      args.Name,
	}
	if args.ID != nil {
		id := string(*args.ID)
		input.ID = &id
	}

	p, err := r.pokemons.Get(ctx, input)
	if err != nil {
		return nil, r.toGraphQLError(ctx, "pokemon", err)
	}
	return newPokemonResolver(p), nil
}

// PokemonNeighbors resolves the entries around a pokedex number
func (r *Resolver) PokemonNeighbors(ctx context.Context, args struct{ PokedexID int32 }) (*neighborsResolver, error) {
	n, err := r.pokemons.Neighbors(ctx, int(args.PokedexID))
	if err != nil {
		return nil, r.toGraphQLError(ctx, "pokemonNeighbors", err)
	}
	return &neighborsResolver{n: n}, nil
}

// Weaknesses resolves the combined weaknesses of a type combination
func (r *Resolver) Weaknesses(args struct{ Types []string }) []string {
	return nonNilStrings(r.pokemons.Weaknesses(args.Types))
}

// FilterPresets resolves the search UI presets
func (r *Resolver) FilterPresets() *filterPresetsResolver {
	return &filterPresetsResolver{p: r.pokemons.Presets()}
}

// Me resolves the signed-in account, or null for anonymous requests
func (r *Resolver) Me(ctx context.Context) (*userResolver, error) {
	userID := auth.UserIDFromContext(ctx)
	user, err := r.auth.Me(ctx, userID)
	if err != nil {
		return nil, r.toGraphQLError(ctx, "me", err)
	}
	if user == nil {
		return nil, nil
	}
	return &userResolver{u: *user}, nil
}
