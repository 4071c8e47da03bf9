package graphql

import (
	"time"

	gqlgo "github.com/graph-gophers/graphql-go"
	catalogapp "github.com/pokedex/backend/internal/application/catalog"
	identityapp "github.com/pokedex/backend/internal/application/identity"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/domain/shared"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// nonNilStrings keeps non-null list fields from resolving to null
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type userResolver struct {
	u identityapp.UserInfo
}

func (r *userResolver) ID() gqlgo.ID      { return gqlgo.ID(r.u.ID.String()) }
func (r *userResolver) Email() string     { return r.u.Email }
func (r *userResolver) CreatedAt() string { return formatTime(r.u.CreatedAt) }

type authPayloadResolver struct {
	p *identityapp.AuthPayload
}

func (r *authPayloadResolver) Token() string { return r.p.Token }

func (r *authPayloadResolver) User() *userResolver {
	return &userResolver{u: r.p.User}
}

type statsResolver struct {
	s *catalog.BaseStats
}

func (r *statsResolver) HP() *int32        { return int32Ptr(r.s.HP) }
func (r *statsResolver) Attack() *int32    { return int32Ptr(r.s.Attack) }
func (r *statsResolver) Defense() *int32   { return int32Ptr(r.s.Defense) }
func (r *statsResolver) SpAttack() *int32  { return int32Ptr(r.s.SpAttack) }
func (r *statsResolver) SpDefense() *int32 { return int32Ptr(r.s.SpDefense) }
func (r *statsResolver) Speed() *int32     { return int32Ptr(r.s.Speed) }

type pokemonResolver struct {
	p catalogapp.PokemonDTO
}

func newPokemonResolver(p *catalogapp.PokemonDTO) *pokemonResolver {
	if p == nil {
		return nil
	}
	return &pokemonResolver{p: *p}
}

func (r *pokemonResolver) ID() gqlgo.ID         { return gqlgo.ID(r.p.ID.String()) }
func (r *pokemonResolver) Name() string         { return r.p.Name }
func (r *pokemonResolver) PokedexID() *int32    { return int32Ptr(r.p.PokedexID) }
func (r *pokemonResolver) Height() float64      { return r.p.Height }
func (r *pokemonResolver) Weight() float64      { return r.p.Weight }
func (r *pokemonResolver) Image() *string       { return r.p.Image }
func (r *pokemonResolver) ImageShiny() *string  { return r.p.ImageShiny }
func (r *pokemonResolver) Types() []string      { return nonNilStrings(r.p.Types) }
func (r *pokemonResolver) Abilities() []string  { return nonNilStrings(r.p.Abilities) }
func (r *pokemonResolver) Description() *string { return r.p.Description }
func (r *pokemonResolver) Species() *string     { return r.p.Species }
func (r *pokemonResolver) Weaknesses() []string { return nonNilStrings(r.p.Weaknesses) }
func (r *pokemonResolver) IsCustom() bool       { return r.p.IsCustom }
func (r *pokemonResolver) CreatedAt() string    { return formatTime(r.p.CreatedAt) }
func (r *pokemonResolver) UpdatedAt() string    { return formatTime(r.p.UpdatedAt) }

func (r *pokemonResolver) BaseStats() *statsResolver {
	if r.p.BaseStats == nil {
		return nil
	}
	return &statsResolver{s: r.p.BaseStats}
}

func (r *pokemonResolver) CreatedByUserID() *string {
	if r.p.CreatedByUserID == nil {
		return nil
	}
	id := r.p.CreatedByUserID.String()
	return &id
}

type paginationResolver struct {
	page       int
	pageSize   int
	totalPages int
	totalCount int64
}

func (r *paginationResolver) Page() int32       { return int32(r.page) }
func (r *paginationResolver) PageSize() int32   { return int32(r.pageSize) }
func (r *paginationResolver) TotalPages() int32 { return int32(r.totalPages) }
func (r *paginationResolver) TotalCount() int32 { return int32(r.totalCount) }

type pokemonConnectionResolver struct {
	result shared.Paginated[catalogapp.PokemonDTO]
}

func (r *pokemonConnectionResolver) Pokemons() []*pokemonResolver {
	out := make([]*pokemonResolver, len(r.result.Items))
	for i := range r.result.Items {
		out[i] = &pokemonResolver{p: r.result.Items[i]}
	}
	return out
}

func (r *pokemonConnectionResolver) Pagination() *paginationResolver {
	return &paginationResolver{
		page:       r.result.Page,
		pageSize:   r.result.PageSize,
		totalPages: r.result.TotalPages,
		totalCount: r.result.Total,
	}
}

type neighborsResolver struct {
	n catalogapp.PokemonNeighbors
}

func (r *neighborsResolver) Previous() *pokemonResolver { return newPokemonResolver(r.n.Previous) }
func (r *neighborsResolver) Next() *pokemonResolver     { return newPokemonResolver(r.n.Next) }

type filterPresetResolver struct {
	p catalog.FilterPreset
}

func (r *filterPresetResolver) Key() string   { return r.p.Key }
func (r *filterPresetResolver) Label() string { return r.p.Label }
func (r *filterPresetResolver) Min() *float64 { return r.p.Min }
func (r *filterPresetResolver) Max() *float64 { return r.p.Max }

type filterPresetsResolver struct {
	p catalogapp.FilterPresets
}

func (r *filterPresetsResolver) Height() []*filterPresetResolver { return toPresetResolvers(r.p.Height) }
func (r *filterPresetsResolver) Weight() []*filterPresetResolver { return toPresetResolvers(r.p.Weight) }
func (r *filterPresetsResolver) SortOptions() []string           { return nonNilStrings(r.p.SortOptions) }

func toPresetResolvers(presets []catalog.FilterPreset) []*filterPresetResolver {
	out := make([]*filterPresetResolver, len(presets))
	for i := range presets {
		out[i] = &filterPresetResolver{p: presets[i]}
	}
	return out
}
