package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/catalog"
)

// Pagination bounds
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Optional distinguishes an omitted field from an explicit null.
// Set with a nil Value clears the field.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional holding nothing
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// ListPokemonInput selects one page of the catalog. A nil PageSize means
// DefaultPageSize; an explicit value is clamped to [1, MaxPageSize].
type ListPokemonInput struct {
	Page     int
	PageSize *int
	Sort     *catalog.PokemonSort
	Filter   catalog.PokemonFilter
}

// GetPokemonInput looks up a single entry. The first non-nil key wins,
// in the order Name, PokedexID, ID.
type GetPokemonInput struct {
	ID        *string
	PokedexID *int
	Name      *string
}

// CreatePokemonInput contains the fields of a new custom entry
type CreatePokemonInput struct {
	Name        string             `json:"name" validate:"required,max=100"`
	Height      float64            `json:"height" validate:"gte=0"`
	Weight      float64            `json:"weight" validate:"gte=0"`
	Image       *string            `json:"image" validate:"omitempty,max=2048"`
	ImageShiny  *string            `json:"imageShiny" validate:"omitempty,max=2048"`
	Types       []string           `json:"types"`
	Abilities   []string           `json:"abilities"`
	BaseStats   *catalog.BaseStats `json:"baseStats"`
	Description *string            `json:"description"`
	Species     *string            `json:"species" validate:"omitempty,max=100"`
}

// UpdatePokemonInput changes the provided fields of a custom entry
type UpdatePokemonInput struct {
	ID          uuid.UUID
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Height      *float64 `json:"height" validate:"omitempty,gte=0"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
	Image       Optional[string]
	ImageShiny  Optional[string]
	Types       Optional[[]string]
	Abilities   Optional[[]string]
	BaseStats   Optional[catalog.BaseStats]
	Description Optional[string]
	Species     Optional[string]
}

// PokemonDTO is the read model of a catalog entry
type PokemonDTO struct {
	ID              uuid.UUID
	Name            string
	PokedexID       *int
	Height          float64
	Weight          float64
	Image           *string
	ImageShiny      *string
	Types           []string
	Abilities       []string
	BaseStats       *catalog.BaseStats
	Description     *string
	Species         *string
	Weaknesses      []string
	IsCustom        bool
	CreatedByUserID *uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PokemonNeighbors are the entries around a pokedex number
type PokemonNeighbors struct {
	Previous *PokemonDTO
	Next     *PokemonDTO
}

// FilterPresets exposes the named search ranges and sort keys
type FilterPresets struct {
	Height      []catalog.FilterPreset
	Weight      []catalog.FilterPreset
	SortOptions []string
}

// ToPokemonDTO converts a domain entry to its read model
func ToPokemonDTO(p *catalog.Pokemon) PokemonDTO {
	return PokemonDTO{
		ID:              p.ID,
		Name:            p.Name,
		PokedexID:       p.PokedexID,
		Height:          p.Height,
		Weight:          p.Weight,
		Image:           p.Image,
		ImageShiny:      p.ImageShiny,
		Types:           nonNil(p.Types),
		Abilities:       nonNil(p.Abilities),
		BaseStats:       p.BaseStats,
		Description:     p.Description,
		Species:         p.Species,
		Weaknesses:      p.Weaknesses(),
		IsCustom:        p.IsCustom,
		CreatedByUserID: p.CreatedByUserID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toPokemonDTOPtr(p *catalog.Pokemon) *PokemonDTO {
	if p == nil {
		return nil
	}
	dto := ToPokemonDTO(p)
	return &dto
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// emptyToNil maps "" to nil so blank optional strings are stored as NULL
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
