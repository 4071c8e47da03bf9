package catalog

import (
	"context"

	"github.com/google/uuid"
)

// PokemonRepository defines the interface for catalog persistence
type PokemonRepository interface {
	// FindByID finds an entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Pokemon, error)

	// FindByName finds an entry by its exact name
	FindByName(ctx context.Context, name string) (*Pokemon, error)

	// FindByPokedexID finds an entry by its pokedex number
	FindByPokedexID(ctx context.Context, pokedexID int) (*Pokemon, error)

	// FindNeighbors returns the entries immediately before and after the
	// given pokedex number. Either may be nil.
	FindNeighbors(ctx context.Context, pokedexID int) (prev *Pokemon, next *Pokemon, err error)

	// List returns one page of entries matching the filter plus the total match count
	List(ctx context.Context, filter PokemonFilter, sort PokemonSort, offset, limit int) ([]Pokemon, int64, error)

	// ExistsByName checks if an entry with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// MaxPokedexID returns the highest pokedex number in use, 0 when empty
	MaxPokedexID(ctx context.Context) (int, error)

	// Count returns the number of entries
	Count(ctx context.Context) (int64, error)

	// Create persists a new entry
	Create(ctx context.Context, pokemon *Pokemon) error

	// Update persists changes to an existing entry
	Update(ctx context.Context, pokemon *Pokemon) error

	// Upsert inserts or replaces the entry with the same name
	Upsert(ctx context.Context, pokemon *Pokemon) error

	// Delete removes an entry
	Delete(ctx context.Context, id uuid.UUID) error
}

// PokemonFilter narrows a catalog listing. Nil and empty fields are ignored.
type PokemonFilter struct {
	Name         *string
	HeightMin    *float64
	HeightMax    *float64
	WeightMin    *float64
	WeightMax    *float64
	Types        []string
	Weaknesses   []string
	PokedexIDMin *int
	PokedexIDMax *int
	Ability      *string
}

// SortField is a sortable catalog column
type SortField string

const (
	SortByName      SortField = "NAME"
	SortByPokedexID SortField = "POKEDEX_ID"
	SortByHeight    SortField = "HEIGHT"
	SortByWeight    SortField = "WEIGHT"
)

// SortDirection orders a listing
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// PokemonSort orders a catalog listing
type PokemonSort struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort orders by name ascending
func DefaultSort() PokemonSort {
	return PokemonSort{Field: SortByName, Direction: SortAsc}
}

// Normalize replaces unknown fields or directions with defaults
func (s PokemonSort) Normalize() PokemonSort {
	switch s.Field {
	case SortByName, SortByPokedexID, SortByHeight, SortByWeight:
	default:
		s.Field = SortByName
	}
	if s.Direction != SortDesc {
		s.Direction = SortAsc
	}
	return s
}
