package persistence

import (
	"testing"

	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns ASC", "", "ASC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"invalid value returns ASC", "INVALID", "ASC"},
		{"sql injection attempt returns ASC", "DESC; DROP TABLE users;--", "ASC"},
		{"whitespace around desc returns DESC", "  desc  ", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "name"},
		{"NAME maps to name", "NAME", "name"},
		{"POKEDEX_ID maps to pokedex_id", "POKEDEX_ID", "pokedex_id"},
		{"HEIGHT maps to height", "HEIGHT", "height"},
		{"WEIGHT maps to weight", "WEIGHT", "weight"},
		{"raw column name is not accepted", "pokedex_id", "name"},
		{"sql injection attempt returns default", "name; DROP TABLE pokemons;--", "name"},
		{"whitespace around valid field", "  HEIGHT ", "height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, PokemonSortColumns, "name"))
		})
	}
}

func TestPokemonOrderClause(t *testing.T) {
	tests := []struct {
		sort     catalog.PokemonSort
		expected string
	}{
		{catalog.DefaultSort(), "name ASC"},
		{catalog.PokemonSort{Field: catalog.SortByName, Direction: catalog.SortDesc}, "name DESC"},
		{catalog.PokemonSort{Field: catalog.SortByPokedexID, Direction: catalog.SortAsc}, "pokedex_id ASC, name ASC"},
		{catalog.PokemonSort{Field: catalog.SortByWeight, Direction: catalog.SortDesc}, "weight DESC, name ASC"},
		{catalog.PokemonSort{Field: "bogus", Direction: "sideways"}, "name ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, pokemonOrderClause(tt.sort))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "mr. mime", escapeLike("mr. mime"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `type\_null`, escapeLike("type_null"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
