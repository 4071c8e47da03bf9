package persistence

import (
	"errors"
	"strings"

	"github.com/pokedex/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	column, ok := allowedFields[strings.TrimSpace(sortField)]
	if !ok {
		return defaultField
	}
	return column
}

// PokemonSortColumns maps catalog sort fields to columns
var PokemonSortColumns = map[string]string{
	string(catalog.SortByName):      "name",
	string(catalog.SortByPokedexID): "pokedex_id",
	string(catalog.SortByHeight):    "height",
	string(catalog.SortByWeight):    "weight",
}

// pokemonOrderClause renders a whitelisted ORDER BY. Non-unique columns get
// name as a tie-breaker so paging is stable.
func pokemonOrderClause(sort catalog.PokemonSort) string {
	column := ValidateSortField(string(sort.Field), PokemonSortColumns, "name")
	dir := ValidateSortOrder(string(sort.Direction))
	if column == "name" {
		return "name " + dir
	}
	return column + " " + dir + ", name ASC"
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
