package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/pokedex/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertColumns are overwritten when the seeder re-imports an entry by name.
// Ownership, the custom flag and creation time are never touched.
var upsertColumns = []string{
	"pokedex_id", "height", "weight", "image", "image_shiny", "types", "abilities",
	"base_stats", "description", "species", "updated_at",
}

// GormPokemonRepository implements PokemonRepository using GORM
type GormPokemonRepository struct {
	db *gorm.DB
}

// NewGormPokemonRepository creates a new GormPokemonRepository
func NewGormPokemonRepository(db *gorm.DB) *GormPokemonRepository {
	return &GormPokemonRepository{db: db}
}

// FindByID finds an entry by ID
func (r *GormPokemonRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Pokemon, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByName finds an entry by exact name
func (r *GormPokemonRepository) FindByName(ctx context.Context, name string) (*catalog.Pokemon, error) {
	return r.findOne(r.db.WithContext(ctx).Where("name = ?", name))
}

// FindByPokedexID finds the first entry with the given pokedex number
func (r *GormPokemonRepository) FindByPokedexID(ctx context.Context, pokedexID int) (*catalog.Pokemon, error) {
	return r.findOne(r.db.WithContext(ctx).Where("pokedex_id = ?", pokedexID))
}

func (r *GormPokemonRepository) findOne(query *gorm.DB) (*catalog.Pokemon, error) {
	var model models.PokemonModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindNeighbors returns the closest entries before and after pokedexID
func (r *GormPokemonRepository) FindNeighbors(ctx context.Context, pokedexID int) (*catalog.Pokemon, *catalog.Pokemon, error) {
	prev, err := r.findAdjacent(ctx, "pokedex_id < ?", pokedexID, "pokedex_id DESC")
	if err != nil {
		return nil, nil, err
	}
	next, err := r.findAdjacent(ctx, "pokedex_id > ?", pokedexID, "pokedex_id ASC")
	if err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func (r *GormPokemonRepository) findAdjacent(ctx context.Context, cond string, pokedexID int, order string) (*catalog.Pokemon, error) {
	var model models.PokemonModel
	err := r.db.WithContext(ctx).
		Where(cond, pokedexID).
		Order(order).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of entries matching filter, plus the total match count
func (r *GormPokemonRepository) List(ctx context.Context, filter catalog.PokemonFilter, sort catalog.PokemonSort, offset, limit int) ([]catalog.Pokemon, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PokemonModel{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []catalog.Pokemon{}, 0, nil
	}

	var pokemonModels []models.PokemonModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PokemonModel{}), filter).
		Order(pokemonOrderClause(sort))
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&pokemonModels).Error; err != nil {
		return nil, 0, err
	}

	pokemons := make([]catalog.Pokemon, len(pokemonModels))
	for i, model := range pokemonModels {
		pokemons[i] = *model.ToDomain()
	}
	return pokemons, total, nil
}

// applyFilter adds the WHERE conditions for a listing
func (r *GormPokemonRepository) applyFilter(query *gorm.DB, filter catalog.PokemonFilter) *gorm.DB {
	if filter.Name != nil {
		if name := strings.TrimSpace(*filter.Name); name != "" {
			query = query.Where("name ILIKE ?", "%"+escapeLike(name)+"%")
		}
	}
	if filter.HeightMin != nil {
		query = query.Where("height >= ?", *filter.HeightMin)
	}
	if filter.HeightMax != nil {
		query = query.Where("height <= ?", *filter.HeightMax)
	}
	if filter.WeightMin != nil {
		query = query.Where("weight >= ?", *filter.WeightMin)
	}
	if filter.WeightMax != nil {
		query = query.Where("weight <= ?", *filter.WeightMax)
	}
	if filter.PokedexIDMin != nil {
		query = query.Where("pokedex_id >= ?", *filter.PokedexIDMin)
	}
	if filter.PokedexIDMax != nil {
		query = query.Where("pokedex_id <= ?", *filter.PokedexIDMax)
	}
	if len(filter.Types) > 0 {
		query = query.Where("types @> ?", pq.StringArray(filter.Types))
	}
	if filter.Ability != nil {
		if ability := strings.TrimSpace(*filter.Ability); ability != "" {
			query = query.Where("? = ANY(abilities)", ability)
		}
	}
	// An entry is weak to W when at least one of its types is in the inverse
	// chart for W. Every requested weakness must hold.
	for _, weakness := range filter.Weaknesses {
		defenders := catalog.AttackersOf(weakness)
		if len(defenders) == 0 {
			query = query.Where("1 = 0")
			continue
		}
		query = query.Where("types && ?", pq.StringArray(defenders))
	}
	return query
}

// ExistsByName checks if an entry with the given name exists
func (r *GormPokemonRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PokemonModel{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxPokedexID returns the highest pokedex number, or 0 when the catalog is empty
func (r *GormPokemonRepository) MaxPokedexID(ctx context.Context) (int, error) {
	var maxID int
	if err := r.db.WithContext(ctx).
		Model(&models.PokemonModel{}).
		Select("COALESCE(MAX(pokedex_id), 0)").
		Scan(&maxID).Error; err != nil {
		return 0, err
	}
	return maxID, nil
}

// Count returns the number of entries
func (r *GormPokemonRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PokemonModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists a new entry
func (r *GormPokemonRepository) Create(ctx context.Context, pokemon *catalog.Pokemon) error {
	model := models.PokemonModelFromDomain(pokemon)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError("ALREADY_EXISTS", "Pokemon with this name already exists")
		}
		return err
	}
	return nil
}

// Update writes every column of an existing entry
func (r *GormPokemonRepository) Update(ctx context.Context, pokemon *catalog.Pokemon) error {
	model := models.PokemonModelFromDomain(pokemon)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.NewDomainError("ALREADY_EXISTS", "Pokemon with this name already exists")
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Upsert inserts the entry or overwrites the existing one with the same name
func (r *GormPokemonRepository) Upsert(ctx context.Context, pokemon *catalog.Pokemon) error {
	model := models.PokemonModelFromDomain(pokemon)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(model).Error
}

// Delete removes an entry by ID
func (r *GormPokemonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PokemonModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormPokemonRepository implements PokemonRepository
var _ catalog.PokemonRepository = (*GormPokemonRepository)(nil)
