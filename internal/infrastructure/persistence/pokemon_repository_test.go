package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pokemonColumns = []string{
	"id", "name", "pokedex_id", "height", "weight", "image", "image_shiny", "types", "abilities",
	"base_stats", "description", "species", "is_custom", "created_by_user_id", "created_at", "updated_at",
}

func newMockPokemonRepository(t *testing.T) (*GormPokemonRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormPokemonRepository(gormDB), mock, mockDB
}

func charizardRow(rows *sqlmock.Rows, id uuid.UUID) *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id.String(), "Charizard", int64(6), 1.7, 90.5, "https://img/6.png", nil,
		"{Fire,Flying}", "{Blaze,\"Solar Power\"}", []byte(`{"hp":78,"attack":84,"spAttack":109}`),
		"Spits fire.", "Flame Pokémon", false, nil, now, now,
	)
}

func TestGormPokemonRepository_FindByID(t *testing.T) {
	t.Run("maps every column", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "pokemons" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(charizardRow(sqlmock.NewRows(pokemonColumns), id))

		p, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "Charizard", p.Name)
		require.NotNil(t, p.PokedexID)
		assert.Equal(t, 6, *p.PokedexID)
		assert.Equal(t, 1.7, p.Height)
		assert.Equal(t, 90.5, p.Weight)
		assert.Equal(t, []string{"Fire", "Flying"}, p.Types)
		assert.Equal(t, []string{"Blaze", "Solar Power"}, p.Abilities)
		require.NotNil(t, p.BaseStats)
		assert.Equal(t, 78, *p.BaseStats.HP)
		assert.Equal(t, 109, *p.BaseStats.SpAttack)
		assert.Nil(t, p.BaseStats.Speed)
		assert.Nil(t, p.ImageShiny)
		assert.Nil(t, p.CreatedByUserID)
		assert.False(t, p.IsCustom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("translates missing rows", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "pokemons" WHERE id = \$1`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows(pokemonColumns))

		p, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, p)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPokemonRepository_FindByName(t *testing.T) {
	repo, mock, mockDB := newMockPokemonRepository(t)
	defer mockDB.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "pokemons" WHERE name = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("Charizard", 1).
		WillReturnRows(charizardRow(sqlmock.NewRows(pokemonColumns), id))

	p, err := repo.FindByName(context.Background(), "Charizard")

	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPokemonRepository_FindByPokedexID(t *testing.T) {
	repo, mock, mockDB := newMockPokemonRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "pokemons" WHERE pokedex_id = \$1`).
		WithArgs(6, 1).
		WillReturnError(errors.New("connection reset"))

	p, err := repo.FindByPokedexID(context.Background(), 6)

	assert.Nil(t, p)
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPokemonRepository_FindNeighbors(t *testing.T) {
	t.Run("both sides present", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		prevID, nextID := uuid.New(), uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "pokemons" WHERE pokedex_id < \$1 ORDER BY pokedex_id DESC LIMIT .*`).
			WithArgs(7, 1).
			WillReturnRows(charizardRow(sqlmock.NewRows(pokemonColumns), prevID))
		mock.ExpectQuery(`SELECT \* FROM "pokemons" WHERE pokedex_id > \$1 ORDER BY pokedex_id ASC LIMIT .*`).
			WithArgs(7, 1).
			WillReturnRows(charizardRow(sqlmock.NewRows(pokemonColumns), nextID))

		prev, next, err := repo.FindNeighbors(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, prevID, prev.ID)
		assert.Equal(t, nextID, next.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first entry has no previous", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		nextID := uuid.New()
		mock.ExpectQuery(`pokedex_id < \$1`).
			WithArgs(1, 1).
			WillReturnRows(sqlmock.NewRows(pokemonColumns))
		mock.ExpectQuery(`pokedex_id > \$1`).
			WithArgs(1, 1).
			WillReturnRows(charizardRow(sqlmock.NewRows(pokemonColumns), nextID))

		prev, next, err := repo.FindNeighbors(context.Background(), 1)

		require.NoError(t, err)
		assert.Nil(t, prev)
		assert.Equal(t, nextID, next.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPokemonRepository_List(t *testing.T) {
	t.Run("applies filters, order and paging", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		name := "char"
		heightMin := 1.0
		filter := catalog.PokemonFilter{
			Name:       &name,
			HeightMin:  &heightMin,
			Types:      []string{"Fire"},
			Weaknesses: []string{"Water"},
		}
		sort := catalog.PokemonSort{Field: catalog.SortByHeight, Direction: catalog.SortDesc}

		where := `WHERE name ILIKE \$1 AND height >= \$2 AND types @> \$3 AND types && \$4`
		mock.ExpectQuery(`SELECT count\(\*\) FROM "pokemons" ` + where).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
		mock.ExpectQuery(`SELECT \* FROM "pokemons" ` + where + ` ORDER BY height DESC, name ASC LIMIT .* OFFSET .*`).
			WillReturnRows(charizardRow(sqlmock.NewRows(pokemonColumns), uuid.New()))

		pokemons, total, err := repo.List(context.Background(), filter, sort, 2, 2)

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, pokemons, 1)
		assert.Equal(t, "Charizard", pokemons[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("escapes name wildcards", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		name := "100%_"
		mock.ExpectQuery(`SELECT count\(\*\) FROM "pokemons" WHERE name ILIKE \$1`).
			WithArgs(`%100\%\_%`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		pokemons, total, err := repo.List(context.Background(), catalog.PokemonFilter{Name: &name}, catalog.DefaultSort(), 0, 20)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, pokemons)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown weakness matches nothing", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "pokemons" WHERE 1 = 0`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		pokemons, total, err := repo.List(context.Background(),
			catalog.PokemonFilter{Weaknesses: []string{"Shadow"}}, catalog.DefaultSort(), 0, 20)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.NotNil(t, pokemons)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ability and pokedex range", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		ability := "Blaze"
		lo, hi := 1, 151
		mock.ExpectQuery(`SELECT count\(\*\) FROM "pokemons" WHERE pokedex_id >= \$1 AND pokedex_id <= \$2 AND \$3 = ANY\(abilities\)`).
			WithArgs(1, 151, "Blaze").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

		_, _, err := repo.List(context.Background(), catalog.PokemonFilter{
			Ability:      &ability,
			PokedexIDMin: &lo,
			PokedexIDMax: &hi,
		}, catalog.DefaultSort(), 0, 20)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPokemonRepository_MaxPokedexID(t *testing.T) {
	repo, mock, mockDB := newMockPokemonRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(pokedex_id\), 0\) FROM "pokemons"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(int64(151)))

	maxID, err := repo.MaxPokedexID(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 151, maxID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPokemonRepository_ExistsByName(t *testing.T) {
	repo, mock, mockDB := newMockPokemonRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pokemons" WHERE name = \$1`).
		WithArgs("Mew").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	exists, err := repo.ExistsByName(context.Background(), "Mew")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPokemonRepository_Count(t *testing.T) {
	repo, mock, mockDB := newMockPokemonRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pokemons"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(151)))

	count, err := repo.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(151), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPokemonRepository_Create(t *testing.T) {
	repo, mock, mockDB := newMockPokemonRepository(t)
	defer mockDB.Close()

	p, err := catalog.NewCustomPokemon(uuid.New(), "Pikachu Libre", 152, 0.4, 6)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "pokemons"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPokemonRepository_Update(t *testing.T) {
	t.Run("updates row", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		p, err := catalog.NewCustomPokemon(uuid.New(), "Pikachu Libre", 152, 0.4, 6)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "pokemons" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		p, err := catalog.NewCustomPokemon(uuid.New(), "Ghost Entry", 153, 1, 1)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "pokemons" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), p), shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPokemonRepository_Upsert(t *testing.T) {
	repo, mock, mockDB := newMockPokemonRepository(t)
	defer mockDB.Close()

	p, err := catalog.NewOfficialPokemon("Bulbasaur", 1, 0.7, 6.9)
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "pokemons" .* ON CONFLICT \("name"\) DO UPDATE SET "pokedex_id"="excluded"."pokedex_id".*"species"="excluded"."species","updated_at"="excluded"."updated_at"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertColumns_KeepCustomEntriesCustom(t *testing.T) {
	for _, col := range []string{"is_custom", "created_by_user_id", "created_at", "id", "name"} {
		assert.NotContains(t, upsertColumns, col)
	}
}

func TestGormPokemonRepository_Delete(t *testing.T) {
	t.Run("deletes existing entry", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "pokemons" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found", func(t *testing.T) {
		repo, mock, mockDB := newMockPokemonRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "pokemons" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
