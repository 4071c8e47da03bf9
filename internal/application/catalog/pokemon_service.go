package catalog

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pokedex/backend/internal/application/validation"
	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/domain/shared"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var (
	errPokemonNotFound = shared.NewDomainError("NOT_FOUND", "Pokemon not found")
	errPokemonExists   = shared.NewDomainError("ALREADY_EXISTS", "Pokemon with this name already exists")
)

// PokemonService handles catalog queries and custom-entry management
type PokemonService struct {
	repo     catalog.PokemonRepository
	cache    catalog.PokemonCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewPokemonService creates a new PokemonService.
// cache may be nil, in which case lookups always hit the repository.
func NewPokemonService(
	repo catalog.PokemonRepository,
	cache catalog.PokemonCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *PokemonService {
	return &PokemonService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// List returns one page of entries matching the filter
func (s *PokemonService) List(ctx context.Context, input ListPokemonInput) (shared.Paginated[PokemonDTO], error) {
	page, pageSize := normalizePaging(input.Page, input.PageSize)

	sort := catalog.DefaultSort()
	if input.Sort != nil {
		sort = input.Sort.Normalize()
	}

	filter := input.Filter
	filter.Types = normalizeTypeNames(filter.Types)

	pokemons, total, err := s.repo.List(ctx, filter, sort, shared.Offset(page, pageSize), pageSize)
	if err != nil {
		logger.WithLogger(ctx, s.logger).Error("Failed to list pokemon", zap.Error(err))
		return shared.Paginated[PokemonDTO]{}, err
	}

	items := make([]PokemonDTO, len(pokemons))
	for i := range pokemons {
		items[i] = ToPokemonDTO(&pokemons[i])
	}
	return shared.NewPaginated(items, total, page, pageSize), nil
}

// Get looks up a single entry. A miss, a malformed id or an empty input
// yields nil without an error.
func (s *PokemonService) Get(ctx context.Context, input GetPokemonInput) (*PokemonDTO, error) {
	var (
		p   *catalog.Pokemon
		err error
	)
	switch {
	case input.Name != nil:
		p, err = s.findByName(ctx, *input.Name)
	case input.PokedexID != nil:
		p, err = s.repo.FindByPokedexID(ctx, *input.PokedexID)
	case input.ID != nil:
		id, parseErr := uuid.Parse(*input.ID)
		if parseErr != nil {
			return nil, nil
		}
		p, err = s.repo.FindByID(ctx, id)
	default:
		return nil, nil
	}

	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPokemonDTOPtr(p), nil
}

// findByName reads through the cache
func (s *PokemonService) findByName(ctx context.Context, name string) (*catalog.Pokemon, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, name)
		if err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Pokemon cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	p, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p, s.cacheTTL); err != nil {
			logger.WithLogger(ctx, s.logger).Warn("Pokemon cache write failed", zap.Error(err))
		}
	}
	return p, nil
}

// Create adds a custom entry owned by userID
func (s *PokemonService) Create(ctx context.Context, userID uuid.UUID, input CreatePokemonInput) (*PokemonDTO, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	log := logger.WithLogger(ctx, s.logger)

	name := strings.TrimSpace(input.Name)
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errPokemonExists
	}

	maxID, err := s.repo.MaxPokedexID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := catalog.NewCustomPokemon(userID, name, maxID+1, input.Height, input.Weight)
	if err != nil {
		return nil, err
	}
	if err := p.SetTypes(input.Types); err != nil {
		return nil, err
	}
	p.SetAbilities(input.Abilities)
	if err := p.SetBaseStats(input.BaseStats); err != nil {
		return nil, err
	}
	p.Image = emptyToNil(input.Image)
	p.ImageShiny = emptyToNil(input.ImageShiny)
	p.Description = emptyToNil(input.Description)
	p.Species = emptyToNil(input.Species)

	if err := s.repo.Create(ctx, p); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			log.Error("Failed to create pokemon", zap.Error(err))
		}
		return nil, err
	}

	log.Info("Custom pokemon created",
		zap.String("pokemon_id", p.ID.String()),
		zap.String("name", p.Name),
		zap.Int("pokedex_id", maxID+1))
	return toPokemonDTOPtr(p), nil
}

// Update applies the provided fields to a custom entry owned by userID
func (s *PokemonService) Update(ctx context.Context, userID uuid.UUID, input UpdatePokemonInput) (*PokemonDTO, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errPokemonNotFound
		}
		return nil, err
	}
	if err := p.CheckModifiable(userID); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Pokemon update denied",
			zap.String("pokemon_id", p.ID.String()),
			zap.String("reason", err.Error()))
		return nil, err
	}

	oldName := p.Name
	if input.Name != nil && strings.TrimSpace(*input.Name) != oldName {
		newName := strings.TrimSpace(*input.Name)
		exists, err := s.repo.ExistsByName(ctx, newName)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errPokemonExists
		}
		if err := p.Rename(newName); err != nil {
			return nil, err
		}
	}

	if err := applyUpdate(p, input); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errPokemonNotFound
		}
		return nil, err
	}

	s.evict(ctx, oldName, p.Name)
	logger.WithLogger(ctx, s.logger).Info("Custom pokemon updated", zap.String("pokemon_id", p.ID.String()))
	return toPokemonDTOPtr(p), nil
}

func applyUpdate(p *catalog.Pokemon, input UpdatePokemonInput) error {
	if input.Height != nil || input.Weight != nil {
		height, weight := p.Height, p.Weight
		if input.Height != nil {
			height = *input.Height
		}
		if input.Weight != nil {
			weight = *input.Weight
		}
		if err := p.SetMeasurements(height, weight); err != nil {
			return err
		}
	}
	if input.Types.Set {
		var types []string
		if input.Types.Value != nil {
			types = *input.Types.Value
		}
		if err := p.SetTypes(types); err != nil {
			return err
		}
	}
	if input.Abilities.Set {
		var abilities []string
		if input.Abilities.Value != nil {
			abilities = *input.Abilities.Value
		}
		p.SetAbilities(abilities)
	}
	if input.BaseStats.Set {
		if err := p.SetBaseStats(input.BaseStats.Value); err != nil {
			return err
		}
	}
	if input.Image.Set {
		p.Image = emptyToNil(input.Image.Value)
	}
	if input.ImageShiny.Set {
		p.ImageShiny = emptyToNil(input.ImageShiny.Value)
	}
	if input.Description.Set {
		p.Description = emptyToNil(input.Description.Value)
	}
	if input.Species.Set {
		p.Species = emptyToNil(input.Species.Value)
	}
	p.Touch()
	return nil
}

// Delete removes a custom entry owned by userID
func (s *PokemonService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, shared.ErrUnauthorized
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, errPokemonNotFound
		}
		return false, err
	}
	if err := p.CheckDeletable(userID); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Pokemon delete denied",
			zap.String("pokemon_id", p.ID.String()),
			zap.String("reason", err.Error()))
		return false, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, errPokemonNotFound
		}
		return false, err
	}

	s.evict(ctx, p.Name)
	logger.WithLogger(ctx, s.logger).Info("Custom pokemon deleted", zap.String("pokemon_id", id.String()))
	return true, nil
}

// Neighbors returns the entries before and after pokedexID
func (s *PokemonService) Neighbors(ctx context.Context, pokedexID int) (PokemonNeighbors, error) {
	prev, next, err := s.repo.FindNeighbors(ctx, pokedexID)
	if err != nil {
		return PokemonNeighbors{}, err
	}
	return PokemonNeighbors{
		Previous: toPokemonDTOPtr(prev),
		Next:     toPokemonDTOPtr(next),
	}, nil
}

// Weaknesses computes the weaknesses of a type combination
func (s *PokemonService) Weaknesses(types []string) []string {
	return catalog.CalculateWeaknesses(types)
}

// Presets returns the named search ranges and sort keys
func (s *PokemonService) Presets() FilterPresets {
	return FilterPresets{
		Height:      catalog.HeightPresets,
		Weight:      catalog.WeightPresets,
		SortOptions: slices.Clone(catalog.SortOptions),
	}
}

func (s *PokemonService) evict(ctx context.Context, names ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, names...); err != nil {
		logger.WithLogger(ctx, s.logger).Warn("Pokemon cache eviction failed", zap.Error(err))
	}
}

func normalizePaging(page int, size *int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size == nil {
		return page, DefaultPageSize
	}
	return page, min(max(*size, 1), MaxPageSize)
}

// normalizeTypeNames canonicalises known type names so they match stored values.
// Unknown names pass through and simply match nothing.
func normalizeTypeNames(types []string) []string {
	if len(types) == 0 {
		return types
	}
	out := make([]string, len(types))
	for i, t := range types {
		if pt, ok := catalog.ParseType(t); ok {
			out[i] = string(pt)
		} else {
			out[i] = t
		}
	}
	return out
}
