// Package seed imports the official catalog from PokeAPI.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pokedex/backend/internal/domain/catalog"
	"github.com/pokedex/backend/internal/infrastructure/pokeapi"
	"github.com/pokedex/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Defaults for a seed run
const (
	DefaultLimit       = 151
	DefaultConcurrency = 4
)

// ErrMirrorUnavailable is returned when image mirroring is requested without object storage
var ErrMirrorUnavailable = errors.New("image mirroring requested but object storage is not configured")

// Source reads entries from the reference catalog
type Source interface {
	ListPokemon(ctx context.Context, limit int) ([]pokeapi.NamedResource, error)
	GetPokemon(ctx context.Context, nameOrURL string) (*pokeapi.Pokemon, error)
	GetSpecies(ctx context.Context, nameOrURL string) (*pokeapi.Species, error)
}

// ImageMirror copies artwork into object storage
type ImageMirror interface {
	Prepare(ctx context.Context) error
	Mirror(ctx context.Context, sourceURL, key string) (string, error)
}

// Options controls a seed run
type Options struct {
	Limit        int
	Force        bool
	MirrorImages bool
	Concurrency  int
}

// Failure records an entry that could not be imported
type Failure struct {
	Name string
	Err  error
}

// Report summarises a seed run
type Report struct {
	Skipped  bool
	Existing int64
	Fetched  int
	Imported int
	Mirrored int
	Failures []Failure
	Duration time.Duration
}

// Status describes the current catalog contents
type Status struct {
	Entries          int64
	HighestPokedexID int
}

// Seeder imports official entries. Requests to the source are paced by
// the source itself, so concurrency only overlaps network latency.
type Seeder struct {
	source Source
	repo   catalog.PokemonRepository
	mirror ImageMirror
	logger *zap.Logger
}

// NewSeeder creates a new Seeder. mirror may be nil when object storage
// is not configured.
func NewSeeder(source Source, repo catalog.PokemonRepository, mirror ImageMirror, logger *zap.Logger) *Seeder {
	return &Seeder{
		source: source,
		repo:   repo,
		mirror: mirror,
		logger: logger,
	}
}

// Run imports the first opts.Limit entries. It does nothing when the
// catalog already has entries unless opts.Force is set. Failures of single
// entries are collected in the report; only listing and storage setup
// failures abort the run.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()
	opts = normalizeOptions(opts)
	report := &Report{}

	if opts.MirrorImages && s.mirror == nil {
		return nil, ErrMirrorUnavailable
	}

	if !opts.Force {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count catalog entries: %w", err)
		}
		if count > 0 {
			s.logger.Info("Catalog already seeded, skipping", zap.Int64("existing", count))
			report.Skipped = true
			report.Existing = count
			return report, nil
		}
	}

	if opts.MirrorImages {
		if err := s.mirror.Prepare(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare image storage: %w", err)
		}
	}

	list, err := s.source.ListPokemon(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pokemon list: %w", err)
	}
	report.Fetched = len(list)
	s.logger.Info("Seeding catalog",
		zap.Int("entries", len(list)),
		zap.Int("concurrency", opts.Concurrency),
		zap.Bool("mirror_images", opts.MirrorImages),
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, res := range list {
		g.Go(func() error {
			mirrored, err := s.importOne(gctx, res, opts.MirrorImages)
			if err != nil && gctx.Err() != nil {
				return gctx.Err()
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("Failed to import pokemon",
					zap.String("name", res.Name),
					zap.Error(err),
				)
				report.Failures = append(report.Failures, Failure{Name: res.Name, Err: err})
				return nil
			}
			report.Imported++
			report.Mirrored += mirrored
			s.logger.Debug("Imported pokemon",
				zap.Int("position", i+1),
				zap.Int("of", len(list)),
				zap.String("name", res.Name),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	s.logger.Info("Catalog seed completed",
		zap.Int("imported", report.Imported),
		zap.Int("failed", len(report.Failures)),
		zap.Int("mirrored_images", report.Mirrored),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// importOne fetches, converts and upserts one entry and returns how many
// images were mirrored for it
func (s *Seeder) importOne(ctx context.Context, res pokeapi.NamedResource, mirror bool) (int, error) {
	target := res.URL
	if target == "" {
		target = res.Name
	}
	detail, err := s.source.GetPokemon(ctx, target)
	if err != nil {
		return 0, err
	}

	// A missing species only costs the description
	var species *pokeapi.Species
	if detail.Species.URL != "" || detail.Species.Name != "" {
		speciesRef := detail.Species.URL
		if speciesRef == "" {
			speciesRef = detail.Species.Name
		}
		species, err = s.source.GetSpecies(ctx, speciesRef)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			s.logger.Warn("Failed to fetch species", zap.String("name", detail.Name), zap.Error(err))
			species = nil
		}
	}

	entry, err := ToPokemon(detail, species)
	if err != nil {
		return 0, err
	}

	mirrored := 0
	if mirror {
		mirrored = s.mirrorArtwork(ctx, entry)
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", entry.Name, err)
	}
	return mirrored, nil
}

// mirrorArtwork points the entry's images at mirrored copies. An image
// that cannot be mirrored keeps its source URL.
func (s *Seeder) mirrorArtwork(ctx context.Context, entry *catalog.Pokemon) int {
	mirrored := 0
	for _, img := range []struct {
		url   **string
		shiny bool
	}{
		{&entry.Image, false},
		{&entry.ImageShiny, true},
	} {
		if *img.url == nil {
			continue
		}
		source := **img.url
		key := storage.ArtworkKey(*entry.PokedexID, img.shiny, source)
		public, err := s.mirror.Mirror(ctx, source, key)
		if err != nil {
			s.logger.Warn("Failed to mirror image",
				zap.String("name", entry.Name),
				zap.String("source", source),
				zap.Error(err),
			)
			continue
		}
		*img.url = &public
		mirrored++
	}
	return mirrored
}

// Status reports how many entries the catalog holds
func (s *Seeder) Status(ctx context.Context) (*Status, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count catalog entries: %w", err)
	}
	maxID, err := s.repo.MaxPokedexID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read highest pokedex number: %w", err)
	}
	return &Status{Entries: count, HighestPokedexID: maxID}, nil
}

func normalizeOptions(opts Options) Options {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return opts
}
