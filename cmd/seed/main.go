// Command seed imports the official catalog from PokeAPI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pokedex/backend/internal/application/seed"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"github.com/pokedex/backend/internal/infrastructure/persistence"
	"github.com/pokedex/backend/internal/infrastructure/pokeapi"
	"github.com/pokedex/backend/internal/infrastructure/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(config.Load, openSeeder).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// seedRunner is the part of seed.Seeder the commands drive
type seedRunner interface {
	Run(ctx context.Context, opts seed.Options) (*seed.Report, error)
	Status(ctx context.Context) (*seed.Status, error)
}

type (
	loadFunc func() (*config.Config, error)
	openFunc func(cfg *config.Config, log *zap.Logger, mirror bool) (seedRunner, func(), error)
)

// cli carries state shared by the subcommands
type cli struct {
	load     loadFunc
	open     openFunc
	logLevel string
	cfg      *config.Config
	log      *zap.Logger
}

func newRootCmd(load loadFunc, open openFunc) *cobra.Command {
	c := &cli{load: load, open: open}

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Manage the official Pokemon catalog",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = logger.Sync(c.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to the configured level")

	root.AddCommand(c.runCmd(), c.statusCmd())
	return root
}

func (c *cli) setup() error {
	cfg, err := c.load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	c.cfg = cfg

	level := cfg.Log.Level
	if c.logLevel != "" {
		level = c.logLevel
	}
	log, err := logger.New(&logger.Config{
		Level:  level,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.log = log
	return nil
}

func (c *cli) runCmd() *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import entries from PokeAPI",
		Long: `Fetch the first --limit entries from PokeAPI and upsert them as official entries.

The run is skipped when the catalog already has entries unless --force is given.
With --mirror-images, artwork is copied into the configured object storage
bucket and entries point at the copies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("limit") {
				opts.Limit = c.cfg.Seed.Limit
			}
			if !cmd.Flags().Changed("concurrency") {
				opts.Concurrency = c.cfg.Seed.Concurrency
			}

			runner, closeFn, err := c.open(c.cfg, c.log, opts.MirrorImages)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := runner.Run(cmd.Context(), opts)
			if err != nil {
				c.log.Error("Seed failed", zap.Error(err))
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", seed.DefaultLimit, "Number of entries to import, in pokedex order")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Import even when the catalog already has entries")
	cmd.Flags().BoolVar(&opts.MirrorImages, "mirror-images", false, "Copy artwork into object storage")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", seed.DefaultConcurrency, "Entries imported in parallel")
	return cmd
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many entries the catalog holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, closeFn, err := c.open(c.cfg, c.log, false)
			if err != nil {
				return err
			}
			defer closeFn()

			status, err := runner.Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entries:            %d\n", status.Entries)
			fmt.Fprintf(out, "Highest pokedex ID: %d\n", status.HighestPokedexID)
			return nil
		},
	}
}

func printReport(cmd *cobra.Command, report *seed.Report) {
	out := cmd.OutOrStdout()
	if report.Skipped {
		fmt.Fprintf(out, "Catalog already contains %d entries; skipping. Use --force to re-import.\n", report.Existing)
		return
	}
	fmt.Fprintf(out, "Imported %d of %d entries in %s\n", report.Imported, report.Fetched, report.Duration.Round(time.Millisecond))
	if report.Mirrored > 0 {
		fmt.Fprintf(out, "Mirrored %d images\n", report.Mirrored)
	}
	if len(report.Failures) > 0 {
		fmt.Fprintf(out, "%d entries failed:\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(out, "  %s: %v\n", f.Name, f.Err)
		}
	}
}

// openSeeder wires the seeder against the configured database, PokeAPI
// and, when mirroring, object storage
func openSeeder(cfg *config.Config, log *zap.Logger, mirror bool) (seedRunner, func(), error) {
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}

	source := pokeapi.NewClient(pokeapi.Config{
		BaseURL:         cfg.Seed.BaseURL,
		RequestInterval: cfg.Seed.RequestInterval,
		Timeout:         cfg.Seed.Timeout,
	}, pokeapi.WithLogger(log.Named("pokeapi")))

	var images seed.ImageMirror
	if mirror {
		if !cfg.Storage.Configured() {
			closeFn()
			return nil, nil, seed.ErrMirrorUnavailable
		}
		store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log.Named("storage")))
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		images = storage.NewImageMirror(store, storage.WithMirrorLogger(log.Named("mirror")))
	}

	repo := persistence.NewGormPokemonRepository(db.DB)
	return seed.NewSeeder(source, repo, images, log.Named("seed")), closeFn, nil
}

var _ seedRunner = (*seed.Seeder)(nil)
