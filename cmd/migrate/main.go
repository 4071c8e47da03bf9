package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/pokedex/backend/internal/infrastructure/config"
	"github.com/pokedex/backend/internal/infrastructure/logger"
	"github.com/pokedex/backend/internal/infrastructure/migration"
	"github.com/pokedex/backend/migrations"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("usage")

// schemaMigrator is the part of migration.Migrator the commands drive
type schemaMigrator interface {
	Up() error
	Down() error
	Steps(n int) error
	GoTo(version uint) error
	Version() (uint, bool, error)
	Force(version int) error
}

// command is one CLI verb. Commands with a nil migrate func work on files
// only and never touch the database.
type command struct {
	args    int
	usage   string
	files   func(env *cliEnv, args []string) error
	migrate func(env *cliEnv, m schemaMigrator, args []string) error
}

type cliEnv struct {
	log  *zap.Logger
	out  io.Writer
	path string // "" selects the embedded migrations
}

var commands = map[string]command{
	"up":      {migrate: func(_ *cliEnv, m schemaMigrator, _ []string) error { return m.Up() }},
	"down":    {migrate: func(_ *cliEnv, m schemaMigrator, _ []string) error { return m.Down() }},
	"steps":   {args: 1, usage: "steps <n>", migrate: runSteps},
	"goto":    {args: 1, usage: "goto <version>", migrate: runGoTo},
	"force":   {args: 1, usage: "force <version>", migrate: runForce},
	"version": {migrate: runVersion},
	"create":  {args: 1, usage: "create <name> [description]", files: runCreate},
	"list":    {files: runList},
}

func main() {
	migrationsPath := flag.String("path", "", "Path to migrations directory (default: ./migrations, else the embedded set)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	env := &cliEnv{log: log, out: os.Stdout, path: resolveMigrationsPath(*migrationsPath)}
	if err := run(env, flag.Args(), openMigrator); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			printUsage(os.Stderr)
		} else {
			log.Error("Migration failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

// openFunc connects to the configured database and builds a migrator
type openFunc func(env *cliEnv) (schemaMigrator, func(), error)

func run(env *cliEnv, args []string, open openFunc) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: command required", errUsage)
	}
	name, rest := args[0], args[1:]
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	if len(rest) < cmd.args {
		return fmt.Errorf("%w: migrate %s", errUsage, cmd.usage)
	}

	env.log.Info("Migration CLI started",
		zap.String("command", name),
		zap.String("migrations_path", displayPath(env.path)),
	)
	if cmd.files != nil {
		return cmd.files(env, rest)
	}

	m, closeFn, err := open(env)
	if err != nil {
		return err
	}
	defer closeFn()
	return cmd.migrate(env, m, rest)
}

func openMigrator(env *cliEnv) (schemaMigrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if env.path == "" {
		m, err = migration.NewFromFS(db, migrations.FS, ".", env.log)
	} else {
		m, err = migration.New(db, env.path, env.log)
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() {
		if err := m.Close(); err != nil {
			env.log.Warn("Error closing migrator", zap.Error(err))
		}
		_ = db.Close()
	}, nil
}

func runSteps(_ *cliEnv, m schemaMigrator, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: invalid step count %q", errUsage, args[0])
	}
	return m.Steps(n)
}

func runGoTo(_ *cliEnv, m schemaMigrator, args []string) error {
	version, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid version %q", errUsage, args[0])
	}
	return m.GoTo(uint(version))
}

func runForce(_ *cliEnv, m schemaMigrator, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: invalid version %q", errUsage, args[0])
	}
	return m.Force(version)
}

func runVersion(env *cliEnv, m schemaMigrator, _ []string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(env.out, "No migrations applied")
		return nil
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(env.out, "Version %d (%s)\n", version, state)
	return nil
}

func runCreate(env *cliEnv, args []string) error {
	dir := env.path
	if dir == "" {
		dir = defaultMigrationsPath
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Created %s\n        %s\n", mf.UpPath, mf.DownPath)
	return nil
}

func runList(env *cliEnv, _ []string) error {
	var (
		names []string
		err   error
	)
	if env.path == "" {
		names, err = migration.ListMigrationsFS(migrations.FS, ".")
	} else {
		names, err = migration.ListMigrations(env.path)
	}
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(env.out, "No migrations found")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(env.out, "  -", name)
	}
	return nil
}

// resolveMigrationsPath returns an absolute directory, or "" for the embedded set
func resolveMigrationsPath(path string) string {
	if path == "" {
		if _, err := os.Stat(defaultMigrationsPath); err != nil {
			return ""
		}
		path = defaultMigrationsPath
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func displayPath(path string) string {
	if path == "" {
		return "(embedded)"
	}
	return path
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Pokedex Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  steps <n>             Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (repairs a dirty state)
  create <name> [desc]  Create a new migration file pair
  list                  List available migrations

Flags:
  -path string          Path to migrations directory (default: ./migrations, else embedded)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  POKEDEX_DATABASE_HOST, POKEDEX_DATABASE_PORT, POKEDEX_DATABASE_USER,
  POKEDEX_DATABASE_PASSWORD, POKEDEX_DATABASE_DBNAME, POKEDEX_DATABASE_SSLMODE

Examples:
  migrate up
  migrate steps -1
  migrate create add_species_index "Index species for lookups"
  migrate version`)
}
