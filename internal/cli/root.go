// Package cli implements the modelseed command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"modelseed/internal/apps"
	"modelseed/internal/config"
	"modelseed/internal/database"
	"modelseed/internal/entity"
	"modelseed/internal/observability"
	"modelseed/internal/seed"
	"modelseed/internal/seeder"
	"modelseed/internal/store"
)

// Version is reported by --version.
var Version = "0.1.0"

// Backend is an open store and the parser whose naming matches it.
type Backend struct {
	Store  store.Store
	Parser *entity.Parser
	Close  func() error
}

// Deps are the collaborators commands are built from. Zero fields get
// production defaults.
type Deps struct {
	Apps       *apps.Registry
	LoadConfig func() (*config.Config, error)
	OpenStore  func(ctx context.Context, cfg *config.Config, dryRun bool, models []any) (*Backend, error)
	// Logger overrides the logger built from LOG_LEVEL and LOG_FORMAT.
	Logger *slog.Logger
}

type runner struct {
	deps Deps
	cfg  *config.Config
	log  *slog.Logger
}

// NewRootCmd builds the modelseed command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.Apps == nil {
		deps.Apps, _ = apps.NewRegistry()
	}
	if deps.LoadConfig == nil {
		deps.LoadConfig = config.LoadConfig
	}
	if deps.OpenStore == nil {
		deps.OpenStore = OpenStore
	}
	r := &runner{deps: deps}

	root := &cobra.Command{
		Use:           "modelseed",
		Short:         "Populate a database with fake model instances",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(r.seedCmd(), r.applyCmd(), r.appsCmd())
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute(deps Deps) {
	root := NewRootCmd(deps)
	if err := root.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "Error:", err)
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// setup loads configuration, logging and tracing. The returned func flushes
// tracing.
func (r *runner) setup() (func(), error) {
	cfg, err := r.deps.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	r.cfg = cfg

	r.log = r.deps.Logger
	if r.log == nil {
		r.log = observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	}
	observability.Logger = r.log

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "modelseed",
		ServiceVersion: Version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			r.log.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}

// openSeeder opens the backend and returns the cached seeder for locale.
func (r *runner) openSeeder(ctx context.Context, dryRun bool, locale string, models []any) (*seeder.Seeder, *Backend, error) {
	backend, err := r.deps.OpenStore(ctx, r.cfg, dryRun, models)
	if err != nil {
		return nil, nil, err
	}
	reg := seed.NewRegistry(backend.Store,
		seed.WithLanguageCode(r.cfg.LanguageCode),
		seed.WithFakerSeed(r.cfg.FakerSeed),
		seed.WithLocation(r.cfg.Location()),
		seed.WithLogger(r.log),
		seed.WithParser(backend.Parser),
	)
	s, err := reg.Seeder(locale)
	if err != nil {
		_ = backend.Close()
		return nil, nil, &CommandError{Arg: "locale", Value: locale, Err: err}
	}
	return s, backend, nil
}

// OpenStore opens the store selected by cfg: a dry run, plain SQL inserts,
// or gorm. Gorm databases outside production are migrated first.
func OpenStore(ctx context.Context, cfg *config.Config, dryRun bool, models []any) (*Backend, error) {
	if dryRun {
		return &Backend{
			Store:  store.NewDryRun(observability.Logger),
			Parser: entity.NewParser(nil),
			Close:  func() error { return nil },
		}, nil
	}

	if cfg.SeedStore == "sql" {
		st, err := store.OpenSQL(ctx, store.Dialect(cfg.DBDriver), cfg.DSN())
		if err != nil {
			return nil, err
		}
		return &Backend{Store: st, Parser: entity.NewParser(nil), Close: st.Close}, nil
	}

	db, err := database.Connect(cfg, observability.Logger)
	if err != nil {
		return nil, err
	}
	if !cfg.IsProduction() {
		if err := database.Migrate(ctx, db, models); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}
	return &Backend{
		Store:  store.NewGormStore(db),
		Parser: entity.ParserFor(db),
		Close:  func() error { return database.Close(db) },
	}, nil
}

func printSummary(w io.Writer, inserted seeder.Inserted, dryRun bool) {
	names := make([]string, 0, len(inserted))
	total := 0
	for name, keys := range inserted {
		names = append(names, name)
		total += len(keys)
	}
	sort.Strings(names)

	heading := color.New(color.FgGreen, color.Bold)
	if dryRun {
		heading.Fprintf(w, "Dry run: would seed %d rows\n", total)
	} else {
		heading.Fprintf(w, "Seeded %d rows\n", total)
	}
	for _, name := range names {
		fmt.Fprintf(w, "  %-20s ", name)
		color.New(color.FgYellow).Fprintf(w, "%d\n", len(inserted[name]))
	}
}
