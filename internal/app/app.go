package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/specialistvlad/voxelforge/internal/catalog"
	"github.com/specialistvlad/voxelforge/internal/config"
	"github.com/specialistvlad/voxelforge/internal/ctxlog"
	"github.com/specialistvlad/voxelforge/internal/hcl_adapter"
	"github.com/specialistvlad/voxelforge/internal/inmemorystore"
	"github.com/specialistvlad/voxelforge/internal/material"
	"github.com/specialistvlad/voxelforge/internal/notify"
	"github.com/specialistvlad/voxelforge/internal/registry"
	"github.com/specialistvlad/voxelforge/internal/sqlitestore"
	"github.com/specialistvlad/voxelforge/internal/world"
	"github.com/specialistvlad/voxelforge/internal/yaml_adapter"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	palette  *material.Palette
	registry *registry.Registry
	catalog  *catalog.Catalog
	world    world.World
	closers  []func() error
	notifier notify.Notifier
	rng      *rand.Rand
}

// NewApp is the constructor for the main application. Command output goes
// to outW and logs to logW. With no modules the core modules are used.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		palette:  material.DefaultPalette(),
		registry: reg,
		notifier: notify.Nop{},
	}
	if cfg.Seed != 0 {
		a.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}

	loaders := config.Loaders{hcl_adapter.NewLoader(), yaml_adapter.NewLoader()}
	a.catalog = catalog.New(reg, a.palette, loaders, catalog.WithRand(a.rng))

	if err := a.openWorld(ctx); err != nil {
		return nil, err
	}

	if cfg.NotifyURL != "" {
		pub, err := notify.NewPublisher(notify.Config{
			URL:       cfg.NotifyURL,
			Namespace: cfg.NotifyNamespace,
			Timeout:   cfg.NotifyTimeout,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to configure notifier: %w", err)
		}
		a.notifier = pub
		logger.Debug("Placement notifier configured.", "url", cfg.NotifyURL)
	}

	return a, nil
}

func (a *App) openWorld(ctx context.Context) error {
	if a.config.WorldPath == "" {
		a.world = inmemorystore.New(inmemorystore.WithPalette(a.palette))
		a.logger.Debug("Using in-memory world.")
		return nil
	}
	store, err := sqlitestore.Open(ctx, a.config.WorldPath, a.palette)
	if err != nil {
		return err
	}
	a.world = store
	a.closers = append(a.closers, store.Close)
	a.logger.Debug("Using SQLite world.", "path", a.config.WorldPath)
	return nil
}

// Close releases the world backend.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Catalog returns the loaded objects.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// World returns the world the commands read and write.
func (a *App) World() world.World {
	return a.world
}

// SetNotifier replaces the placement notifier.
func (a *App) SetNotifier(n notify.Notifier) {
	a.notifier = n
}

// withLogger attaches the application logger to ctx.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
