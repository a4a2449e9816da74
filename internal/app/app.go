package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/wfscript/internal/ctxlog"
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/specialistvlad/wfscript/internal/rules"
	"github.com/specialistvlad/wfscript/internal/transpile"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	registry   *registry.Registry
	transpiler *transpile.Transpiler
	config     *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own isolated logger and registry. When modules
// is empty the compiled-in catalogs are registered unless the config opts
// out. A schema source that cannot be loaded is a fatal startup error and
// panics.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 && !cfg.NoBuiltin {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All compiled-in catalogs registered.", "count", len(modules), "operations", reg.Len())

	if err := loadSchemaSources(ctx, reg, cfg); err != nil {
		panic(fmt.Errorf("failed to load schemas: %w", err))
	}

	// Validate the integrity of the registry.
	if err := reg.ValidateRegistry(ctx); err != nil {
		panic(err)
	}

	tables := rules.Default()
	if err := tables.Apply(cfg.Rules); err != nil {
		panic(fmt.Errorf("invalid rule extensions: %w", err))
	}

	tr := transpile.New(reg, transpile.Options{
		Format:        cfg.ArgsFormat,
		Rules:         tables,
		Runtime:       cfg.Runtime,
		RuntimeModule: cfg.RuntimeModule,
	})

	return &App{
		outW:       outW,
		logger:     logger,
		registry:   reg,
		transpiler: tr,
		config:     cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
