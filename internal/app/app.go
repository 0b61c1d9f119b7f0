package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/specialistvlad/aero/internal/ctxlog"
	"github.com/specialistvlad/aero/internal/loader"
	"github.com/specialistvlad/aero/internal/manifest"
	"github.com/specialistvlad/aero/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     *loader.Loader
	registry   *registry.Registry
	manifests  *manifest.Loader
	environ    []string
	httpServer *http.Server
	status     atomic.Pointer[Status]
}

// Option customizes an App.
type Option func(*App)

// WithLoader replaces the process-wide loader, mostly for tests.
func WithLoader(l *loader.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithRegistry replaces the process-wide registry, mostly for tests.
func WithRegistry(r *registry.Registry) Option {
	return func(a *App) { a.registry = r }
}

// WithEnviron sets the environment visible to manifests as env.
func WithEnviron(environ []string) Option {
	return func(a *App) { a.environ = environ }
}

// NewApp is the constructor for the main application. Unless overridden,
// the app works against the process-wide loader and registry.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		ctx:     ctxlog.WithLogger(ctx, logger),
		outW:    outW,
		logger:  logger,
		config:  cfg,
		environ: os.Environ(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.loader == nil {
		a.loader = loader.Default()
	}
	if a.registry == nil {
		a.registry = registry.Default()
	}
	a.manifests = manifest.NewLoader(a.environ)
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Close tears down the registry and then the loader, so no plugin outlives
// the library that holds its code.
func (a *App) Close() error {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Closing application...")

	return errors.Join(
		a.closeHealthCheckServer(),
		a.registry.Close(),
		a.loader.Close(),
	)
}
