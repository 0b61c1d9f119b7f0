package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/aero/internal/ctxlog"
	"github.com/specialistvlad/aero/internal/loader"
	"github.com/specialistvlad/aero/internal/manifest"
	"github.com/specialistvlad/aero/internal/registry"
)

// MissingPluginsError reports expected plugin names that were not
// registered after every library was loaded. Duplicate self-registrations
// are absorbed silently, so this is where their effect becomes visible.
type MissingPluginsError struct {
	Names []string
}

// Error implements the error interface for MissingPluginsError.
func (e *MissingPluginsError) Error() string {
	return fmt.Sprintf("expected plugins not registered: %s", strings.Join(e.Names, ", "))
}

// Run loads the manifests, brings in every library they name, absorbs the
// plugins those libraries declared, and reports the result. With a
// healthcheck port configured it then serves status until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	m, err := a.manifests.Load(ctx, a.config.ManifestPaths...)
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	if err := a.loadLibraries(ctx, m); err != nil {
		return err
	}

	accepted := registry.DrainInto(a.registry)
	a.logger.Debug("Declared plugins absorbed.", "accepted", accepted)

	status := a.Snapshot(m.Expect)
	a.status.Store(status)
	a.printStatus(status)

	if len(status.Missing) > 0 {
		return &MissingPluginsError{Names: status.Missing}
	}

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer()
		<-ctx.Done()
		a.logger.Info("Shutdown requested.")
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) loadLibraries(ctx context.Context, m *manifest.Manifest) error {
	logger := ctxlog.FromContext(ctx)

	for _, lib := range m.Libraries {
		err := a.loader.Load(lib.Path)
		switch {
		case err == nil:
			logger.Info("Library loaded.", "name", lib.Name, "path", lib.Path)
		case errors.Is(err, loader.ErrAlreadyLoaded):
			logger.Debug("Library already loaded.", "name", lib.Name, "path", lib.Path)
		case lib.Optional:
			logger.Warn("Optional library not loaded.", "name", lib.Name, "error", err)
		default:
			return fmt.Errorf("failed to load library %q from %s: %w", lib.Name, lib.Source, err)
		}
	}

	for _, dir := range m.SearchPaths {
		n, err := a.loader.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to load libraries from %s: %w", dir, err)
		}
		logger.Info("Search path scanned.", "path", dir, "loaded", n)
	}
	return nil
}

func (a *App) printStatus(s *Status) {
	fmt.Fprintf(a.outW, "Libraries (%d):\n", len(s.Libraries))
	for _, lib := range s.Libraries {
		fmt.Fprintf(a.outW, "  %s\n", lib)
	}
	fmt.Fprintf(a.outW, "Plugins (%d):\n", len(s.Plugins))
	for _, p := range s.Plugins {
		if p.Description != "" {
			fmt.Fprintf(a.outW, "  %s\t%s\t%s\n", p.Name, p.Type, p.Description)
		} else {
			fmt.Fprintf(a.outW, "  %s\t%s\n", p.Name, p.Type)
		}
	}
	if len(s.Missing) > 0 {
		fmt.Fprintf(a.outW, "Missing (%d):\n", len(s.Missing))
		for _, name := range s.Missing {
			fmt.Fprintf(a.outW, "  %s\n", name)
		}
	}
}
