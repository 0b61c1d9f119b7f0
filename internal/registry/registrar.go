package registry

import (
	"log/slog"
	"sync"
)

// Factory builds the plugin instance for a declaration.
type Factory func() Plugin

// Registrar is the token returned by Declare. It carries no state; its only
// purpose is to let a declaration sit in a package-level var block.
type Registrar struct{}

type declaration struct {
	name    string
	factory Factory
}

var (
	pendingMu sync.Mutex
	pending   []declaration

	// drainMu serializes draining so the first declaration of a name always
	// wins, even when several goroutines call Default at once.
	drainMu sync.Mutex

	defaultRegistry = sync.OnceValue(New)
)

// Declare queues a plugin for registration in the process-wide registry.
//
// It never fails. The factory runs the next time Default (or DrainInto) is
// called. If the name is already taken at that point, the new instance is
// released and the existing one survives, with no error reported to anyone.
func Declare(name string, factory Factory) Registrar {
	pendingMu.Lock()
	pending = append(pending, declaration{name: name, factory: factory})
	pendingMu.Unlock()
	return Registrar{}
}

// Default returns the process-wide registry, built on first use, after
// draining any pending declarations into it.
//
// Factories may call Default. If a drain is already running, Default
// returns without draining; the running drain picks up whatever is still
// pending before it finishes.
func Default() *Registry {
	r := defaultRegistry()
	if drainMu.TryLock() {
		drainPending(r)
		drainMu.Unlock()
	}
	return r
}

// DrainInto runs every pending declaration against r and reports how many
// were accepted. Declarations are consumed: each runs once, against
// whichever registry drains it first. DrainInto waits for a running drain,
// so a factory must not call it.
func DrainInto(r *Registry) int {
	drainMu.Lock()
	defer drainMu.Unlock()
	return drainPending(r)
}

// drainPending must be called with drainMu held.
func drainPending(r *Registry) int {
	accepted := 0
	for {
		pendingMu.Lock()
		batch := pending
		pending = nil
		pendingMu.Unlock()

		if len(batch) == 0 {
			return accepted
		}
		// A factory may itself call Declare; the loop picks those up.
		for _, d := range batch {
			if absorb(r, d) {
				accepted++
			}
		}
	}
}

func absorb(r *Registry, d declaration) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Plugin factory panicked; declaration dropped.", "name", d.name, "panic", rec)
			ok = false
		}
	}()

	if d.factory == nil {
		slog.Debug("Declaration has no factory; skipped.", "name", d.name)
		return false
	}
	if err := r.Register(d.name, d.factory()); err != nil {
		slog.Debug("Declared plugin not registered.", "name", d.name, "error", err)
		return false
	}
	return true
}
