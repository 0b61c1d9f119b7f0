package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Plugin is the base capability every registered instance provides.
type Plugin interface {
	// Release is called exactly once by the owning registry, either when a
	// registration is rejected or when the registry is closed.
	Release()
}

// Base is an embeddable no-op Release for plugins that hold no resources.
type Base struct{}

// Release implements Plugin.
func (Base) Release() {}

// Registry is a thread-safe map from plugin name to an owned Plugin.
// The zero value is not usable; call New.
type Registry struct {
	mu      sync.Mutex
	plugins map[string]Plugin
	closed  bool
}

// New creates an empty, locally scoped registry. It shares no state with
// Default or with any other registry.
func New() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
	}
}

// Register transfers ownership of p to the registry under name.
//
// On failure the registry releases p before returning, so the caller must
// not use p again either way. The one exception is registering the stored
// instance again under its own name: that fails with ErrNameTaken and leaves
// the instance untouched, since the registry still owns it. The same
// instance must not be registered under two names.
func (r *Registry) Register(name string, p Plugin) error {
	if p == nil {
		return fmt.Errorf("register %q: %w", name, ErrNilPlugin)
	}

	r.mu.Lock()
	var err error
	owned := false
	if r.closed {
		err = ErrClosed
	} else if existing, exists := r.plugins[name]; exists {
		err = ErrNameTaken
		owned = sameInstance(existing, p)
	} else {
		r.plugins[name] = p
	}
	r.mu.Unlock()

	if err != nil {
		if !owned {
			release(name, p)
		}
		return fmt.Errorf("register %q: %w", name, err)
	}
	slog.Debug("Registered plugin.", "name", name, "type", fmt.Sprintf("%T", p))
	return nil
}

// Get returns the plugin registered under name. The returned value remains
// owned by the registry and is only valid until Close.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plugins[name]
	return p, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

// Len reports how many plugins are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.plugins)
}

// Close releases every registered plugin exactly once, in no particular
// order. Later registrations fail with ErrClosed and later lookups find
// nothing. Close always returns nil; it exists to satisfy io.Closer.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	plugins := r.plugins
	r.plugins = make(map[string]Plugin)
	r.mu.Unlock()

	for name, p := range plugins {
		release(name, p)
	}
	slog.Debug("Registry closed.", "released", len(plugins))
	return nil
}

// sameInstance reports whether a and b are the same pointer. Values of
// other kinds are never treated as the same instance, which also keeps the
// comparison away from uncomparable dynamic types.
func sameInstance(a, b Plugin) bool {
	if reflect.ValueOf(a).Kind() != reflect.Pointer {
		return false
	}
	return a == b
}

// release calls p.Release, keeping a panicking plugin from aborting the
// teardown of the others.
func release(name string, p Plugin) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Plugin panicked during release.", "name", name, "panic", rec)
		}
	}()
	p.Release()
}
