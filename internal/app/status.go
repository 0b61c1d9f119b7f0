package app

import (
	"fmt"

	"github.com/specialistvlad/aero/internal/registry"
)

// Status is a point-in-time view of what the process has loaded.
type Status struct {
	Libraries []string       `json:"libraries"`
	Plugins   []PluginStatus `json:"plugins"`
	Missing   []string       `json:"missing,omitempty"`
}

// PluginStatus describes one registered plugin.
type PluginStatus struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Snapshot captures the current libraries and plugins, and which of the
// expected names are not registered.
func (a *App) Snapshot(expect []string) *Status {
	s := &Status{
		Libraries: a.loader.Loaded(),
		Plugins:   []PluginStatus{},
	}
	for _, name := range a.registry.Names() {
		p, ok := a.registry.Get(name)
		if !ok {
			continue
		}
		ps := PluginStatus{Name: name, Type: fmt.Sprintf("%T", p)}
		if d, ok := registry.As[registry.Describer](p); ok {
			ps.Description = d.Describe()
		}
		s.Plugins = append(s.Plugins, ps)
	}
	for _, name := range expect {
		if _, ok := a.registry.Get(name); !ok {
			s.Missing = append(s.Missing, name)
		}
	}
	return s
}
