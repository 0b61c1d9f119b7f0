//go:build linux || darwin || freebsd

package loader

import "plugin"

// pluginHandle pins a Go plugin. The Go runtime cannot unmap a plugin, so
// releasing it only drops the reference.
type pluginHandle struct {
	p *plugin.Plugin
}

func (h *pluginHandle) Close() error {
	h.p = nil
	return nil
}

// openLibrary opens a Go plugin. plugin.Open resolves symbols eagerly and
// runs the plugin's package initializers before returning.
func openLibrary(path string) (Handle, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &pluginHandle{p: p}, nil
}
