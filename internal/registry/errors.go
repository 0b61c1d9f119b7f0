package registry

import "errors"

var (
	// ErrNameTaken is returned by Register when the name is already in use.
	// The existing entry is left untouched.
	ErrNameTaken = errors.New("plugin name already registered")
	// ErrNilPlugin is returned by Register when given a nil plugin.
	ErrNilPlugin = errors.New("plugin must not be nil")
	// ErrClosed is returned by Register once the registry has been closed.
	ErrClosed = errors.New("registry is closed")
)
