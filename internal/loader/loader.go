package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/specialistvlad/aero/internal/fsutil"
)

// LibraryExt is the file extension LoadDir looks for.
const LibraryExt = ".so"

// Handle is an opaque token for a library mapped into the process.
type Handle interface {
	// Close gives the library back to the platform. It is only called when
	// the owning Loader is closed.
	Close() error
}

// OpenFunc maps the library at an absolute path into the process.
type OpenFunc func(path string) (Handle, error)

// Loader owns every library it has opened. The zero value is not usable;
// call New or NewWithOpener.
type Loader struct {
	mu      sync.Mutex
	open    OpenFunc
	handles map[string]Handle
	closed  bool
}

// New returns a loader backed by the platform's shared library support.
func New() *Loader {
	return NewWithOpener(openLibrary)
}

// NewWithOpener returns a loader that opens libraries with open.
func NewWithOpener(open OpenFunc) *Loader {
	return &Loader{
		open:    open,
		handles: make(map[string]Handle),
	}
}

var defaultLoader = sync.OnceValue(New)

// Default returns the process-wide loader, built on first use.
func Default() *Loader {
	return defaultLoader()
}

// Load opens the library at path and keeps it for the life of the loader.
//
// Loading a path twice is a caller error and yields ErrAlreadyLoaded. A
// platform failure yields a *LoadError and leaves the loader unchanged.
// Loads are serialized; the library's initializers run while the loader's
// lock is held, so they must not call back into this Loader.
func (l *Loader) Load(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	canonical, err := canonicalize(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	if _, exists := l.handles[canonical]; exists {
		return fmt.Errorf("%s: %w", canonical, ErrAlreadyLoaded)
	}

	handle, err := l.open(canonical)
	if err != nil {
		return &LoadError{Path: canonical, Err: err}
	}
	l.handles[canonical] = handle
	slog.Debug("Loaded library.", "path", canonical)
	return nil
}

// LoadDir loads every library file under dir and returns how many were
// newly loaded. Libraries that were already loaded are skipped; all other
// failures are joined into the returned error.
func (l *Loader) LoadDir(dir string) (int, error) {
	paths, err := fsutil.FindFilesByExtension(LibraryExt, dir)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", dir, err)
	}

	loaded := 0
	var errs []error
	for _, path := range paths {
		switch err := l.Load(path); {
		case err == nil:
			loaded++
		case errors.Is(err, ErrAlreadyLoaded):
			slog.Debug("Library already loaded; skipped.", "path", path)
		default:
			errs = append(errs, err)
		}
	}
	return loaded, errors.Join(errs...)
}

// Loaded returns the canonical paths of every held library, sorted.
func (l *Loader) Loaded() []string {
	l.mu.Lock()
	paths := make([]string, 0, len(l.handles))
	for path := range l.handles {
		paths = append(paths, path)
	}
	l.mu.Unlock()

	sort.Strings(paths)
	return paths
}

// Close releases every held library. Release failures are logged and
// otherwise ignored; Close always returns nil. After Close, Load fails with
// ErrClosed.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	for path, handle := range l.handles {
		if err := handle.Close(); err != nil {
			slog.Debug("Library release failed.", "path", path, "error", err)
		}
	}
	slog.Debug("Loader closed.", "released", len(l.handles))
	l.handles = make(map[string]Handle)
	return nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
