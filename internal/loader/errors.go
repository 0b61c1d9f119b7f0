package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyLoaded is returned when the canonical path was loaded before.
	ErrAlreadyLoaded = errors.New("library already loaded")
	// ErrLoadFailed is matched by every *LoadError.
	ErrLoadFailed = errors.New("library load failed")
	// ErrEmptyPath is returned for an empty library path.
	ErrEmptyPath = errors.New("library path must not be empty")
	// ErrClosed is returned by Load after Close.
	ErrClosed = errors.New("loader is closed")
	// ErrUnsupported is wrapped in a *LoadError on platforms without
	// shared library support.
	ErrUnsupported = errors.New("shared libraries are not supported on this platform")
)

// LoadError carries the platform diagnostic for a library that could not be
// opened. It matches both ErrLoadFailed and the underlying error.
type LoadError struct {
	Path string
	Err  error
}

// Error implements the error interface for LoadError.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load library %s: %v", e.Path, e.Err)
}

// Unwrap exposes ErrLoadFailed and the platform error to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailed, e.Err}
}
