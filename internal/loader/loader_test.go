package loader

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandle counts its releases.
type fakeHandle struct {
	path   string
	closes atomic.Int32
	err    error
}

func (h *fakeHandle) Close() error {
	h.closes.Add(1)
	return h.err
}

// fakeOpener stands in for the platform loader. Paths listed in missing
// fail the way a nonexistent file would.
type fakeOpener struct {
	mu      sync.Mutex
	opens   map[string]int
	handles []*fakeHandle
	missing map[string]bool
}

func newFakeOpener(missing ...string) *fakeOpener {
	f := &fakeOpener{opens: map[string]int{}, missing: map[string]bool{}}
	for _, m := range missing {
		f.missing[m] = true
	}
	return f
}

func (f *fakeOpener) open(path string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens[path]++
	if f.missing[filepath.Base(path)] {
		return nil, errors.New(path + ": cannot open shared object file: No such file or directory")
	}
	h := &fakeHandle{path: path}
	f.handles = append(f.handles, h)
	return h, nil
}

func TestLoad_TwiceYieldsAlreadyLoaded(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	opener := newFakeOpener()
	l := NewWithOpener(opener.open)
	path := filepath.Join(t.TempDir(), "fruit.so")

	// --- Act ---
	first := l.Load(path)
	second := l.Load(path)

	// --- Assert ---
	require.NoError(t, first)
	require.ErrorIs(t, second, ErrAlreadyLoaded)
	assert.NotErrorIs(t, second, ErrLoadFailed)
	assert.Equal(t, 1, opener.opens[path], "the platform loader must only be asked once")
	assert.Equal(t, []string{path}, l.Loaded())
}

func TestLoad_CanonicalizesPaths(t *testing.T) {
	t.Parallel()
	opener := newFakeOpener()
	l := NewWithOpener(opener.open)
	dir := t.TempDir()

	require.NoError(t, l.Load(filepath.Join(dir, "lib.so")))
	err := l.Load(filepath.Join(dir, "nested", "..", "lib.so"))

	require.ErrorIs(t, err, ErrAlreadyLoaded)
	assert.Len(t, l.Loaded(), 1)
}

func TestLoad_FailureLeavesMapUnchanged(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	opener := newFakeOpener("missing.so")
	l := NewWithOpener(opener.open)
	path := filepath.Join(t.TempDir(), "missing.so")

	// --- Act ---
	err := l.Load(path)

	// --- Assert ---
	require.ErrorIs(t, err, ErrLoadFailed)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, path, loadErr.Path)
	assert.Contains(t, loadErr.Error(), "No such file or directory", "the platform diagnostic is preserved")
	assert.Empty(t, l.Loaded())

	// A failed load leaves no partial entry, so a retry reaches the platform again.
	require.ErrorIs(t, l.Load(path), ErrLoadFailed)
	assert.Equal(t, 2, opener.opens[path])
}

func TestLoad_NonexistentWithPlatformLoader(t *testing.T) {
	t.Parallel()
	l := New()
	path := filepath.Join(t.TempDir(), "does-not-exist.so")

	err := l.Load(path)

	require.ErrorIs(t, err, ErrLoadFailed)
	assert.Empty(t, l.Loaded())
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Parallel()
	opener := newFakeOpener()
	l := NewWithOpener(opener.open)

	require.ErrorIs(t, l.Load(""), ErrEmptyPath)
	assert.Empty(t, opener.opens)
}

func TestLoad_Concurrent(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	opener := newFakeOpener()
	l := NewWithOpener(opener.open)
	path := filepath.Join(t.TempDir(), "shared.so")
	const callers = 16

	var wg sync.WaitGroup
	var successes, duplicates atomic.Int32

	// --- Act ---
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch err := l.Load(path); {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrAlreadyLoaded):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	// --- Assert ---
	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(callers-1), duplicates.Load())
	assert.Equal(t, 1, opener.opens[path])
}

func TestClose_ReleasesEveryHandle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	opener := newFakeOpener()
	l := NewWithOpener(opener.open)
	dir := t.TempDir()
	for _, name := range []string{"a.so", "b.so", "c.so"} {
		require.NoError(t, l.Load(filepath.Join(dir, name)))
	}
	opener.handles[1].err = errors.New("release failed")

	// --- Act ---
	err := l.Close()

	// --- Assert ---
	require.NoError(t, err, "release failures are not escalated")
	for _, h := range opener.handles {
		assert.Equal(t, int32(1), h.closes.Load(), "handle %s", h.path)
	}
	assert.Empty(t, l.Loaded())

	require.NoError(t, l.Close())
	for _, h := range opener.handles {
		assert.Equal(t, int32(1), h.closes.Load(), "a second Close must not release again")
	}
	require.ErrorIs(t, l.Load(filepath.Join(dir, "d.so")), ErrClosed)
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	for _, name := range []string{"fruit.so", "pets/cat.so", "broken.so", "README.md"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
	opener := newFakeOpener("broken.so")
	l := NewWithOpener(opener.open)
	require.NoError(t, l.Load(filepath.Join(dir, "fruit.so")))

	// --- Act ---
	n, err := l.LoadDir(dir)

	// --- Assert ---
	assert.Equal(t, 1, n, "only pets/cat.so is new")
	require.ErrorIs(t, err, ErrLoadFailed)
	assert.NotErrorIs(t, err, ErrAlreadyLoaded)
	assert.Equal(t, []string{
		filepath.Join(dir, "fruit.so"),
		filepath.Join(dir, "pets", "cat.so"),
	}, l.Loaded())
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	t.Parallel()
	l := NewWithOpener(newFakeOpener().open)

	n, err := l.LoadDir(filepath.Join(t.TempDir(), "absent"))

	assert.Zero(t, n)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault_IsSingleton(t *testing.T) {
	t.Parallel()
	assert.Same(t, Default(), Default())
}
