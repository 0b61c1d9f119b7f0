//go:build linux || darwin || freebsd

package loader_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/aero/internal/loader"
	"github.com/specialistvlad/aero/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPetsLibrary compiles modules/pets as a Go plugin into a temp dir.
// It skips the test where plugins cannot be built on this machine.
func buildPetsLibrary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds a plugin library; skipped in -short mode")
	}
	goTool, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go tool not found in PATH")
	}

	out := filepath.Join(t.TempDir(), "pets"+loader.LibraryExt)
	cmd := exec.Command(goTool, "build", "-buildmode=plugin", "-o", out, "./modules/pets")
	cmd.Dir = filepath.Join("..", "..")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot build plugin library: %v\n%s", err, output)
	}
	return out
}

func TestLoad_RealPluginRegistersDeclarations(t *testing.T) {
	// --- Arrange ---
	path := buildPetsLibrary(t)
	l := loader.New()
	t.Cleanup(func() { _ = l.Close() })
	reg := registry.New()
	t.Cleanup(func() { _ = reg.Close() })

	// --- Act ---
	err := l.Load(path)
	if err != nil && strings.Contains(err.Error(), "different version of package") {
		// The test binary was built with flags (-race, -cover) the plugin was not.
		t.Skipf("plugin and test binary were built differently: %v", err)
	}
	require.NoError(t, err)
	registry.DrainInto(reg)

	// --- Assert ---
	canonical, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Clean(canonical)}, l.Loaded())

	for _, name := range []string{"pet", "cat", "hello_parrot"} {
		_, ok := reg.Get(name)
		assert.True(t, ok, "plugin %q should have self-registered from the library", name)
	}
	d, ok := registry.Lookup[registry.Describer](reg, "cat")
	require.True(t, ok)
	assert.Equal(t, "says Meow", d.Describe())

	require.ErrorIs(t, l.Load(path), loader.ErrAlreadyLoaded)
}
