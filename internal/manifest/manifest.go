package manifest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/aero/internal/ctxlog"
	"github.com/specialistvlad/aero/internal/fsutil"
)

// Manifest is the merged result of every manifest file.
type Manifest struct {
	Libraries   []Library
	SearchPaths []string
	// Expect lists plugin names that should be registered once every
	// library is loaded, deduplicated, in first-seen order.
	Expect []string
}

// Library is a single shared library to load.
type Library struct {
	Name     string
	Path     string
	Optional bool
	// Source is the manifest file that declared the library.
	Source string
}

// fileRoot is the schema of a single manifest file.
type fileRoot struct {
	Libraries   []*libraryBlock `hcl:"library,block"`
	SearchPaths []string        `hcl:"search_paths,optional"`
	Expect      []string        `hcl:"expect,optional"`
}

type libraryBlock struct {
	Name     string `hcl:"name,label"`
	Path     string `hcl:"path"`
	Optional bool   `hcl:"optional,optional"`
}

// Loader reads manifest files.
type Loader struct {
	environ []string
}

// NewLoader creates a manifest loader whose env variable is built from
// environ, in os.Environ form.
func NewLoader(environ []string) *Loader {
	return &Loader{environ: environ}
}

// Load reads every .hcl file found under paths and merges them. A path that
// does not exist is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "files", files)

	parser := hclparse.NewParser()
	env := environMap(l.environ)
	m := &Manifest{}
	libraries := make(map[string]Library)
	expected := make(map[string]struct{})

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}

		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve manifest %s: %w", file, err)
		}
		dir := filepath.Dir(abs)

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, newEvalContext(env, dir), &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		for _, block := range root.Libraries {
			if prev, exists := libraries[block.Name]; exists {
				return nil, fmt.Errorf("library %q declared in %s is already declared in %s", block.Name, file, prev.Source)
			}
			if block.Path == "" {
				return nil, fmt.Errorf("library %q in %s: path must not be empty", block.Name, file)
			}
			lib := Library{
				Name:     block.Name,
				Path:     resolve(dir, block.Path),
				Optional: block.Optional,
				Source:   file,
			}
			libraries[lib.Name] = lib
			m.Libraries = append(m.Libraries, lib)
		}
		for _, sp := range root.SearchPaths {
			m.SearchPaths = append(m.SearchPaths, resolve(dir, sp))
		}
		for _, name := range root.Expect {
			if _, seen := expected[name]; seen {
				continue
			}
			expected[name] = struct{}{}
			m.Expect = append(m.Expect, name)
		}
		logger.Debug("Loaded manifest file.", "file", file, "libraries", len(root.Libraries))
	}

	logger.Debug("Manifest loading complete.", "libraries", len(m.Libraries), "search_paths", len(m.SearchPaths), "expect", len(m.Expect))
	return m, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// Diagnostics is re-exported so callers can inspect parse failures with
// errors.As without importing hcl directly.
type Diagnostics = hcl.Diagnostics
