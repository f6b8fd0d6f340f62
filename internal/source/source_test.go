package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/core/signals.js", `export const signal = () => {};`)
	writeFile(t, root, "src/core/util.mjs", `export {};`)
	writeFile(t, root, "src/tooling/build.js", `require("fs");`)
	writeFile(t, root, "src/core/README.md", `docs`)
	writeFile(t, root, "src/node_modules/dep/index.js", `module.exports = {};`)
	writeFile(t, root, "src/core/bundle.min.js", `!function(){}();`)

	p, err := NewProvider(root, []string{".js", ".mjs"}, []string{"node_modules"}, []string{"*.min.js"})
	require.NoError(t, err)

	files, err := p.Discover([]string{"src"})
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		"src/core/signals.js",
		"src/core/util.mjs",
		"src/tooling/build.js",
	}, paths, "sorted, excludes applied, non-source files skipped")

	assert.Equal(t, `export const signal = () => {};`, files[0].Text)
}

func TestDiscover_Gitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "src/generated/\n")
	writeFile(t, root, "src/core/a.js", `export {};`)
	writeFile(t, root, "src/generated/types.js", `export {};`)

	p, err := NewProvider(root, []string{".js"}, nil, nil)
	require.NoError(t, err)

	files, err := p.Discover([]string{"src"})
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "src/core/a.js", files[0].Path)
}

func TestDiscover_MissingDir(t *testing.T) {
	root := t.TempDir()

	p, err := NewProvider(root, []string{".js"}, nil, nil)
	require.NoError(t, err)

	// A missing configured dir is logged and produces no files, not a crash.
	files, err := p.Discover([]string{"src"})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestReadTarget(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/core/a.js", `export {};`)

	p, err := NewProvider(root, []string{".js"}, nil, nil)
	require.NoError(t, err)

	f, err := p.ReadTarget("src/core/a.js")
	require.NoError(t, err)
	assert.Equal(t, "src/core/a.js", f.Path)
	assert.Equal(t, `export {};`, f.Text)

	_, err = p.ReadTarget("src/core/missing.js")
	require.Error(t, err, "explicit target misses are fatal")
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"./src/core/a.js":  "src/core/a.js",
		"src/core/../x.js": "src/x.js",
		"src//core/a.js":   "src/core/a.js",
	}
	for in, want := range tests {
		assert.Equal(t, want, Canonical(in))
	}
}
