package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cargograph/pkg/manifest"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func rel(t *testing.T, root string, docs []*manifest.Document) []string {
	t.Helper()
	var out []string
	for _, d := range docs {
		r, err := filepath.Rel(root, d.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "Cargo.toml"), "[workspace]\nmembers = []\n")
	write(t, filepath.Join(root, "a", "Cargo.toml"), "[package]\nname = \"a\"\n")
	write(t, filepath.Join(root, "a", "deep", "nested", "Cargo.toml"), "[package]\nname = \"n\"\n")
	write(t, filepath.Join(root, "b", "broken.toml"), "[package\n")
	write(t, filepath.Join(root, "b", "notes.txt"), "hello")
	write(t, filepath.Join(root, "orphan", "Cargo.toml"), "[package]\nname = \"orphan\"\n")

	docs := Scan(root, Options{})
	assert.Equal(t, []string{
		"Cargo.toml",
		"a/Cargo.toml",
		"a/deep/nested/Cargo.toml",
		"orphan/Cargo.toml",
	}, rel(t, root, docs))
}

func TestScanIgnoredPaths(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "keep", "Cargo.toml"), "[package]\nname = \"keep\"\n")
	write(t, filepath.Join(root, "target", "debug", "Cargo.toml"), "[package]\nname = \"build\"\n")
	write(t, filepath.Join(root, "vendor-x", "Cargo.toml"), "[package]\nname = \"vendored\"\n")
	write(t, filepath.Join(root, "keep", "fixture.toml"), "x = 1\n")

	var logged int
	docs := Scan(root, Options{
		IgnoredPaths: []string{"target", "vendor", "fixture"},
		Logger:       func(string, ...any) { logged++ },
	})
	assert.Equal(t, []string{"keep/Cargo.toml"}, rel(t, root, docs))
	assert.Positive(t, logged)
}

func TestScanMissingRoot(t *testing.T) {
	assert.Empty(t, Scan(filepath.Join(t.TempDir(), "absent"), Options{}))
}

func TestOptionsIgnored(t *testing.T) {
	opts := Options{IgnoredPaths: []string{"", "target"}}
	assert.True(t, opts.Ignored("/src/target/Cargo.toml"))
	assert.False(t, opts.Ignored("/src/Target/Cargo.toml"), "matching is case-sensitive")
	assert.False(t, opts.Ignored("/src/Cargo.toml"), "empty substrings never match")
}
