package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cargograph/pkg/manifest"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(content), 0o644))
}

func names(docs []*manifest.Document) []string {
	var out []string
	for _, d := range docs {
		if n, ok := d.PackageName(); ok {
			out = append(out, n)
		} else {
			out = append(out, "<"+filepath.Base(d.Dir())+">")
		}
	}
	return out
}

func pkg(name string, deps ...string) string {
	s := fmt.Sprintf("[package]\nname = %q\n\n[dependencies]\n", name)
	for _, d := range deps {
		s += d + "\n"
	}
	return s
}

func TestResolveMembers(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "root"

[dependencies]

[workspace]
members = ["sub_a", "sub_b"]
`)
	writeManifest(t, filepath.Join(root, "sub_a"), pkg("sub_a"))
	writeManifest(t, filepath.Join(root, "sub_b"), pkg("sub_b"))

	docs := New(Options{}).Resolve(root)
	assert.Equal(t, []string{"root", "sub_a", "sub_b"}, names(docs))
}

func TestResolveVirtualWorkspace(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[workspace]
members = ["sub_a", "sub_b"]
`)
	writeManifest(t, filepath.Join(root, "sub_a"), pkg("sub_a"))
	writeManifest(t, filepath.Join(root, "sub_b"), pkg("sub_b"))

	docs := New(Options{}).Resolve(root)
	require.Len(t, docs, 3)
	assert.Equal(t, []string{"<" + filepath.Base(root) + ">", "sub_a", "sub_b"}, names(docs))
}

func TestResolvePathDependencies(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "app"

[dependencies]
serde = "1"
core = { path = "libs/core" }

[workspace]
members = ["cli"]
`)
	writeManifest(t, filepath.Join(root, "cli"), pkg("cli"))
	writeManifest(t, filepath.Join(root, "libs", "core"), pkg("core", `util = { path = "../util" }`))
	writeManifest(t, filepath.Join(root, "libs", "util"), pkg("util"))

	docs := New(Options{}).Resolve(root)
	assert.Equal(t, []string{"app", "cli", "core", "util"}, names(docs), "members come before path dependencies")
}

func TestResolveToleratesMissingChildren(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[workspace]
members = ["gone", "present"]
`)
	writeManifest(t, filepath.Join(root, "present"), pkg("present"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	docs := New(Options{}).Resolve(root)
	assert.Equal(t, []string{"<" + filepath.Base(root) + ">", "present"}, names(docs))
}

func TestResolveNoManifest(t *testing.T) {
	assert.Empty(t, New(Options{}).Resolve(t.TempDir()))
}

func TestResolveTerminatesOnCycle(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a"), pkg("a", `b = { path = "../b" }`))
	writeManifest(t, filepath.Join(root, "b"), pkg("b", `a = { path = "../a" }`))

	var logged []string
	r := New(Options{Logger: func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}})
	docs := r.Resolve(filepath.Join(root, "a"))
	assert.Equal(t, []string{"a", "b"}, names(docs))
	assert.NotEmpty(t, logged, "revisit should be logged")
}

func TestResolveSelfReference(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, pkg("me", `me = { path = "." }`))

	docs := New(Options{}).Resolve(root)
	assert.Equal(t, []string{"me"}, names(docs))
}

func TestResolveAliasedPaths(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[workspace]
members = ["lib", "./lib", "other/../lib"]
`)
	writeManifest(t, filepath.Join(root, "lib"), pkg("lib"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "other"), 0o755))

	docs := New(Options{}).Resolve(root)
	assert.Len(t, docs, 2)
}

func TestResolveIsRepeatable(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, pkg("solo"))

	r := New(Options{})
	assert.Len(t, r.Resolve(root), 1)
	assert.Len(t, r.Resolve(root), 1, "visited set resets between calls")
}

func TestMembersGlobAndExclude(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[workspace]
members = ["crates/*", "tools"]
exclude = ["crates/legacy"]
`)
	writeManifest(t, filepath.Join(root, "crates", "b"), pkg("b"))
	writeManifest(t, filepath.Join(root, "crates", "a"), pkg("a"))
	writeManifest(t, filepath.Join(root, "crates", "legacy"), pkg("legacy"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "crates", "docs"), 0o755))

	doc, ok := manifest.Locate(root)
	require.True(t, ok)
	got := Members(doc)
	assert.Equal(t, []string{
		filepath.Join("crates", "a"),
		filepath.Join("crates", "b"),
		"tools",
	}, got)
}

func TestPathDependencies(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[package]
name = "app"

[dependencies]
a = { path = "../a" }
b = "1.0"
c = { version = "2" }

[dev-dependencies]
d = { path = "../d" }
`)
	doc, ok := manifest.Locate(root)
	require.True(t, ok)

	assert.Equal(t, []string{"../a"}, PathDependencies(doc))
	assert.Equal(t, []string{"../a", "../d"}, PathDependencies(doc, "dependencies", "dev-dependencies"))
}

func TestResolveFollowsConfiguredTables(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "app"), `[package]
name = "app"

[dependencies]

[dev-dependencies]
fixtures = { path = "../fixtures" }
`)
	writeManifest(t, filepath.Join(root, "fixtures"), pkg("fixtures"))

	assert.Len(t, New(Options{}).Resolve(filepath.Join(root, "app")), 1)
	assert.Len(t, New(Options{Tables: []string{"dependencies", "dev-dependencies"}}).Resolve(filepath.Join(root, "app")), 2)
}
