// Package workspace discovers the manifests that make up a multi-package
// project by following workspace members and path dependencies.
//
// Starting from a root directory, [Resolver.Resolve] locates the manifest
// there, collects the relative directories named by workspace.members and by
// path dependencies, and recurses into each. The result is the root
// manifest followed by every child result, flattened in declaration order
// with members before path dependencies.
//
// Discovery is best effort. A directory without a parseable manifest simply
// contributes nothing; it never aborts resolution of its siblings or parent.
//
// Each physical directory is resolved at most once per call. Directories are
// keyed by their absolute, symlink-resolved path, so aliased member paths and
// path dependencies that point back at an ancestor terminate instead of
// recursing forever.
package workspace

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/cargograph/pkg/manifest"
)

// DefaultTables lists the dependency tables scanned for path dependencies
// when Options.Tables is empty.
var DefaultTables = []string{"dependencies"}

// Options configures workspace resolution.
type Options struct {
	Tables []string             // Dependency tables to follow (default: DefaultTables)
	Logger func(string, ...any) // Debug callback for skipped directories (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if len(opts.Tables) == 0 {
		opts.Tables = DefaultTables
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Resolver walks the workspace/path-dependency tree.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	opts    Options
	visited map[string]bool
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	return &Resolver{opts: opts.WithDefaults()}
}

// Resolve returns every manifest reachable from dir. The manifest in dir
// itself comes first. An empty result means dir has no parseable manifest.
func (r *Resolver) Resolve(dir string) []*manifest.Document {
	r.visited = make(map[string]bool)
	return r.resolve(dir)
}

func (r *Resolver) resolve(dir string) []*manifest.Document {
	key := canonical(dir)
	if r.visited[key] {
		r.opts.Logger("already resolved %s, skipping", dir)
		return nil
	}
	r.visited[key] = true

	doc, ok := manifest.Locate(dir)
	if !ok {
		r.opts.Logger("no manifest in %s", dir)
		return nil
	}

	children := append(Members(doc), PathDependencies(doc, r.opts.Tables...)...)
	out := []*manifest.Document{doc}
	for _, child := range children {
		out = append(out, r.resolve(filepath.Join(dir, child))...)
	}
	return out
}

// Members returns the workspace member directories declared by doc,
// relative to the manifest's directory.
//
// Entries containing glob metacharacters are expanded against the
// filesystem and only matching directories are kept. Entries listed in
// workspace.exclude are removed.
func Members(doc *manifest.Document) []string {
	ws := doc.Root.Get("workspace")
	declared := ws.Get("members").Strings()
	if len(declared) == 0 {
		return nil
	}

	excluded := make(map[string]bool)
	for _, e := range ws.Get("exclude").Strings() {
		excluded[filepath.Clean(e)] = true
	}

	dir := doc.Dir()
	var out []string
	for _, m := range declared {
		for _, p := range expand(dir, m) {
			if !excluded[filepath.Clean(p)] {
				out = append(out, p)
			}
		}
	}
	return out
}

func expand(dir, pattern string) []string {
	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}
	slices.Sort(matches)
	var out []string
	for _, m := range matches {
		if _, ok := manifest.Locate(m); !ok {
			continue
		}
		if rel, err := filepath.Rel(dir, m); err == nil {
			out = append(out, rel)
		}
	}
	return out
}

// PathDependencies returns the relative path of every dependency in the
// given tables whose specifier is a table carrying a string "path" field.
// Tables default to DefaultTables.
func PathDependencies(doc *manifest.Document, tables ...string) []string {
	if len(tables) == 0 {
		tables = DefaultTables
	}
	var out []string
	for _, name := range tables {
		tbl, ok := doc.Root.Get(name).Table()
		if !ok {
			continue
		}
		for _, dep := range tbl.Keys() {
			if p, ok := tbl.Get(dep).Get("path").String(); ok {
				out = append(out, p)
			}
		}
	}
	return out
}

// canonical returns the absolute, symlink-resolved form of dir. It falls
// back to the cleaned absolute path when dir cannot be resolved.
func canonical(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
