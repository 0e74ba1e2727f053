package deps

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/cargograph/pkg/manifest"
)

// Filter holds the node filters for one run. The zero value keeps everything.
type Filter struct {
	LocalOnly bool     // Keep only packages found in the manifest set
	Local     []string // Package names declared by the manifest set, see PackageNames
	Ignored   []string // Package names to drop everywhere
}

// Apply runs the enabled filters: local-only first, then ignore.
// The input slice is never modified.
func (f Filter) Apply(nodes []Node) []Node {
	out := nodes
	if f.LocalOnly {
		out = LocalOnly(out, f.Local...)
	}
	if len(f.Ignored) > 0 {
		out = IgnoreNames(out, f.Ignored...)
	}
	return out
}

// LocalOnly keeps nodes whose name belongs to the local set, and within
// them only dependencies that are also local.
//
// The local set is the node names plus names. A manifest without a
// [dependencies] table yields no node, so callers holding the full
// manifest set pass its [PackageNames] to keep edges to such leaf crates.
func LocalOnly(nodes []Node, names ...string) []Node {
	local := mapset.NewThreadUnsafeSet(names...)
	for _, n := range nodes {
		local.Add(n.Name)
	}
	return restrict(nodes, local.Contains)
}

// PackageNames returns the package.name of every document that declares
// one, in document order. Names are not deduplicated.
func PackageNames(docs []*manifest.Document) []string {
	var names []string
	for _, doc := range docs {
		if name, ok := doc.PackageName(); ok {
			names = append(names, name)
		}
	}
	return names
}

// IgnoreNames drops nodes named in names and removes those names from every
// remaining node's dependencies.
func IgnoreNames(nodes []Node, names ...string) []Node {
	ignored := mapset.NewThreadUnsafeSet(names...)
	return restrict(nodes, func(name ...string) bool {
		return !ignored.Contains(name...)
	})
}

// restrict keeps nodes and dependencies for which keep reports true.
func restrict(nodes []Node, keep func(...string) bool) []Node {
	var out []Node
	for _, n := range nodes {
		if !keep(n.Name) {
			continue
		}
		kept := Node{Name: n.Name, Dependencies: []string{}}
		for _, d := range n.Dependencies {
			if keep(d) {
				kept.Dependencies = append(kept.Dependencies, d)
			}
		}
		out = append(out, kept)
	}
	return out
}
