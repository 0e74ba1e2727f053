package deps

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/cargograph/pkg/manifest"
)

// Dependency table names understood by the extractor.
const (
	TableNormal = "dependencies"
	TableDev    = "dev-dependencies"
	TableBuild  = "build-dependencies"
)

// Node is one package and the names of the packages it depends on.
// Dependency names are unique and keep first-seen order.
type Node struct {
	Name         string
	Dependencies []string
}

// Options configures extraction.
type Options struct {
	// Extra lists additional dependency tables (TableDev, TableBuild) whose
	// keys are merged into each node. The normal dependency table is always
	// read and always required.
	Extra []string
	// Logger receives a debug message for each dropped manifest (optional).
	Logger func(string, ...any)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Tables returns every dependency table read by the extractor, normal first.
func (o Options) Tables() []string {
	return append([]string{TableNormal}, o.Extra...)
}

// Extract converts manifests into package nodes.
//
// A manifest yields a node only when it has a string package.name and a
// dependencies table; anything else is dropped without error. Only
// dependency names survive; version and path specifiers are discarded.
func Extract(docs []*manifest.Document, opts Options) []Node {
	opts = opts.WithDefaults()
	var nodes []Node
	for _, doc := range docs {
		n, ok := ExtractOne(doc, opts.Extra...)
		if !ok {
			opts.Logger("no package node in %s", doc.Path)
			continue
		}
		nodes = append(nodes, n)
	}
	return nodes
}

// ExtractOne converts a single manifest, reading the normal dependency table
// plus any extra tables present.
func ExtractOne(doc *manifest.Document, extra ...string) (Node, bool) {
	name, ok := doc.PackageName()
	if !ok {
		return Node{}, false
	}
	normal, ok := doc.Root.Get(TableNormal).Table()
	if !ok {
		return Node{}, false
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	n := Node{Name: name, Dependencies: []string{}}
	add := func(keys []string) {
		for _, k := range keys {
			if seen.Add(k) {
				n.Dependencies = append(n.Dependencies, k)
			}
		}
	}
	add(normal.Keys())
	for _, table := range extra {
		if t, ok := doc.Root.Get(table).Table(); ok {
			add(t.Keys())
		}
	}
	return n, true
}
