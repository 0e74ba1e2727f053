package graph

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/matzehuels/cargograph/pkg/deps"
)

// Edge is a directed dependency: From depends on To.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a set of package names and deduplicated dependency edges.
// Both keep first-seen insertion order.
//
// The zero value is not usable - use New or Build.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes     []string
	nodeSeen  mapset.Set[string]
	edges     []Edge
	edgeSeen  mapset.Set[Edge]
	dupeEdges int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodeSeen: mapset.NewThreadUnsafeSet[string](),
		edgeSeen: mapset.NewThreadUnsafeSet[Edge](),
	}
}

// Build creates a Graph with one edge per (node, dependency) pair.
// Every node name is registered even if it has no dependencies, and
// dependency targets become nodes as well.
func Build(nodes []deps.Node) *Graph {
	g := New()
	for _, n := range nodes {
		g.AddNode(n.Name)
		for _, d := range n.Dependencies {
			g.AddEdge(n.Name, d)
		}
	}
	return g
}

// AddNode registers a package name. It reports whether the name was new.
func (g *Graph) AddNode(name string) bool {
	if !g.nodeSeen.Add(name) {
		return false
	}
	g.nodes = append(g.nodes, name)
	return true
}

// AddEdge records from -> to, registering both endpoints. An edge already
// present is not added again; AddEdge reports whether the edge was new.
func (g *Graph) AddEdge(from, to string) bool {
	g.AddNode(from)
	g.AddNode(to)
	e := Edge{From: from, To: to}
	if !g.edgeSeen.Add(e) {
		g.dupeEdges++
		return false
	}
	g.edges = append(g.edges, e)
	return true
}

// HasEdge reports whether from -> to is in the graph.
func (g *Graph) HasEdge(from, to string) bool {
	return g.edgeSeen.Contains(Edge{From: from, To: to})
}

// Nodes returns package names in first-seen order.
func (g *Graph) Nodes() []string { return slices.Clone(g.nodes) }

// Edges returns the unique edges in first-seen order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of distinct package names.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of unique edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Duplicates returns how many AddEdge calls were suppressed as repeats.
func (g *Graph) Duplicates() int { return g.dupeEdges }
