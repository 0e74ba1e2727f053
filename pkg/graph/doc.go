// Package graph holds the deduplicated dependency graph built from package
// nodes, and its JSON wire format.
//
// # Building
//
// [Build] expands every [deps.Node] into one edge per dependency name. The
// graph keeps a seen-edge set, so an edge reached twice (for instance when
// two discovery routes hit the same manifest) is stored once. Nodes and
// edges both keep first-seen order, which makes the serialized output
// deterministic for a given manifest tree.
//
//	g := graph.Build(nodes)
//	for _, e := range g.Edges() {
//	    fmt.Println(e.From, "->", e.To)
//	}
//
// # Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "app"}, {"id": "core"}],
//	  "edges": [{"from": "app", "to": "core"}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)          // Graph → []byte
//	graph.WriteGraph(g, os.Stdout)            // Graph → io.Writer
//	g, _ := graph.ReadGraphFile("deps.json")  // File → Graph (cargograph --from-json)
//
// For Graphviz DOT output see package render/dot.
//
// [deps.Node]: github.com/matzehuels/cargograph/pkg/deps.Node
package graph
