package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is the JSON serialization of a Graph:
//
//	{
//	  "nodes": [{"id": "app"}, {"id": "core"}],
//	  "edges": [{"from": "app", "to": "core"}]
//	}
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a serialized package.
type Node struct {
	ID string `json:"id"`
}

// Export converts g to its serialized form.
func (g *Graph) Export() Document {
	doc := Document{
		Nodes: make([]Node, 0, len(g.nodes)),
		Edges: g.Edges(),
	}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	for _, n := range g.nodes {
		doc.Nodes = append(doc.Nodes, Node{ID: n})
	}
	return doc
}

// Import rebuilds a Graph from its serialized form. Nodes are added first,
// then edges; edge endpoints missing from the node list are added on the fly.
func Import(doc Document) *Graph {
	g := New()
	for _, n := range doc.Nodes {
		g.AddNode(n.ID)
	}
	for _, e := range doc.Edges {
		g.AddEdge(e.From, e.To)
	}
	return g
}

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a Graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Export()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Import(doc), nil
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
