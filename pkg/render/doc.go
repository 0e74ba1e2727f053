// Package render groups the output formats for dependency graphs.
//
// The [dot] subpackage writes the compact Graphviz DOT description that is
// cargograph's primary output, and renders it to SVG or PNG. JSON output
// lives with the graph type itself in package graph.
//
// [dot]: github.com/matzehuels/cargograph/pkg/render/dot
package render
