// Package dot serializes dependency graphs as Graphviz DOT.
//
// # Overview
//
// [String] and [Write] produce a compact, single-line digraph containing one
// edge statement per unique dependency edge:
//
//	digraph {"app"->"core";"core"->"log";}
//
// Names are wrapped in double quotes and otherwise written verbatim.
// Output that is not valid UTF-8 is rejected with an INVALID_OUTPUT error
// rather than written.
//
// # Rendering
//
// [RenderSVG] and [RenderPNG] pass DOT source through an in-process
// Graphviz (via [github.com/goccy/go-graphviz]), so no dot binary needs to
// be installed:
//
//	src, _ := dot.String(g)
//	svg, err := dot.RenderSVG(ctx, src)
package dot
