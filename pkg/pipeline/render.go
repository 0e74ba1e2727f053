package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/cargograph/pkg/graph"
	"github.com/matzehuels/cargograph/pkg/render/dot"
)

// Render serializes g in the given format. SVG and PNG are laid out by
// Graphviz from the same DOT text the dot format prints.
//
// DOT and JSON output end with a newline. Graphviz failures are returned as
// RENDER_FAILED errors from package render/dot; ctx bounds only the
// Graphviz formats.
func Render(ctx context.Context, g *graph.Graph, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return graph.MarshalGraph(g)
	}

	var buf bytes.Buffer
	if err := dot.Write(&buf, g); err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return dot.RenderSVG(ctx, buf.String())
	case FormatPNG:
		return dot.RenderPNG(ctx, buf.String())
	}
	return buf.Bytes(), nil
}
