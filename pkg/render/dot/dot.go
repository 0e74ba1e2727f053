package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cargograph/pkg/errors"
	"github.com/matzehuels/cargograph/pkg/graph"
)

// Header and Footer delimit the compact digraph statement.
const (
	Header = "digraph {"
	Footer = "}"
)

// Quote wraps name in double quotes. Embedded quotes are not escaped, so a
// name containing '"' produces malformed DOT.
func Quote(name string) string {
	return `"` + name + `"`
}

// String serializes the edges of g as a compact DOT digraph:
//
//	digraph {"app"->"core";"app"->"serde";}
//
// Edges appear once each, in first-seen order. Nodes without edges are not
// written. The result ends with a newline.
//
// String fails with code INVALID_OUTPUT if the result is not valid UTF-8.
func String(g *graph.Graph) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "%s->%s;", Quote(e.From), Quote(e.To))
	}
	buf.WriteString(Footer)
	buf.WriteByte('\n')

	if !utf8.Valid(buf.Bytes()) {
		return "", errors.New(errors.ErrCodeInvalidOutput, "graph output is not valid UTF-8")
	}
	return buf.String(), nil
}

// Write serializes g with [String] and writes it to w. Nothing is written
// when serialization fails.
func Write(w io.Writer, g *graph.Graph) error {
	s, err := String(g)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// RenderSVG lays out DOT source with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG lays out DOT source with Graphviz and returns PNG bytes.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
