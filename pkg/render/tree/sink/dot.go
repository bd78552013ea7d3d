package sink

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
)

// ToDOT converts the settled picture of f to Graphviz DOT. Collapsed nodes
// are filled like they are on the canvas.
func ToDOT(f reconcile.Frame) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#fff\", color=steelblue, fixedsize=true, width=0.2, label=\"\"];\n")
	buf.WriteString("  edge [color=\"#ccc\", arrowhead=none];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("\n")

	for _, n := range f.Settled() {
		attrs := []string{"xlabel=" + dotQuote(n.Label)}
		if n.Collapsed {
			attrs = append(attrs, "fillcolor=lightsteelblue")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range f.Links {
		if l.Phase == reconcile.Exit {
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", l.SourceID, l.TargetID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotQuote returns s as a DOT double-quoted string. Only the quote and the
// backslash are escaped; control characters become spaces.
func dotQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case unicode.IsControl(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// RenderDOT lays out a DOT graph with Graphviz and returns it as SVG or PNG.
func RenderDOT(ctx context.Context, dot string, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case "svg":
		gvFormat = graphviz.SVG
	case "png":
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported graphviz format %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
