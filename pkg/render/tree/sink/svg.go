package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/evdash/pkg/render"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
)

const (
	collapsedFill = "lightsteelblue"
	expandedFill  = "#fff"
	labelGap      = 10.0
)

const treeCSS = `
    .node circle { stroke: steelblue; stroke-width: 1.5px; cursor: pointer; }
    .node text { font: 12px sans-serif; fill: white; }
    .link { fill: none; stroke: #ccc; stroke-width: 1.5px; }`

// Margins is the space between the canvas edge and the tree.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins leave room on the left for the root label.
var DefaultMargins = Margins{Top: 40, Right: 60, Bottom: 60, Left: 200}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margins   Margins
	static    bool
	imageBase string
	tooltips  bool
}

func WithMargins(m Margins) SVGOption { return func(r *svgRenderer) { r.margins = m } }
func WithStatic() SVGOption           { return func(r *svgRenderer) { r.static = true } }

// WithTooltips adds a hover card to every leaf showing the vehicle image
// found at <imageBase>/<id>.jpg, the model, model year and price.
func WithTooltips(imageBase string) SVGOption {
	return func(r *svgRenderer) { r.tooltips = true; r.imageBase = imageBase }
}

// RenderSVG draws f on a canvas of the frame's size plus margins.
func RenderSVG(f reconcile.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{margins: DefaultMargins}
	for _, opt := range opts {
		opt(&r)
	}

	w := f.Width + r.margins.Left + r.margins.Right
	h := f.Height + r.margins.Top + r.margins.Bottom

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" class="vis" id="modelTreeSVG" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-frame="%s">`+"\n",
		w, h, w, h, f.ID)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", treeCSS)
	fmt.Fprintf(&buf, `  <g transform="translate(%g,%g)">`+"\n", r.margins.Left, r.margins.Top)

	dur := fmt.Sprintf("%dms", f.DurationMS)
	for _, l := range f.Links {
		if r.static && l.Phase == reconcile.Exit {
			continue
		}
		r.renderLink(&buf, l, dur)
	}
	for _, n := range f.Nodes {
		if r.static && n.Phase == reconcile.Exit {
			continue
		}
		r.renderNode(&buf, n, dur)
	}

	buf.WriteString("  </g>\n")
	if r.tooltips {
		renderTooltips(&buf, f, r.imageBase)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderLink(buf *bytes.Buffer, l reconcile.LinkChange, dur string) {
	if r.static {
		fmt.Fprintf(buf, `    <path class="link" data-target="%d" d="%s"/>`+"\n", l.TargetID, l.To.Path())
		return
	}
	fmt.Fprintf(buf, `    <path class="link %s" data-target="%d" d="%s">`+"\n", l.Phase, l.TargetID, l.From.Path())
	fmt.Fprintf(buf, `      <animate attributeName="d" from="%s" to="%s" dur="%s" fill="freeze"/>`+"\n",
		l.From.Path(), l.To.Path(), dur)
	buf.WriteString("    </path>\n")
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n reconcile.NodeChange, dur string) {
	fill := expandedFill
	if n.Collapsed {
		fill = collapsedFill
	}
	anchor, dx := "start", labelGap+n.RadiusTo
	if !n.Leaf {
		anchor, dx = "end", -labelGap-n.RadiusTo
	}
	label := render.EscapeXML(n.Label)

	if r.static {
		fmt.Fprintf(buf, `    <g class="node" id="node-%d" data-id="%d" transform="translate(%g,%g)">`+"\n",
			n.ID, n.ID, n.To.X, n.To.Y)
		fmt.Fprintf(buf, `      <circle r="%g" style="fill: %s"/>`+"\n", n.RadiusTo, fill)
		fmt.Fprintf(buf, `      <text x="%g" dy=".35em" text-anchor="%s">%s</text>`+"\n", dx, anchor, label)
		buf.WriteString("    </g>\n")
		return
	}

	fmt.Fprintf(buf, `    <g class="node %s" id="node-%d" data-id="%d" transform="translate(%g,%g)">`+"\n",
		n.Phase, n.ID, n.ID, n.From.X, n.From.Y)
	fmt.Fprintf(buf, `      <animateTransform attributeName="transform" type="translate" from="%g %g" to="%g %g" dur="%s" fill="freeze"/>`+"\n",
		n.From.X, n.From.Y, n.To.X, n.To.Y, dur)
	fmt.Fprintf(buf, `      <circle r="%g" style="fill: %s">`+"\n", n.RadiusFrom, fill)
	fmt.Fprintf(buf, `        <animate attributeName="r" from="%g" to="%g" dur="%s" fill="freeze"/>`+"\n", n.RadiusFrom, n.RadiusTo, dur)
	buf.WriteString("      </circle>\n")
	fmt.Fprintf(buf, `      <text x="%g" dy=".35em" text-anchor="%s" fill-opacity="%g">%s`+"\n", dx, anchor, n.OpacityFrom, label)
	fmt.Fprintf(buf, `        <animate attributeName="fill-opacity" from="%g" to="%g" dur="%s" fill="freeze"/>`+"\n", n.OpacityFrom, n.OpacityTo, dur)
	buf.WriteString("      </text>\n")
	buf.WriteString("    </g>\n")
}
