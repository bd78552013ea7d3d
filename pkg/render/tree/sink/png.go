package sink

import (
	"context"

	"github.com/matzehuels/evdash/pkg/render"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
)

// RenderPNG renders the settled frame as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, f reconcile.Frame, scale float64, opts ...SVGOption) ([]byte, error) {
	svg := RenderSVG(f, append(opts, WithStatic())...)
	return render.ToPNG(ctx, svg, scale)
}

// RenderPDF renders the settled frame as PDF via SVG conversion.
func RenderPDF(ctx context.Context, f reconcile.Frame, opts ...SVGOption) ([]byte, error) {
	svg := RenderSVG(f, append(opts, WithStatic())...)
	return render.ToPDF(ctx, svg)
}
