// Package sink turns reconciled tree frames into output formats.
//
// # SVG Output
//
// [RenderSVG] draws a [reconcile.Frame] as a horizontal node-link tree.
// Transitions are expressed with SMIL animations so that a browser plays the
// enter/update/exit motion without any script:
//
//	svg := sink.RenderSVG(frame,
//	    sink.WithMargins(sink.Margins{Top: 40, Right: 60, Bottom: 60, Left: 200}),
//	    sink.WithTooltips("./img/Cs_171_EV_pics"),
//	)
//
// [WithStatic] renders only the settled picture, which is what PNG and PDF
// conversion want.
//
// # Graphviz Output
//
// [ToDOT] writes the visible hierarchy as a left-to-right digraph and
// [RenderDOT] lays it out with Graphviz, for exports where the animated
// look is not needed.
//
// [reconcile.Frame]: github.com/matzehuels/evdash/pkg/render/tree/reconcile.Frame
package sink
