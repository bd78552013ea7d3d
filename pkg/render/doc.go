// Package render holds helpers shared by the dashboard's renderers.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG produced by the tree or bar chart
// renderers using the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(frame, opts...)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Subpackages
//
//   - [tree/layout]: tidy tree positions for the visible hierarchy
//   - [tree/reconcile]: enter/update/exit join between renders
//   - [tree/sink]: SVG and Graphviz output for tree frames
//   - [bars]: the charger distribution chart
//
// [tree/layout]: github.com/matzehuels/evdash/pkg/render/tree/layout
// [tree/reconcile]: github.com/matzehuels/evdash/pkg/render/tree/reconcile
// [tree/sink]: github.com/matzehuels/evdash/pkg/render/tree/sink
// [bars]: github.com/matzehuels/evdash/pkg/render/bars
package render
