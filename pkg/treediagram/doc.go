// Package treediagram is the collapsible vehicle-model tree of the
// dashboard.
//
// A [Diagram] owns a [hierarchy.Tree], a table of sales numbers used to size
// the nodes, and the reconciler that turns each new layout into an animated
// [reconcile.Frame]. The diagram starts fully collapsed with only the root
// visible. [Diagram.Click] toggles one node and re-renders from it;
// [Diagram.RevealPath] opens the fuel and manufacturer levels leading to a
// model and re-renders from the root.
//
//	d, err := treediagram.New(tree, sales)
//	frame, err := d.Click(ctx, 0)      // expand the root
//	svg := d.SVG(sink.WithTooltips("./img/Cs_171_EV_pics"))
//
// A Diagram is not safe for concurrent use; the dashboard controller
// serializes access.
//
// [hierarchy.Tree]: github.com/matzehuels/evdash/pkg/hierarchy.Tree
// [reconcile.Frame]: github.com/matzehuels/evdash/pkg/render/tree/reconcile.Frame
package treediagram
