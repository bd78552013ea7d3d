// Package layout computes node-link positions for the visible part of a
// vehicle hierarchy.
//
// The algorithm is the Reingold–Tilford tidy tree in Buchheim's linear-time
// form: siblings are separated by one unit, cousins by two, and the result is
// scaled to the breadth of the canvas. The depth axis is then replaced by a
// fixed step per level so that expanding a subtree never squeezes the levels
// above it.
//
// Coordinates are screen coordinates of a horizontal tree: X grows with
// depth, Y runs along the breadth of the canvas.
//
//	l := layout.Build(tree, 740, 500)
//	for _, p := range l.Nodes {
//	    fmt.Println(p.Node.Label(), p.Pos.X, p.Pos.Y)
//	}
package layout
