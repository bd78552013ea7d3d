// Package hierarchy models the rooted vehicle hierarchy shown by the tree
// diagram: fuel type → manufacturer → vehicle.
//
// # Node State
//
// Every [Node] is in exactly one [State]:
//
//   - [StateLeaf]: a vehicle record with no children.
//   - [StateExpanded]: children are visible.
//   - [StateCollapsed]: children are stashed but kept.
//
// A node holds a single child slice; the state decides whether it is exposed
// through [Node.Children] or [Node.CollapsedChildren]. Toggling a node never
// copies the slice, so child identity survives any number of expand/collapse
// cycles.
//
// # Identity
//
// Node IDs are assigned once by [New] in pre-order and never change. They key
// the enter/update/exit join of the renderer, so identity between renders does
// not depend on render order.
//
// # Operations
//
//   - [Tree.Collapse]: recursive collapse of a subtree
//   - [Tree.Toggle]: one-level expand or collapse
//   - [Tree.RevealPath]: collapse everything, then open root → fuel →
//     manufacturer for a given model
//
// RevealPath validates the lookup and the ancestry chain before mutating, so
// a failed call leaves the tree exactly as it was.
package hierarchy
