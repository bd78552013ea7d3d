// Package reconcile joins successive tree layouts by stable node ID.
//
// Every call to [Reconciler.Join] compares the freshly computed layout with
// the set of nodes and links rendered by the previous call and classifies
// each element as entering, updating or exiting. The resulting [Frame]
// describes the animation from the old picture to the new one:
//
//   - entering nodes grow out of the triggering node's previous position
//   - updating nodes move from their previous position to the new one
//   - exiting nodes shrink into the triggering node's new position
//
// Links are keyed by the ID of their target node and follow the same rules,
// starting or ending as a degenerate diagonal at the triggering node.
//
// After a join the position of every visible node is stashed so that the
// next frame starts where this one ended.
package reconcile
