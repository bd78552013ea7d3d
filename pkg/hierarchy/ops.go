package hierarchy

import (
	dasherr "github.com/matzehuels/evdash/pkg/errors"
)

// Collapse stashes the children of n and of every expanded descendant.
// Descendants are collapsed before n hides them. Collapsed nodes and leaves
// are left untouched, so calling Collapse twice changes nothing.
func (t *Tree) Collapse(n *Node) {
	if n.state != StateExpanded {
		return
	}
	for _, c := range n.kids {
		t.Collapse(c)
	}
	n.state = StateCollapsed
}

// CollapseAll collapses every internal node, including those stashed under
// an already collapsed ancestor.
func (t *Tree) CollapseAll() {
	for _, n := range t.nodes {
		if n.state == StateExpanded {
			n.state = StateCollapsed
		}
	}
}

// Toggle expands a collapsed node or collapses an expanded one, one level
// only. Grandchildren keep their own state. It reports whether n changed;
// leaves never do.
func (t *Tree) Toggle(n *Node) bool {
	switch n.state {
	case StateExpanded:
		n.state = StateCollapsed
	case StateCollapsed:
		n.state = StateExpanded
	default:
		return false
	}
	return true
}

// Expand shows the children of n. It is a no-op on leaves and expanded nodes.
func (t *Tree) Expand(n *Node) {
	if n.state == StateCollapsed {
		n.state = StateExpanded
	}
}

// FindModel returns the first leaf in pre-order whose model equals model.
func (t *Tree) FindModel(model string) (*Node, error) {
	for _, n := range t.nodes {
		if n.IsLeaf() && n.Vehicle.Model == model {
			return n, nil
		}
	}
	return nil, dasherr.New(dasherr.ErrCodeModelNotFound, "no vehicle with model %q", model)
}

// RevealPath collapses the tree and opens the path root → fuel → manufacturer
// leading to the vehicle with the given model. The vehicle's siblings remain
// collapsed. It returns the vehicle node.
//
// The fuel and manufacturer categories are matched by key against the
// vehicle's own fields, and the vehicle must sit directly under the matched
// manufacturer. When the model is unknown or the chain does not resolve, an
// error is returned and the tree is not modified.
func (t *Tree) RevealPath(model string) (*Node, error) {
	leaf, err := t.FindModel(model)
	if err != nil {
		return nil, err
	}

	fuel := t.Root.Child(leaf.Vehicle.Fuel)
	if fuel == nil || fuel.IsLeaf() {
		return nil, dasherr.New(dasherr.ErrCodeAncestryMismatch,
			"model %q: no fuel category %q under the root", model, leaf.Vehicle.Fuel)
	}
	maker := fuel.Child(leaf.Vehicle.Manufacturer)
	if maker == nil || maker.IsLeaf() {
		return nil, dasherr.New(dasherr.ErrCodeAncestryMismatch,
			"model %q: no manufacturer %q under fuel %q", model, leaf.Vehicle.Manufacturer, fuel.Key)
	}
	if leaf.parent != maker {
		return nil, dasherr.New(dasherr.ErrCodeAncestryMismatch,
			"model %q is not listed under %s/%s", model, fuel.Key, maker.Key)
	}

	t.CollapseAll()
	t.Expand(t.Root)
	t.Expand(fuel)
	t.Expand(maker)
	return leaf, nil
}

// Ancestors returns the path from the root down to n's parent.
func (t *Tree) Ancestors(n *Node) []*Node {
	var path []*Node
	for p := n.parent; p != nil; p = p.parent {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// snapshot records the state of every node, indexed by ID.
func (t *Tree) snapshot() []State {
	out := make([]State, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n.state
	}
	return out
}
