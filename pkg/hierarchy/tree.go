package hierarchy

import (
	"fmt"

	dasherr "github.com/matzehuels/evdash/pkg/errors"
)

// Tree is a validated hierarchy with stable node IDs.
type Tree struct {
	Root  *Node
	nodes []*Node
}

// New validates root, assigns IDs, depths and parent links in pre-order and
// returns the tree. Node states are kept as given; callers that need the
// initial collapsed view call [Tree.CollapseAll].
func New(root *Node) (*Tree, error) {
	if root == nil {
		return nil, dasherr.New(dasherr.ErrCodeInvalidHierarchy, "hierarchy has no root")
	}
	t := &Tree{Root: root}
	if err := t.index(root, nil, 0, "$"); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) index(n, parent *Node, depth int, path string) error {
	if err := validateNode(n, path); err != nil {
		return err
	}
	n.ID = len(t.nodes)
	n.Depth = depth
	n.parent = parent
	t.nodes = append(t.nodes, n)
	for i, c := range n.kids {
		if c == nil {
			return dasherr.New(dasherr.ErrCodeInvalidHierarchy, "%s.children[%d]: null node", path, i)
		}
		if err := t.index(c, n, depth+1, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *Node, path string) error {
	switch {
	case n.Vehicle != nil && len(n.kids) > 0:
		return dasherr.New(dasherr.ErrCodeInvalidHierarchy, "%s: node has both children and vehicle fields", path)
	case n.Vehicle != nil:
		if n.Vehicle.Model == "" {
			return dasherr.New(dasherr.ErrCodeInvalidHierarchy, "%s: vehicle has no model", path)
		}
		n.state = StateLeaf
	case len(n.kids) == 0:
		return dasherr.New(dasherr.ErrCodeInvalidHierarchy, "%s: node has neither children nor vehicle fields", path)
	case n.Key == "" && path != "$":
		return dasherr.New(dasherr.ErrCodeInvalidHierarchy, "%s: category node has no key", path)
	default:
		if n.state == StateLeaf {
			n.state = StateExpanded
		}
	}
	return nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given ID.
func (t *Tree) Node(id int) (*Node, bool) {
	if id < 0 || id >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[id], true
}

// Nodes returns every node in pre-order (ID order).
func (t *Tree) Nodes() []*Node { return t.nodes }

// Leaves returns every vehicle node in pre-order.
func (t *Tree) Leaves() []*Node {
	var out []*Node
	for _, n := range t.nodes {
		if n.IsLeaf() {
			out = append(out, n)
		}
	}
	return out
}

// Visible returns the nodes reachable from the root through expanded nodes,
// in pre-order.
func (t *Tree) Visible() []*Node {
	var out []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		out = append(out, n)
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(t.Root)
	return out
}

// Link is a visible parent→child edge.
type Link struct {
	Source *Node
	Target *Node
}

// Links returns the edges between visible nodes in pre-order of their target.
func (t *Tree) Links() []Link {
	var out []Link
	for _, n := range t.Visible() {
		for _, c := range n.Children() {
			out = append(out, Link{Source: n, Target: c})
		}
	}
	return out
}

// Verify checks the node-state invariant over the whole tree: leaves carry a
// vehicle and no children, and every other node holds at least one child in
// exactly one slot.
func (t *Tree) Verify() error {
	for _, n := range t.nodes {
		switch n.state {
		case StateLeaf:
			if n.Vehicle == nil || len(n.kids) > 0 {
				return dasherr.New(dasherr.ErrCodeInternal, "%s: malformed leaf", n)
			}
		case StateExpanded, StateCollapsed:
			if n.Vehicle != nil || len(n.kids) == 0 {
				return dasherr.New(dasherr.ErrCodeInternal, "%s: malformed category", n)
			}
			if (n.Children() == nil) == (n.CollapsedChildren() == nil) {
				return dasherr.New(dasherr.ErrCodeInternal, "%s: both child slots in the same state", n)
			}
		default:
			return dasherr.New(dasherr.ErrCodeInternal, "%s: unknown state", n)
		}
	}
	return nil
}
