package hierarchy

import "fmt"

// State is the child-slot state of a node.
type State uint8

const (
	StateLeaf State = iota
	StateExpanded
	StateCollapsed
)

func (s State) String() string {
	switch s {
	case StateLeaf:
		return "leaf"
	case StateExpanded:
		return "expanded"
	case StateCollapsed:
		return "collapsed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Vehicle is the record carried by a leaf node.
type Vehicle struct {
	ID           string  `json:"id"`
	Model        string  `json:"model"`
	ModelYear    string  `json:"model_year"`
	Price        float64 `json:"price"`
	Fuel         string  `json:"fuel"`
	Manufacturer string  `json:"manufacturer"`
}

// Label returns the text shown next to a leaf.
func (v Vehicle) Label() string {
	if v.ModelYear == "" {
		return v.Model
	}
	return v.Model + " - " + v.ModelYear
}

// Node is one entry of the hierarchy: a category or a vehicle.
type Node struct {
	ID      int
	Key     string
	Vehicle *Vehicle
	Depth   int

	parent *Node
	kids   []*Node
	state  State
}

// NewCategory returns an expanded internal node with the given children.
func NewCategory(key string, children ...*Node) *Node {
	return &Node{Key: key, kids: children, state: StateExpanded}
}

// NewLeaf returns a leaf node for v.
func NewLeaf(v Vehicle) *Node {
	return &Node{Vehicle: &v, state: StateLeaf}
}

// State returns the node's child-slot state.
func (n *Node) State() State { return n.state }

// IsLeaf reports whether n is a vehicle record.
func (n *Node) IsLeaf() bool { return n.state == StateLeaf }

// IsExpanded reports whether n currently shows its children.
func (n *Node) IsExpanded() bool { return n.state == StateExpanded }

// IsCollapsed reports whether n currently stashes its children.
func (n *Node) IsCollapsed() bool { return n.state == StateCollapsed }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the visible children; nil unless n is expanded.
func (n *Node) Children() []*Node {
	if n.state != StateExpanded {
		return nil
	}
	return n.kids
}

// CollapsedChildren returns the stashed children; nil unless n is collapsed.
func (n *Node) CollapsedChildren() []*Node {
	if n.state != StateCollapsed {
		return nil
	}
	return n.kids
}

// AllChildren returns the children regardless of state.
func (n *Node) AllChildren() []*Node { return n.kids }

// Label returns the category key, or the vehicle label for leaves.
func (n *Node) Label() string {
	if n.Vehicle != nil {
		return n.Vehicle.Label()
	}
	return n.Key
}

// Model returns the vehicle model, or "" for categories.
func (n *Node) Model() string {
	if n.Vehicle == nil {
		return ""
	}
	return n.Vehicle.Model
}

// Child returns the first child whose key equals key, regardless of state.
func (n *Node) Child(key string) *Node {
	for _, c := range n.kids {
		if c.Key == key {
			return c
		}
	}
	return nil
}

func (n *Node) String() string {
	return fmt.Sprintf("#%d %q (%s)", n.ID, n.Label(), n.state)
}
