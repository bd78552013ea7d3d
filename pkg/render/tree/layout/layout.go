package layout

import (
	"github.com/matzehuels/evdash/pkg/hierarchy"
)

// DefaultDepthStep is the horizontal distance between two levels.
const DefaultDepthStep = 180.0

// Position is a point on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placed is a visible node with its computed position.
type Placed struct {
	Node *hierarchy.Node
	Pos  Position
}

// Link is a visible edge with the positions of both ends.
type Link struct {
	Source *hierarchy.Node
	Target *hierarchy.Node
}

// Layout holds the positions of every visible node.
type Layout struct {
	Width  float64
	Height float64
	Nodes  []Placed
	Links  []Link

	index map[int]int
}

// Position returns the position of the node with the given ID.
func (l Layout) Position(id int) (Position, bool) {
	i, ok := l.index[id]
	if !ok {
		return Position{}, false
	}
	return l.Nodes[i].Pos, true
}

// Option configures [Build].
type Option func(*config)

type config struct {
	depthStep float64
}

// WithDepthStep sets the horizontal distance between levels.
func WithDepthStep(step float64) Option {
	return func(c *config) { c.depthStep = step }
}

// Build lays out the visible nodes of t on a width×height canvas.
func Build(t *hierarchy.Tree, width, height float64, opts ...Option) Layout {
	cfg := config{depthStep: DefaultDepthStep}
	for _, opt := range opts {
		opt(&cfg)
	}

	root := wrap(t.Root)
	visitAfter(root, firstWalk)
	root.parent.m = -root.z
	visitBefore(root, secondWalk)

	l := Layout{Width: width, Height: height, index: make(map[int]int)}
	placeAll(root, &l, height, cfg)
	return l
}

func placeAll(root *wnode, l *Layout, height float64, cfg config) {
	left, right := root, root
	visitBefore(root, func(v *wnode) {
		if v.x < left.x {
			left = v
		}
		if v.x > right.x {
			right = v
		}
	})

	tx := separation(left, right)/2 - left.x
	kx := height / (right.x + separation(right, left)/2 + tx)

	visitBefore(root, func(v *wnode) {
		d := float64(v.src.Depth - root.src.Depth)
		pos := Position{Y: (v.x + tx) * kx, X: d * cfg.depthStep}
		l.index[v.src.ID] = len(l.Nodes)
		l.Nodes = append(l.Nodes, Placed{Node: v.src, Pos: pos})
		for _, c := range v.children {
			l.Links = append(l.Links, Link{Source: v.src, Target: c.src})
		}
	})
}
