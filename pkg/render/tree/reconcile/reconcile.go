package reconcile

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/evdash/pkg/hierarchy"
	"github.com/matzehuels/evdash/pkg/render/tree/layout"
)

// DefaultDuration is the length of a transition.
const DefaultDuration = 750 * time.Millisecond

// DefaultRadius is used when no [RadiusFunc] is configured.
const DefaultRadius = 6.0

// RadiusFunc returns the settled radius of a node.
type RadiusFunc func(*hierarchy.Node) float64

// Option configures a [Reconciler].
type Option func(*Reconciler)

// WithDuration sets the transition length recorded in each frame.
func WithDuration(d time.Duration) Option { return func(r *Reconciler) { r.duration = d } }

// WithRadius sets the function used to size nodes.
func WithRadius(fn RadiusFunc) Option { return func(r *Reconciler) { r.radius = fn } }

// WithIDs replaces the frame ID generator.
func WithIDs(fn func() uuid.UUID) Option { return func(r *Reconciler) { r.newID = fn } }

// Reconciler remembers what was rendered last and where.
// It is not safe for concurrent use.
type Reconciler struct {
	duration time.Duration
	radius   RadiusFunc
	newID    func() uuid.UUID

	prev  map[int]layout.Position
	nodes map[int]*hierarchy.Node
	links map[int]int
}

// New returns a Reconciler with nothing rendered.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		duration: DefaultDuration,
		radius:   func(*hierarchy.Node) float64 { return DefaultRadius },
		newID:    uuid.New,
		prev:     make(map[int]layout.Position),
		nodes:    make(map[int]*hierarchy.Node),
		links:    make(map[int]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetPrevious records p as the previous position of node id.
func (r *Reconciler) SetPrevious(id int, p layout.Position) { r.prev[id] = p }

// previous returns the stashed position of node id.
func (r *Reconciler) previous(id int) (layout.Position, bool) {
	p, ok := r.prev[id]
	return p, ok
}

// rendered reports whether node id is part of the current picture.
func (r *Reconciler) rendered(id int) bool {
	_, ok := r.nodes[id]
	return ok
}

// Join reconciles l against the previous render. source is the node whose
// interaction triggered the render; entering elements start at its previous
// position and exiting elements end at its new one.
func (r *Reconciler) Join(l layout.Layout, source *hierarchy.Node) Frame {
	f := Frame{
		ID:         r.newID(),
		Source:     source.ID,
		Duration:   r.duration,
		DurationMS: r.duration.Milliseconds(),
		Width:      l.Width,
		Height:     l.Height,
	}

	srcNew, ok := l.Position(source.ID)
	if !ok {
		srcNew = r.prev[source.ID]
	}
	srcOld, ok := r.prev[source.ID]
	if !ok {
		srcOld = srcNew
	}

	visible := make(map[int]bool, len(l.Nodes))
	for _, p := range l.Nodes {
		n := p.Node
		visible[n.ID] = true
		c := NodeChange{
			ID:          n.ID,
			Label:       n.Label(),
			Leaf:        n.IsLeaf(),
			Collapsed:   n.IsCollapsed(),
			Vehicle:     n.Vehicle,
			To:          p.Pos,
			RadiusTo:    r.radius(n),
			OpacityTo:   1,
			RadiusFrom:  Hidden,
			OpacityFrom: Hidden,
			From:        srcOld,
			Phase:       Enter,
		}
		if _, seen := r.nodes[n.ID]; seen {
			c.Phase = Update
			c.From = r.prev[n.ID]
			c.RadiusFrom = r.radius(n)
			c.OpacityFrom = 1
		}
		f.Nodes = append(f.Nodes, c)
	}

	for _, id := range slices.Sorted(maps.Keys(r.nodes)) {
		if visible[id] {
			continue
		}
		n := r.nodes[id]
		f.Nodes = append(f.Nodes, NodeChange{
			ID:          id,
			Phase:       Exit,
			Label:       n.Label(),
			Leaf:        n.IsLeaf(),
			Collapsed:   n.IsCollapsed(),
			Vehicle:     n.Vehicle,
			From:        r.prev[id],
			To:          srcNew,
			RadiusFrom:  r.radius(n),
			RadiusTo:    Hidden,
			OpacityFrom: 1,
			OpacityTo:   Hidden,
		})
	}

	linked := make(map[int]bool, len(l.Links))
	for _, lk := range l.Links {
		tid := lk.Target.ID
		linked[tid] = true
		sp, _ := l.Position(lk.Source.ID)
		tp, _ := l.Position(tid)
		c := LinkChange{
			TargetID: tid,
			SourceID: lk.Source.ID,
			Phase:    Enter,
			From:     collapsedAt(srcOld),
			To:       Segment{Source: sp, Target: tp},
		}
		if _, seen := r.links[tid]; seen {
			c.Phase = Update
			c.From = Segment{Source: r.prev[lk.Source.ID], Target: r.prev[tid]}
		}
		f.Links = append(f.Links, c)
	}
	for _, tid := range slices.Sorted(maps.Keys(r.links)) {
		if linked[tid] {
			continue
		}
		sid := r.links[tid]
		f.Links = append(f.Links, LinkChange{
			TargetID: tid,
			SourceID: sid,
			Phase:    Exit,
			From:     Segment{Source: r.prev[sid], Target: r.prev[tid]},
			To:       collapsedAt(srcNew),
		})
	}

	r.commit(l)
	return f
}

// commit makes l the rendered picture and stashes its positions.
func (r *Reconciler) commit(l layout.Layout) {
	clear(r.nodes)
	clear(r.links)
	for _, p := range l.Nodes {
		r.nodes[p.Node.ID] = p.Node
		r.prev[p.Node.ID] = p.Pos
	}
	for _, lk := range l.Links {
		r.links[lk.Target.ID] = lk.Source.ID
	}
}
