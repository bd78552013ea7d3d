package treediagram

import (
	"context"
	"time"

	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/hierarchy"
	"github.com/matzehuels/evdash/pkg/observability"
	"github.com/matzehuels/evdash/pkg/render/tree/layout"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
	"github.com/matzehuels/evdash/pkg/render/tree/sink"
)

// Canvas defaults. The inner drawing area is the canvas minus the margins.
const (
	DefaultWidth  = 1000.0
	DefaultHeight = 600.0
)

// Options configures a [Diagram]. Zero fields take the defaults.
type Options struct {
	Width     float64
	Height    float64
	Margins   sink.Margins
	DepthStep float64
	Duration  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Margins == (sink.Margins{}) {
		o.Margins = sink.DefaultMargins
	}
	if o.DepthStep == 0 {
		o.DepthStep = layout.DefaultDepthStep
	}
	if o.Duration == 0 {
		o.Duration = reconcile.DefaultDuration
	}
	return o
}

// Diagram is a collapsible tree of vehicle models.
type Diagram struct {
	tree  *hierarchy.Tree
	opts  Options
	radii []float64
	rec   *reconcile.Reconciler
	last  reconcile.Frame
}

// New builds a diagram over t, collapses it to the root and renders the
// first frame. sales may be nil.
func New(ctx context.Context, t *hierarchy.Tree, sales Sales, opts Options) (*Diagram, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidHierarchy, "nil hierarchy")
	}
	opts = opts.withDefaults()
	d := &Diagram{
		tree:  t,
		opts:  opts,
		radii: sales.radii(t),
	}
	d.rec = reconcile.New(
		reconcile.WithDuration(opts.Duration),
		reconcile.WithRadius(d.radius),
	)
	d.rec.SetPrevious(t.Root.ID, layout.Position{X: 0, Y: d.innerHeight() / 2})

	t.CollapseAll()
	d.Render(ctx, t.Root)
	return d, nil
}

func (d *Diagram) innerWidth() float64 {
	return d.opts.Width - d.opts.Margins.Left - d.opts.Margins.Right
}

func (d *Diagram) innerHeight() float64 {
	return d.opts.Height - d.opts.Margins.Top - d.opts.Margins.Bottom
}

func (d *Diagram) radius(n *hierarchy.Node) float64 {
	if n.ID < len(d.radii) {
		return d.radii[n.ID]
	}
	return DefaultRadius
}

// Tree returns the underlying hierarchy.
func (d *Diagram) Tree() *hierarchy.Tree { return d.tree }

// Radius returns the settled radius of node id.
func (d *Diagram) Radius(id int) float64 {
	if n, ok := d.tree.Node(id); ok {
		return d.radius(n)
	}
	return DefaultRadius
}

// Click toggles node id one level and re-renders from it. Clicking a leaf
// re-renders without changing the hierarchy.
func (d *Diagram) Click(ctx context.Context, id int) (reconcile.Frame, error) {
	n, ok := d.tree.Node(id)
	if !ok {
		return reconcile.Frame{}, errors.New(errors.ErrCodeNodeNotFound, "no node with id %d", id)
	}
	d.tree.Toggle(n)
	return d.Render(ctx, n), nil
}

// RevealPath collapses the tree and opens the path to the vehicle with the
// given model, then re-renders from the root. On error the diagram is left
// as it was.
func (d *Diagram) RevealPath(ctx context.Context, model string) (*hierarchy.Node, reconcile.Frame, error) {
	if err := errors.ValidateModelName(model); err != nil {
		return nil, reconcile.Frame{}, err
	}
	leaf, err := d.tree.RevealPath(model)
	if err != nil {
		return nil, reconcile.Frame{}, err
	}
	return leaf, d.Render(ctx, d.tree.Root), nil
}

// Render lays out the visible nodes, reconciles them with the previous
// frame using source as the animation origin, and stashes the result.
func (d *Diagram) Render(ctx context.Context, source *hierarchy.Node) reconcile.Frame {
	l := layout.Build(d.tree, d.innerWidth(), d.innerHeight(), layout.WithDepthStep(d.opts.DepthStep))
	f := d.rec.Join(l, source)
	d.last = f
	observability.Dashboard().OnTreeRender(ctx, source.ID,
		f.Count(reconcile.Enter), f.Count(reconcile.Update), f.Count(reconcile.Exit))
	return f
}

// Frame returns the most recent frame.
func (d *Diagram) Frame() reconcile.Frame { return d.last }

// SVG renders the most recent frame.
func (d *Diagram) SVG(opts ...sink.SVGOption) []byte {
	return sink.RenderSVG(d.last, append([]sink.SVGOption{sink.WithMargins(d.opts.Margins)}, opts...)...)
}

// DOT returns the settled picture of the most recent frame as Graphviz DOT.
func (d *Diagram) DOT() string { return sink.ToDOT(d.last) }
