package dashboard

import (
	"context"
	"sync"

	"github.com/golang/geo/s2"

	"github.com/matzehuels/evdash/pkg/chargermap"
	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/observability"
	"github.com/matzehuels/evdash/pkg/render/bars"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
	"github.com/matzehuels/evdash/pkg/render/tree/sink"
	"github.com/matzehuels/evdash/pkg/stations"
	"github.com/matzehuels/evdash/pkg/treediagram"
)

// Options configures a [Controller].
type Options struct {
	Catalogue stations.Catalogue
	Center    *s2.LatLng
	Zoom      int
	// ImageBase is where leaf tooltip pictures are served from.
	ImageBase string
	// Tree is the vehicle diagram; nil disables the tree operations.
	Tree *treediagram.Diagram
}

// Controller is the single owner of the dashboard state.
type Controller struct {
	mu sync.Mutex

	opts      Options
	catalogue stations.Catalogue
	colors    *stations.ColorScale

	status Status
	err    error
	doc    *stations.Document
	m      *chargermap.Map
	chart  *bars.Chart

	active    map[string]bool
	allActive bool

	tree *treediagram.Diagram

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// New returns a controller waiting for station data.
func New(opts Options) *Controller {
	cat := opts.Catalogue
	if cat == nil {
		cat = stations.DefaultCatalogue
	}
	return &Controller{
		opts:      opts,
		catalogue: cat,
		colors:    stations.NewColorScale(cat.Keys()),
		status:    StatusLoading,
		active:    make(map[string]bool),
		allActive: true,
		tree:      opts.Tree,
		subs:      make(map[int]func(Event)),
	}
}

// Load fetches the station document from src and installs it. A failed
// load leaves the controller in [StatusFailed].
func (c *Controller) Load(ctx context.Context, loader *stations.Loader, src string, refresh bool) error {
	doc, err := loader.Load(ctx, src, refresh)
	if err != nil {
		c.Fail(err)
		return err
	}
	c.SetStations(doc)
	return nil
}

// SetStations builds the map and the distribution chart from doc and marks
// the dashboard ready.
func (c *Controller) SetStations(doc *stations.Document) {
	c.mu.Lock()
	c.doc = doc
	c.m = chargermap.New(doc.Stations, chargermap.Options{
		Center:    c.opts.Center,
		Zoom:      c.opts.Zoom,
		Catalogue: c.catalogue,
		Colors:    c.colors,
	})
	c.chart = bars.New(toBars(c.m.ChargerDistribution()))
	clear(c.active)
	c.allActive = true
	c.status, c.err = StatusReady, nil
	st := c.stateLocked()
	c.publish(Event{Type: EventState, State: &st})
	c.mu.Unlock()
}

// Fail records a loading error.
func (c *Controller) Fail(err error) {
	c.mu.Lock()
	c.status, c.err = StatusFailed, err
	st := c.stateLocked()
	c.publish(Event{Type: EventState, State: &st})
	c.mu.Unlock()
}

// Status returns the loading state and, when failed, the error.
func (c *Controller) Status() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.err
}

// State returns a snapshot of the dashboard.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	center := chargermap.CenterUS
	if c.opts.Center != nil {
		center = *c.opts.Center
	}
	st := State{
		Status: c.status,
		All:    c.allActive,
		Center: [2]float64{center.Lat.Degrees(), center.Lng.Degrees()},
		Zoom:   chargermap.DefaultZoom,
	}
	if c.opts.Zoom > 0 {
		st.Zoom = c.opts.Zoom
	}
	if c.err != nil {
		st.Error = errors.UserMessage(c.err)
	}
	for _, t := range c.catalogue {
		st.Filters = append(st.Filters, Button{
			Key:    t.Key,
			Label:  t.Label,
			Color:  c.colors.Color(t.Key),
			Active: c.active[t.Key],
		})
	}
	if c.status == StatusReady {
		st.StationCount = c.doc.Count()
		st.Visible = len(c.m.Visible())
		st.Distribution = c.m.ChargerDistribution()
	}
	return st
}

func (c *Controller) readyLocked() error {
	switch c.status {
	case StatusReady:
		return nil
	case StatusFailed:
		return errors.Wrap(errors.ErrCodeNotReady, c.err, "station data failed to load")
	default:
		return errors.New(errors.ErrCodeNotReady, "station data is still loading")
	}
}

// ToggleFilter flips the button for key and deactivates "All". Activating
// a filter while the map still shows everything first clears the map so
// only the chosen type remains.
func (c *Controller) ToggleFilter(ctx context.Context, key string) (State, error) {
	c.mu.Lock()
	if err := c.readyLocked(); err != nil {
		c.mu.Unlock()
		return State{}, err
	}
	if err := errors.ValidateFilterKey(key); err != nil {
		c.mu.Unlock()
		return State{}, err
	}
	if !c.catalogue.Contains(key) {
		c.mu.Unlock()
		return State{}, errors.New(errors.ErrCodeUnknownFilter, "unknown charger type %q", key)
	}

	on := !c.active[key]
	var err error
	if on {
		if c.m.IsInitial() {
			c.m.RemoveAllMarkers()
		}
		err = c.m.AddMarkers([]string{key})
	} else {
		err = c.m.RemoveMarkers([]string{key})
	}
	if err != nil {
		c.mu.Unlock()
		return State{}, err
	}
	c.active[key] = on
	c.allActive = false
	c.refreshLocked()
	st := c.stateLocked()
	c.publish(Event{Type: EventState, State: &st})
	c.mu.Unlock()

	observability.Dashboard().OnFilterChange(ctx, key, on, st.Visible)
	return st, nil
}

// ToggleAll flips the "All" button. Activating it shows every marker and
// deactivates the individual filters; deactivating it hides every marker.
func (c *Controller) ToggleAll(ctx context.Context) (State, error) {
	c.mu.Lock()
	if err := c.readyLocked(); err != nil {
		c.mu.Unlock()
		return State{}, err
	}

	if !c.allActive {
		c.allActive = true
		c.m.RemoveAllMarkers()
		c.m.UpdateVis()
		c.m.AddAllMarkers()
		clear(c.active)
	} else {
		c.allActive = false
		c.m.RemoveAllMarkers()
	}
	c.refreshLocked()
	st := c.stateLocked()
	c.publish(Event{Type: EventState, State: &st})
	c.mu.Unlock()

	observability.Dashboard().OnFilterChange(ctx, "all", st.All, st.Visible)
	return st, nil
}

func (c *Controller) refreshLocked() {
	c.m.UpdateVis()
	c.chart.Update(toBars(c.m.ChargerDistribution()))
}

// Markers returns the visible markers as GeoJSON.
func (c *Controller) Markers() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return nil, err
	}
	return c.m.GeoJSON()
}

// Distribution returns the current per-type counts.
func (c *Controller) Distribution() ([]chargermap.Count, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return nil, err
	}
	return c.m.ChargerDistribution(), nil
}

// DistributionSVG renders the distribution chart.
func (c *Controller) DistributionSVG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return nil, err
	}
	return c.chart.SVG(), nil
}

func toBars(counts []chargermap.Count) []bars.Bar {
	out := make([]bars.Bar, len(counts))
	for i, ct := range counts {
		out[i] = bars.Bar{Key: ct.Key, Label: ct.Label, Color: ct.Color, Value: ct.Count}
	}
	return out
}

// HasTree reports whether a tree diagram is configured.
func (c *Controller) HasTree() bool { return c.tree != nil }

func (c *Controller) treeLocked() error {
	if c.tree == nil {
		return errors.New(errors.ErrCodeUnsupported, "no vehicle hierarchy configured")
	}
	return nil
}

// ClickNode toggles tree node id and returns the new frame.
func (c *Controller) ClickNode(ctx context.Context, id int) (reconcile.Frame, error) {
	c.mu.Lock()
	if err := c.treeLocked(); err != nil {
		c.mu.Unlock()
		return reconcile.Frame{}, err
	}
	defer c.mu.Unlock()
	f, err := c.tree.Click(ctx, id)
	if err != nil {
		return reconcile.Frame{}, err
	}
	c.publish(Event{Type: EventFrame, Frame: &f})
	return f, nil
}

// RevealModel opens the tree down to the vehicle with the given model.
func (c *Controller) RevealModel(ctx context.Context, model string) (reconcile.Frame, error) {
	c.mu.Lock()
	if err := c.treeLocked(); err != nil {
		c.mu.Unlock()
		return reconcile.Frame{}, err
	}
	defer c.mu.Unlock()
	_, f, err := c.tree.RevealPath(ctx, model)
	if err != nil {
		return reconcile.Frame{}, err
	}
	c.publish(Event{Type: EventFrame, Frame: &f})
	return f, nil
}

// TreeFrame returns the most recent tree frame.
func (c *Controller) TreeFrame() (reconcile.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.treeLocked(); err != nil {
		return reconcile.Frame{}, err
	}
	return c.tree.Frame(), nil
}

// TreeSVG renders the most recent tree frame with leaf tooltips.
func (c *Controller) TreeSVG(opts ...sink.SVGOption) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.treeLocked(); err != nil {
		return nil, err
	}
	if c.opts.ImageBase != "" {
		opts = append([]sink.SVGOption{sink.WithTooltips(c.opts.ImageBase)}, opts...)
	}
	return c.tree.SVG(opts...), nil
}

// Attach calls fn with the events describing the current dashboard: the
// state, then the tree frame when there is a tree. No event is published
// while fn runs, so a listener registered inside fn misses nothing and sees
// nothing twice. fn must not call back into the controller.
func (c *Controller) Attach(fn func(initial []Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked()
	initial := []Event{{Type: EventState, State: &st}}
	if c.tree != nil {
		f := c.tree.Frame()
		initial = append(initial, Event{Type: EventFrame, Frame: &f})
	}
	fn(initial)
}

// Subscribe registers fn for every future event and returns a function that
// removes it. Events are delivered in the order the changes were made, on
// the goroutine that made them, while the controller is locked; fn must be
// quick and must not call back into the controller.
func (c *Controller) Subscribe(fn func(Event)) (cancel func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

// publish must be called with c.mu held.
func (c *Controller) publish(ev Event) {
	c.subMu.Lock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
