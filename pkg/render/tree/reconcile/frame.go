package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/evdash/pkg/hierarchy"
	"github.com/matzehuels/evdash/pkg/render/tree/layout"
)

// Hidden is the radius and opacity used for elements that are not yet, or
// no longer, on screen. Zero would make some renderers drop the element.
const Hidden = 1e-6

// Phase classifies an element of a frame.
type Phase uint8

const (
	Enter Phase = iota
	Update
	Exit
)

func (p Phase) String() string {
	switch p {
	case Enter:
		return "enter"
	case Update:
		return "update"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "enter":
		*p = Enter
	case "update":
		*p = Update
	case "exit":
		*p = Exit
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

// NodeChange is the transition of a single node within a frame.
type NodeChange struct {
	ID        int             `json:"id"`
	Phase     Phase           `json:"phase"`
	Label     string          `json:"label"`
	Leaf      bool            `json:"leaf"`
	Collapsed bool            `json:"collapsed"`
	From      layout.Position `json:"from"`
	To        layout.Position `json:"to"`

	RadiusFrom  float64 `json:"radius_from"`
	RadiusTo    float64 `json:"radius_to"`
	OpacityFrom float64 `json:"opacity_from"`
	OpacityTo   float64 `json:"opacity_to"`

	// Vehicle is set for leaves and feeds the tooltip.
	Vehicle *hierarchy.Vehicle `json:"vehicle,omitempty"`
}

// Radius is the radius the node settles at once the frame has played.
func (c NodeChange) Radius() float64 { return c.RadiusTo }

// Segment is a parent→child connection between two points.
type Segment struct {
	Source layout.Position `json:"source"`
	Target layout.Position `json:"target"`
}

// Path returns the cubic Bézier diagonal between the two ends of s, bent
// along the depth axis.
func (s Segment) Path() string {
	mx := (s.Source.X + s.Target.X) / 2
	return fmt.Sprintf("M%g,%gC%g,%g %g,%g %g,%g",
		s.Source.X, s.Source.Y,
		mx, s.Source.Y,
		mx, s.Target.Y,
		s.Target.X, s.Target.Y)
}

// collapsedAt returns a zero-length segment at p.
func collapsedAt(p layout.Position) Segment {
	return Segment{Source: p, Target: p}
}

// LinkChange is the transition of a single link, keyed by its target.
type LinkChange struct {
	TargetID int     `json:"target_id"`
	SourceID int     `json:"source_id"`
	Phase    Phase   `json:"phase"`
	From     Segment `json:"from"`
	To       Segment `json:"to"`
}

// Frame is one reconciled render.
type Frame struct {
	ID         uuid.UUID     `json:"id"`
	Source     int           `json:"source"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Nodes      []NodeChange  `json:"nodes"`
	Links      []LinkChange  `json:"links"`
}

// Count returns the number of nodes in phase p.
func (f Frame) Count(p Phase) int {
	n := 0
	for _, c := range f.Nodes {
		if c.Phase == p {
			n++
		}
	}
	return n
}

// LinkCount returns the number of links in phase p.
func (f Frame) LinkCount(p Phase) int {
	n := 0
	for _, c := range f.Links {
		if c.Phase == p {
			n++
		}
	}
	return n
}

// Settled returns the nodes that remain on screen once the frame has played.
func (f Frame) Settled() []NodeChange {
	out := make([]NodeChange, 0, len(f.Nodes))
	for _, c := range f.Nodes {
		if c.Phase != Exit {
			out = append(out, c)
		}
	}
	return out
}
