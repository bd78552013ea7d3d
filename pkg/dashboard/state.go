package dashboard

import (
	"github.com/matzehuels/evdash/pkg/chargermap"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
)

// Status is the data-loading state of the dashboard.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Button is one filter button.
type Button struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Color  string `json:"color"`
	Active bool   `json:"active"`
}

// State is a snapshot of everything the page displays outside the tree.
type State struct {
	Status       Status             `json:"status"`
	Error        string             `json:"error,omitempty"`
	StationCount int                `json:"station_count"`
	Filters      []Button           `json:"filters"`
	All          bool               `json:"all"`
	Visible      int                `json:"visible_markers"`
	Distribution []chargermap.Count `json:"distribution,omitempty"`
	Center       [2]float64         `json:"center"`
	Zoom         int                `json:"zoom"`
}

// EventType names the payload of an [Event].
type EventType string

const (
	EventState EventType = "state"
	EventFrame EventType = "frame"
)

// Event is pushed to subscribers after a mutation.
type Event struct {
	Type  EventType        `json:"type"`
	State *State           `json:"state,omitempty"`
	Frame *reconcile.Frame `json:"frame,omitempty"`
}
