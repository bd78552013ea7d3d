package chargermap

import (
	"github.com/golang/geo/s2"

	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/stations"
)

// EarthRadiusKm is the mean radius used for distances.
const EarthRadiusKm = 6371.0

// CenterUS is the geographic center of the contiguous United States.
var CenterUS = s2.LatLngFromDegrees(39.8333333, -98.585522)

// DefaultZoom is the initial zoom level of the browser map.
const DefaultZoom = 4

// Marker is one station shown in one charger-type layer.
type Marker struct {
	StationID  int
	Type       string
	Name       string
	City       string
	State      string
	Network    string
	Position   s2.LatLng
	Color      string
	DistanceKm float64
}

// Count is one bar of the distribution chart.
type Count struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// Options configures [New]. Zero fields take the defaults.
type Options struct {
	Center    *s2.LatLng
	Zoom      int
	Catalogue stations.Catalogue
	Colors    *stations.ColorScale
}

// Map holds the marker layers and which of them are shown.
// It is not safe for concurrent use.
type Map struct {
	center    s2.LatLng
	zoom      int
	catalogue stations.Catalogue
	colors    *stations.ColorScale

	layers  map[string][]Marker
	shown   map[string]bool
	initial bool

	visible []Marker
	bounds  s2.Rect
}

// New builds the layers for list and shows all of them. Connector types
// missing from the catalogue are ignored.
func New(list []stations.Station, opts Options) *Map {
	m := &Map{
		center:    CenterUS,
		zoom:      DefaultZoom,
		catalogue: opts.Catalogue,
		colors:    opts.Colors,
		layers:    make(map[string][]Marker),
		shown:     make(map[string]bool),
	}
	if opts.Center != nil {
		m.center = *opts.Center
	}
	if opts.Zoom > 0 {
		m.zoom = opts.Zoom
	}
	if m.catalogue == nil {
		m.catalogue = stations.DefaultCatalogue
	}
	if m.colors == nil {
		m.colors = stations.NewColorScale(m.catalogue.Keys())
	}

	for _, s := range list {
		pos := s2.LatLngFromDegrees(s.Latitude, s.Longitude)
		dist := m.center.Distance(pos).Radians() * EarthRadiusKm
		for _, typ := range s.ConnectorTypes {
			if !m.catalogue.Contains(typ) {
				continue
			}
			m.layers[typ] = append(m.layers[typ], Marker{
				StationID:  s.ID,
				Type:       typ,
				Name:       s.Name,
				City:       s.City,
				State:      s.State,
				Network:    s.Network,
				Position:   pos,
				Color:      m.colors.Color(typ),
				DistanceKm: dist,
			})
		}
	}

	m.AddAllMarkers()
	m.UpdateVis()
	return m
}

func (m *Map) check(keys []string) error {
	for _, k := range keys {
		if err := errors.ValidateFilterKey(k); err != nil {
			return err
		}
		if !m.catalogue.Contains(k) {
			return errors.New(errors.ErrCodeUnknownFilter, "unknown charger type %q", k)
		}
	}
	return nil
}

// AddMarkers shows the layers for keys. The map leaves its initial state.
func (m *Map) AddMarkers(keys []string) error {
	if err := m.check(keys); err != nil {
		return err
	}
	for _, k := range keys {
		m.shown[k] = true
	}
	m.initial = false
	return nil
}

// RemoveMarkers hides the layers for keys. The map leaves its initial state.
func (m *Map) RemoveMarkers(keys []string) error {
	if err := m.check(keys); err != nil {
		return err
	}
	for _, k := range keys {
		delete(m.shown, k)
	}
	m.initial = false
	return nil
}

// RemoveAllMarkers hides every layer.
func (m *Map) RemoveAllMarkers() {
	clear(m.shown)
}

// AddAllMarkers shows every layer and returns the map to its initial state.
func (m *Map) AddAllMarkers() {
	for _, k := range m.catalogue.Keys() {
		m.shown[k] = true
	}
	m.initial = true
}

// IsInitial reports whether no filter has been applied since the map was
// built or last reset with [Map.AddAllMarkers].
func (m *Map) IsInitial() bool { return m.initial }

// Shown reports whether the layer for key is on the map.
func (m *Map) Shown(key string) bool { return m.shown[key] }

// UpdateVis recomputes the visible markers, in catalogue order, and their
// bounds.
func (m *Map) UpdateVis() {
	var visible []Marker
	bounds := s2.EmptyRect()
	for _, k := range m.catalogue.Keys() {
		if !m.shown[k] {
			continue
		}
		for _, mk := range m.layers[k] {
			visible = append(visible, mk)
			bounds = bounds.AddPoint(mk.Position)
		}
	}
	m.visible, m.bounds = visible, bounds
}

// Visible returns the markers computed by the last [Map.UpdateVis].
func (m *Map) Visible() []Marker { return m.visible }

// Bounds returns the bounding box of the visible markers. It is empty when
// nothing is visible.
func (m *Map) Bounds() s2.Rect { return m.bounds }

// Center returns the initial map center.
func (m *Map) Center() s2.LatLng { return m.center }

// Zoom returns the initial zoom level.
func (m *Map) Zoom() int { return m.zoom }

// Catalogue returns the charger types the map filters by.
func (m *Map) Catalogue() stations.Catalogue { return m.catalogue }

// ChargerDistribution counts the visible markers per charger type. Every
// catalogue type is present, hidden ones with a zero count.
func (m *Map) ChargerDistribution() []Count {
	byType := make(map[string]int)
	for _, mk := range m.visible {
		byType[mk.Type]++
	}
	out := make([]Count, 0, len(m.catalogue))
	for _, t := range m.catalogue {
		out = append(out, Count{
			Key:   t.Key,
			Label: t.Label,
			Color: m.colors.Color(t.Key),
			Count: byType[t.Key],
		})
	}
	return out
}
