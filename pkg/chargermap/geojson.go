package chargermap

import (
	"encoding/json"
	"math"
)

type featureCollection struct {
	Type     string    `json:"type"`
	BBox     []float64 `json:"bbox,omitempty"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string     `json:"type"`
	Geometry   point      `json:"geometry"`
	Properties properties `json:"properties"`
}

type point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type properties struct {
	StationID  int     `json:"station_id"`
	Type       string  `json:"charger_type"`
	Name       string  `json:"name"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	Network    string  `json:"network,omitempty"`
	Color      string  `json:"color"`
	DistanceKm float64 `json:"distance_km"`
}

// GeoJSON returns the visible markers as a FeatureCollection. Coordinates
// are [longitude, latitude] and the bbox is omitted when nothing is
// visible.
func (m *Map) GeoJSON() ([]byte, error) {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(m.visible))}
	if !m.bounds.IsEmpty() {
		lo, hi := m.bounds.Lo(), m.bounds.Hi()
		fc.BBox = []float64{lo.Lng.Degrees(), lo.Lat.Degrees(), hi.Lng.Degrees(), hi.Lat.Degrees()}
	}
	for _, mk := range m.visible {
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: point{
				Type:        "Point",
				Coordinates: [2]float64{mk.Position.Lng.Degrees(), mk.Position.Lat.Degrees()},
			},
			Properties: properties{
				StationID:  mk.StationID,
				Type:       mk.Type,
				Name:       mk.Name,
				City:       mk.City,
				State:      mk.State,
				Network:    mk.Network,
				Color:      mk.Color,
				DistanceKm: math.Round(mk.DistanceKm*10) / 10,
			},
		})
	}
	return json.Marshal(fc)
}
