// Package chargermap is the filterable station map of the dashboard.
//
// Every station becomes one marker per connector type it offers, grouped
// into one layer per charger type. Filters switch whole layers on and off;
// [Map.UpdateVis] then recomputes the visible markers and their bounding
// box. The map starts with every layer shown, which is its initial state:
// the first filter added replaces "everything" with just that type.
//
//	m := chargermap.New(doc.Stations, chargermap.Options{})
//	if m.IsInitial() {
//	    m.RemoveAllMarkers()
//	}
//	m.AddMarkers([]string{"TESLA"})
//	m.UpdateVis()
//	counts := m.ChargerDistribution()
//
// Visible markers export as a GeoJSON FeatureCollection for the browser map.
package chargermap
