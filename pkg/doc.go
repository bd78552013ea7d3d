// Package pkg provides the core libraries for the evdash charging dashboard.
//
// # Overview
//
// evdash shows public EV charging stations on a map, lets the user filter
// them by charger type, charts how many visible markers each type has and
// draws a collapsible tree of electric vehicle models. The pkg directory is
// organized into four areas:
//
//  1. Domain: [stations], [chargermap], [hierarchy], [treediagram]
//  2. Rendering: [render] and its tree and bar chart subpackages
//  3. Orchestration: [dashboard] ties the map, chart and tree together
//  4. Infrastructure: [cache], [httputil], [config], [observability], [errors]
//
// # Architecture
//
// The data flow through the dashboard:
//
//	NREL station document (file or URL)
//	         ↓
//	    [stations] package (decode + validate)
//	         ↓
//	    [chargermap] package (marker layers + filters)
//	         ↓
//	    [dashboard] controller ← [treediagram] (vehicle hierarchy)
//	         ↓
//	    GeoJSON / SVG / PNG / PDF / websocket events
//
// # Quick Start
//
// Load stations and apply a filter:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/evdash/pkg/dashboard"
//	    "github.com/matzehuels/evdash/pkg/stations"
//	)
//
//	ctl := dashboard.New(dashboard.Options{})
//	if err := ctl.Load(ctx, stations.NewLoader(nil), "stations.json", false); err != nil {
//	    return err
//	}
//	state, err := ctl.ToggleFilter(ctx, "TESLA")
//
// The first filter replaces the initial "everything shown" view; later ones
// add or remove their layer.
//
// # Infrastructure
//
// Remote station documents are fetched through [httputil.Client] and stored
// in a [cache.Cache] (file, Redis or none). Configuration comes from
// [config.Load], which layers defaults, an optional TOML or YAML file and
// EVDASH_ environment variables.
//
// [stations]: github.com/matzehuels/evdash/pkg/stations
// [chargermap]: github.com/matzehuels/evdash/pkg/chargermap
// [hierarchy]: github.com/matzehuels/evdash/pkg/hierarchy
// [treediagram]: github.com/matzehuels/evdash/pkg/treediagram
// [render]: github.com/matzehuels/evdash/pkg/render
// [dashboard]: github.com/matzehuels/evdash/pkg/dashboard
// [cache]: github.com/matzehuels/evdash/pkg/cache
// [httputil]: github.com/matzehuels/evdash/pkg/httputil
// [config]: github.com/matzehuels/evdash/pkg/config
// [observability]: github.com/matzehuels/evdash/pkg/observability
// [errors]: github.com/matzehuels/evdash/pkg/errors
package pkg
