// Package stations loads alternative-fuel station records and describes the
// charger types they offer.
//
// Station data comes as a document with a "fuel_stations" array, the shape
// returned by the NREL alternative fuel stations API. [Load] reads it from a
// local file or an http(s) URL; remote documents go through the shared
// retrying, caching HTTP client.
//
// The [Catalogue] lists the charger types the dashboard filters by, in
// button order, with their display labels. A [ColorScale] assigns each type
// a color from a fixed ordinal palette.
package stations
