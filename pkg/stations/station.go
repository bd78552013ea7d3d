package stations

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/evdash/pkg/errors"
)

// Station is one charging location.
type Station struct {
	ID             int      `json:"id"`
	Name           string   `json:"station_name"`
	Address        string   `json:"street_address,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Zip            string   `json:"zip,omitempty"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	FuelType       string   `json:"fuel_type_code,omitempty"`
	Network        string   `json:"ev_network,omitempty"`
	ConnectorTypes []string `json:"ev_connector_types"`
	Level1         int      `json:"ev_level1_evse_num,omitempty"`
	Level2         int      `json:"ev_level2_evse_num,omitempty"`
	DCFast         int      `json:"ev_dc_fast_num,omitempty"`
}

// Has reports whether the station offers connector type key.
func (s Station) Has(key string) bool { return slices.Contains(s.ConnectorTypes, key) }

// Document is the station payload.
type Document struct {
	TotalResults int       `json:"total_results,omitempty"`
	Stations     []Station `json:"fuel_stations"`
}

// Count is the number of stations, shown next to the map.
func (d *Document) Count() int { return len(d.Stations) }

// Decode reads a station document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode station document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that the document has a station array and that every
// station has usable coordinates.
func (d *Document) Validate() error {
	if d.Stations == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "station document has no fuel_stations array")
	}
	for i, s := range d.Stations {
		if s.Latitude < -90 || s.Latitude > 90 || s.Longitude < -180 || s.Longitude > 180 {
			return errors.New(errors.ErrCodeInvalidDocument,
				"fuel_stations[%d] (id %d): coordinates out of range", i, s.ID)
		}
	}
	return nil
}

// LoadFile reads a station document from path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stations %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
