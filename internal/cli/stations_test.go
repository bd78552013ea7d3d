package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/stations"
)

func TestRunStations(t *testing.T) {
	c := newTestCLI(t)
	geo := filepath.Join(t.TempDir(), "markers.geojson")
	opts := &stationsOpts{
		data:    dataFlags{stations: "testdata/stations.json"},
		filters: []string{"J1772", "TESLA"},
		list:    10,
		geojson: geo,
	}

	var out bytes.Buffer
	if err := c.runStations(context.Background(), &out, opts); err != nil {
		t.Fatalf("runStations() error: %v", err)
	}
	s := out.String()
	for _, want := range []string{"Charging stations", "SAE J1772 Combo", "City Hall", "Mall Supercharger", "Wrote 2 markers"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(s, "RV Park") {
		t.Error("filtered station list should not include RV Park")
	}
	if _, err := os.Stat(geo); err != nil {
		t.Errorf("geojson not written: %v", err)
	}
}

func TestRunStationsErrors(t *testing.T) {
	c := newTestCLI(t)
	var out bytes.Buffer

	err := c.runStations(context.Background(), &out, &stationsOpts{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("no source = %v, want INVALID_INPUT", err)
	}

	err = c.runStations(context.Background(), &out, &stationsOpts{
		data:    dataFlags{stations: "testdata/stations.json"},
		filters: []string{"WIRELESS"},
	})
	if !errors.Is(err, errors.ErrCodeUnknownFilter) {
		t.Errorf("unknown filter = %v, want UNKNOWN_FILTER", err)
	}
}

func TestFilterStations(t *testing.T) {
	list := []stations.Station{
		{ID: 1, ConnectorTypes: []string{"J1772"}},
		{ID: 2, ConnectorTypes: []string{"TESLA", "J1772"}},
		{ID: 3, ConnectorTypes: []string{"CHADEMO"}},
	}
	if got := filterStations(list, nil); len(got) != 3 {
		t.Errorf("no filter kept %d stations", len(got))
	}
	if got := filterStations(list, []string{"J1772"}); len(got) != 2 {
		t.Errorf("J1772 kept %d stations, want 2", len(got))
	}
	if got := filterStations(list, []string{"TESLA", "CHADEMO"}); len(got) != 2 {
		t.Errorf("TESLA,CHADEMO kept %d stations, want 2", len(got))
	}
}
