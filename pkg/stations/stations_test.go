package stations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/matzehuels/evdash/pkg/errors"
)

func TestLoadFile(t *testing.T) {
	doc, err := LoadFile("testdata/stations.json")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if doc.Count() != 4 {
		t.Errorf("Count = %d, want 4", doc.Count())
	}
	s := doc.Stations[2]
	if !s.Has("CHADEMO") || !s.Has("J1772COMBO") || s.Has("TESLA") {
		t.Errorf("connector types = %v", s.ConnectorTypes)
	}
	if s.Name != "Highway Plaza" || s.DCFast != 2 {
		t.Errorf("station = %+v", s)
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{`},
		{"missing array", `{"total_results": 0}`},
		{"bad latitude", `{"fuel_stations": [{"id": 1, "latitude": 91, "longitude": 0}]}`},
		{"bad longitude", `{"fuel_stations": [{"id": 1, "latitude": 0, "longitude": -181}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("Decode error = %v, want INVALID_DOCUMENT", err)
			}
		})
	}

	doc, err := Decode(strings.NewReader(`{"fuel_stations": []}`))
	if err != nil || doc.Count() != 0 {
		t.Errorf("empty array: %v, %v", doc, err)
	}
}

func TestCatalogue(t *testing.T) {
	c := DefaultCatalogue
	want := []string{"NEMA515", "NEMA520", "NEMA1450", "J1772", "CHADEMO", "J1772COMBO", "TESLA"}
	keys := c.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
	if c.Label("J1772COMBO") != "SAE J1772 Combo" {
		t.Errorf("Label(J1772COMBO) = %s", c.Label("J1772COMBO"))
	}
	if c.Label("OTHER") != "OTHER" || c.Contains("OTHER") {
		t.Error("unknown keys should fall back to the key")
	}

	custom := FromLabels([]string{"A", "B"}, map[string]string{"A": "Alpha"})
	if custom.Label("A") != "Alpha" || custom.Label("B") != "B" {
		t.Errorf("FromLabels = %+v", custom)
	}
}

func TestColorScale(t *testing.T) {
	s := NewColorScale(DefaultCatalogue.Keys())

	if got := s.Color("NEMA515"); got != "#a6cee3" {
		t.Errorf("Color(NEMA515) = %s", got)
	}
	if got := s.Color("TESLA"); got != "#fdbf6f" {
		t.Errorf("Color(TESLA) = %s", got)
	}
	// unknown keys extend the domain
	if got := s.Color("OTHER"); got != "#ff7f00" {
		t.Errorf("Color(OTHER) = %s", got)
	}
	if got := s.Color("MORE"); got != "#a6cee3" {
		t.Errorf("Color(MORE) should wrap, got %s", got)
	}
	if len(s.Domain()) != 9 {
		t.Errorf("Domain = %v", s.Domain())
	}
	if s.Color("OTHER") != "#ff7f00" {
		t.Error("Color should be stable")
	}
}

func TestLoaderFile(t *testing.T) {
	doc, err := NewLoader(nil).Load(context.Background(), "testdata/stations.json", false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Count() != 4 {
		t.Errorf("Count = %d", doc.Count())
	}

	if _, err := NewLoader(nil).Load(context.Background(), "", false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty source error = %v", err)
	}
}

func TestLoaderURL(t *testing.T) {
	data, err := os.ReadFile("testdata/stations.json")
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	doc, err := NewLoader(nil).Load(context.Background(), srv.URL+"/stations.json", false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Count() != 4 {
		t.Errorf("Count = %d", doc.Count())
	}

	_, err = NewLoader(nil).Load(context.Background(), srv.URL+"/missing.json", false)
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing document error = %v, want NOT_FOUND", err)
	}
}
