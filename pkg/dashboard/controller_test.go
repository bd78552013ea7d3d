package dashboard

import (
	"bytes"
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/matzehuels/evdash/pkg/errors"
	"github.com/matzehuels/evdash/pkg/hierarchy"
	"github.com/matzehuels/evdash/pkg/render/tree/reconcile"
	"github.com/matzehuels/evdash/pkg/stations"
	"github.com/matzehuels/evdash/pkg/treediagram"
)

var stationsFile = filepath.Join("..", "stations", "testdata", "stations.json")

const vehiclesJSON = `{
  "key": "Vehicles",
  "children": [
    {"key": "Electric", "children": [
      {"key": "Acme", "children": [
        {"id": 1, "model": "ModelX", "model_year": 2017, "price": 80000, "fuel": "Electric", "manufacturer": "Acme"}
      ]}
    ]},
    {"key": "Hybrid", "children": [
      {"key": "Toyota", "children": [
        {"id": 4, "model": "Prius", "model_year": 2016, "price": 24200, "fuel": "Hybrid", "manufacturer": "Toyota"}
      ]}
    ]}
  ]
}`

func readyController(t *testing.T) *Controller {
	t.Helper()
	c := New(Options{})
	if err := c.Load(context.Background(), stations.NewLoader(nil), stationsFile, false); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return c
}

func activeFilters(st State) []string {
	var keys []string
	for _, b := range st.Filters {
		if b.Active {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

func TestNotReadyBeforeLoad(t *testing.T) {
	c := New(Options{})
	if s, _ := c.Status(); s != StatusLoading {
		t.Fatalf("Status = %s, want loading", s)
	}
	ctx := context.Background()
	if _, err := c.ToggleFilter(ctx, "TESLA"); !errors.Is(err, errors.ErrCodeNotReady) {
		t.Errorf("ToggleFilter before load: %v, want NOT_READY", err)
	}
	if _, err := c.ToggleAll(ctx); !errors.Is(err, errors.ErrCodeNotReady) {
		t.Errorf("ToggleAll before load: %v, want NOT_READY", err)
	}
	if _, err := c.Markers(); !errors.Is(err, errors.ErrCodeNotReady) {
		t.Errorf("Markers before load: %v, want NOT_READY", err)
	}
	st := c.State()
	if !st.All || len(st.Filters) != len(stations.DefaultCatalogue) {
		t.Errorf("initial state = %+v", st)
	}
}

func TestFailedLoad(t *testing.T) {
	c := New(Options{})
	err := c.Load(context.Background(), stations.NewLoader(nil), filepath.Join(t.TempDir(), "missing.json"), false)
	if err == nil {
		t.Fatal("Load() of a missing file should fail")
	}
	s, cause := c.Status()
	if s != StatusFailed || cause == nil {
		t.Fatalf("Status = %s, %v; want failed with cause", s, cause)
	}
	if st := c.State(); st.Error == "" {
		t.Error("State.Error should carry the load failure")
	}
	if _, err := c.ToggleAll(context.Background()); !errors.Is(err, errors.ErrCodeNotReady) {
		t.Errorf("ToggleAll after failure: %v, want NOT_READY", err)
	}
}

func TestLoadShowsEverything(t *testing.T) {
	c := readyController(t)
	st := c.State()
	if st.Status != StatusReady || st.StationCount != 4 {
		t.Fatalf("State = %+v", st)
	}
	if st.Visible != 6 {
		t.Errorf("Visible = %d, want 6", st.Visible)
	}
	if !st.All || len(activeFilters(st)) != 0 {
		t.Errorf("All = %v, active = %v; want only All", st.All, activeFilters(st))
	}
}

func TestToggleFilter(t *testing.T) {
	c := readyController(t)
	ctx := context.Background()

	st, err := c.ToggleFilter(ctx, "TESLA")
	if err != nil {
		t.Fatalf("ToggleFilter(TESLA) error: %v", err)
	}
	if st.All || st.Visible != 1 {
		t.Errorf("after TESLA: All=%v Visible=%d; want false/1", st.All, st.Visible)
	}

	st, _ = c.ToggleFilter(ctx, "J1772")
	if st.Visible != 2 {
		t.Errorf("after J1772: Visible=%d, want 2", st.Visible)
	}
	if got := activeFilters(st); len(got) != 2 {
		t.Errorf("active filters = %v, want 2", got)
	}

	st, _ = c.ToggleFilter(ctx, "TESLA")
	if st.Visible != 1 {
		t.Errorf("after TESLA off: Visible=%d, want 1", st.Visible)
	}
	for _, d := range st.Distribution {
		want := 0
		if d.Key == "J1772" {
			want = 1
		}
		if d.Count != want {
			t.Errorf("distribution[%s] = %d, want %d", d.Key, d.Count, want)
		}
	}
}

func TestToggleAll(t *testing.T) {
	c := readyController(t)
	ctx := context.Background()

	c.ToggleFilter(ctx, "TESLA")
	st, err := c.ToggleAll(ctx)
	if err != nil {
		t.Fatalf("ToggleAll() error: %v", err)
	}
	if !st.All || st.Visible != 6 || len(activeFilters(st)) != 0 {
		t.Errorf("All on: All=%v Visible=%d active=%v", st.All, st.Visible, activeFilters(st))
	}

	st, _ = c.ToggleAll(ctx)
	if st.All || st.Visible != 0 {
		t.Errorf("All off: All=%v Visible=%d; want false/0", st.All, st.Visible)
	}

	// the map is back in its initial state, so a filter shows only itself
	st, _ = c.ToggleFilter(ctx, "TESLA")
	if st.Visible != 1 {
		t.Errorf("TESLA after All off: Visible=%d, want 1", st.Visible)
	}
}

func TestToggleFilterErrors(t *testing.T) {
	c := readyController(t)
	ctx := context.Background()

	tests := []struct {
		key  string
		code errors.Code
	}{
		{"BOGUS", errors.ErrCodeUnknownFilter},
		{"bad key!", errors.ErrCodeInvalidInput},
		{"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		if _, err := c.ToggleFilter(ctx, tt.key); !errors.Is(err, tt.code) {
			t.Errorf("ToggleFilter(%q) = %v, want %s", tt.key, err, tt.code)
		}
	}
	if st := c.State(); !st.All || st.Visible != 6 {
		t.Error("failed toggles should not change state")
	}
}

func TestMarkersAndDistribution(t *testing.T) {
	c := readyController(t)

	gj, err := c.Markers()
	if err != nil {
		t.Fatalf("Markers() error: %v", err)
	}
	if !bytes.Contains(gj, []byte(`"FeatureCollection"`)) {
		t.Errorf("Markers() = %s", gj)
	}
	svg, err := c.DistributionSVG()
	if err != nil {
		t.Fatalf("DistributionSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`id="chargerDist"`)) {
		t.Error("distribution chart missing id")
	}
	dist, _ := c.Distribution()
	if len(dist) != len(stations.DefaultCatalogue) {
		t.Errorf("Distribution has %d entries", len(dist))
	}
}

func TestSubscribe(t *testing.T) {
	c := New(Options{})

	var mu sync.Mutex
	var got []EventType
	cancel := c.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev.Type)
		mu.Unlock()
	})

	doc, err := stations.LoadFile(stationsFile)
	if err != nil {
		t.Fatal(err)
	}
	c.SetStations(doc)
	c.ToggleAll(context.Background())
	cancel()
	c.ToggleAll(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != EventState {
		t.Errorf("events = %v, want two state events", got)
	}
}

func TestConcurrentTogglesPublishInOrder(t *testing.T) {
	c := readyController(t)
	ctx := context.Background()

	var mu sync.Mutex
	var last *State
	c.Subscribe(func(ev Event) {
		mu.Lock()
		last = ev.State
		mu.Unlock()
	})

	keys := []string{"TESLA", "J1772", "CHADEMO", "NEMA1450"}
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				c.ToggleAll(ctx)
				return
			}
			c.ToggleFilter(ctx, keys[i%len(keys)])
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if last == nil {
		t.Fatal("no state event published")
	}
	if want := c.State(); !reflect.DeepEqual(*last, want) {
		t.Errorf("last published state = %+v, want %+v", *last, want)
	}
}

func TestAttach(t *testing.T) {
	c := readyController(t)

	var initial []Event
	var later int
	c.Attach(func(evs []Event) {
		initial = evs
		c.Subscribe(func(Event) { later++ })
	})
	if len(initial) != 1 || initial[0].Type != EventState || initial[0].State.Visible != 6 {
		t.Fatalf("initial events = %+v, want one state with 6 markers", initial)
	}

	c.ToggleAll(context.Background())
	if later != 1 {
		t.Errorf("events after Attach = %d, want 1", later)
	}
}

func TestTreePassthrough(t *testing.T) {
	ctx := context.Background()

	c := New(Options{})
	if _, err := c.ClickNode(ctx, 0); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ClickNode without tree: %v, want UNSUPPORTED", err)
	}

	tr, err := hierarchy.Parse([]byte(vehiclesJSON))
	if err != nil {
		t.Fatal(err)
	}
	d, err := treediagram.New(ctx, tr, nil, treediagram.Options{})
	if err != nil {
		t.Fatal(err)
	}
	c = New(Options{Tree: d, ImageBase: "/img"})

	var frames int
	c.Subscribe(func(ev Event) {
		if ev.Type == EventFrame {
			frames++
		}
	})

	f, err := c.RevealModel(ctx, "ModelX")
	if err != nil {
		t.Fatalf("RevealModel() error: %v", err)
	}
	if f.Count(reconcile.Enter) == 0 {
		t.Error("revealing should enter nodes")
	}
	if _, err := c.RevealModel(ctx, "Nope"); !errors.Is(err, errors.ErrCodeModelNotFound) {
		t.Errorf("RevealModel(Nope) = %v, want MODEL_NOT_FOUND", err)
	}
	if _, err := c.ClickNode(ctx, 999); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("ClickNode(999) = %v, want NODE_NOT_FOUND", err)
	}
	if _, err := c.ClickNode(ctx, 0); err != nil {
		t.Errorf("ClickNode(0) error: %v", err)
	}
	if frames != 2 {
		t.Errorf("frame events = %d, want 2", frames)
	}

	last, err := c.TreeFrame()
	if err != nil {
		t.Fatal(err)
	}
	if last.Source != 0 {
		t.Errorf("latest frame source = %d, want root", last.Source)
	}
	svg, err := c.TreeSVG()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`id="modelTreeSVG"`)) {
		t.Error("tree svg missing id")
	}
}
