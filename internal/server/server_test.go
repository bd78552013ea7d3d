package server

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/evdash/pkg/dashboard"
	"github.com/matzehuels/evdash/pkg/hierarchy"
	"github.com/matzehuels/evdash/pkg/stations"
	"github.com/matzehuels/evdash/pkg/treediagram"
)

const vehiclesJSON = `{
  "key": "Vehicles",
  "children": [
    {"key": "Electric", "children": [
      {"key": "Acme", "children": [
        {"id": 1, "model": "ModelX", "model_year": 2017, "price": 80000, "fuel": "Electric", "manufacturer": "Acme"}
      ]}
    ]}
  ]
}`

func newController(t *testing.T, ready bool) *dashboard.Controller {
	t.Helper()
	tr, err := hierarchy.Parse([]byte(vehiclesJSON))
	if err != nil {
		t.Fatal(err)
	}
	d, err := treediagram.New(context.Background(), tr, nil, treediagram.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctl := dashboard.New(dashboard.Options{Tree: d, ImageBase: "/img"})
	if ready {
		doc, err := stations.LoadFile(filepath.Join("..", "..", "pkg", "stations", "testdata", "stations.json"))
		if err != nil {
			t.Fatal(err)
		}
		ctl.SetStations(doc)
	}
	return ctl
}

func newServer(t *testing.T, ready bool) (*Server, *dashboard.Controller) {
	t.Helper()
	ctl := newController(t, ready)
	s := New(Config{Addr: "127.0.0.1:0", AllowedOrigins: []string{"*"}}, ctl, log.New(io.Discard))
	return s, ctl
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s, _ := newServer(t, false)
	w := do(t, s, http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s", w.Body)
	}
}

func TestIndex(t *testing.T) {
	s, _ := newServer(t, true)
	w := do(t, s, http.MethodGet, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`id="filter-all"`, `id="filter-TESLA"`, "SAE J1772 Combo", `id="modelTree"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %s", want)
		}
	}
}

func TestNotReady(t *testing.T) {
	s, _ := newServer(t, false)
	for _, path := range []string{"/api/markers", "/api/distribution", "/api/distribution.svg"} {
		if w := do(t, s, http.MethodGet, path); w.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s = %d, want 503", path, w.Code)
		}
	}
	w := do(t, s, http.MethodPost, "/api/filters/TESLA/toggle")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("toggle before ready = %d, want 503", w.Code)
	}
	var e errorResponse
	json.Unmarshal(w.Body.Bytes(), &e)
	if e.Code != "NOT_READY" {
		t.Errorf("error code = %q", e.Code)
	}
}

func TestFilterRoutes(t *testing.T) {
	s, _ := newServer(t, true)

	w := do(t, s, http.MethodPost, "/api/filters/TESLA/toggle")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle TESLA = %d: %s", w.Code, w.Body)
	}
	var st dashboard.State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.All || st.Visible != 1 {
		t.Errorf("after TESLA: all=%v visible=%d", st.All, st.Visible)
	}

	w = do(t, s, http.MethodPost, "/api/filters/all/toggle")
	json.Unmarshal(w.Body.Bytes(), &st)
	if !st.All || st.Visible != 6 {
		t.Errorf("after All: all=%v visible=%d", st.All, st.Visible)
	}

	if w := do(t, s, http.MethodPost, "/api/filters/BOGUS/toggle"); w.Code != http.StatusNotFound {
		t.Errorf("unknown filter = %d, want 404", w.Code)
	}
	if w := do(t, s, http.MethodGet, "/api/filters/TESLA/toggle"); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET toggle = %d, want 405", w.Code)
	}
}

func TestDataRoutes(t *testing.T) {
	s, _ := newServer(t, true)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/api/state", "application/json", `"status":"ready"`},
		{"/api/markers", "application/geo+json", `"FeatureCollection"`},
		{"/api/distribution", "application/json", `"TESLA"`},
		{"/api/distribution.svg", "image/svg+xml", `id="chargerDist"`},
		{"/api/tree.svg", "image/svg+xml", `id="modelTreeSVG"`},
		{"/api/tree/frame", "application/json", `"duration_ms":750`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.path)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d: %s", w.Code, w.Body)
			}
			if ct := w.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("body missing %s", tt.contains)
			}
		})
	}
}

func TestTreeRoutes(t *testing.T) {
	s, _ := newServer(t, false)

	if w := do(t, s, http.MethodPost, "/api/tree/reveal?model=ModelX"); w.Code != http.StatusOK {
		t.Errorf("reveal = %d: %s", w.Code, w.Body)
	}
	if w := do(t, s, http.MethodPost, "/api/tree/reveal?model=Nope"); w.Code != http.StatusNotFound {
		t.Errorf("reveal unknown = %d, want 404", w.Code)
	}
	if w := do(t, s, http.MethodPost, "/api/tree/reveal"); w.Code != http.StatusBadRequest {
		t.Errorf("reveal without model = %d, want 400", w.Code)
	}
	if w := do(t, s, http.MethodPost, "/api/tree/nodes/0/toggle"); w.Code != http.StatusOK {
		t.Errorf("toggle root = %d", w.Code)
	}
	if w := do(t, s, http.MethodPost, "/api/tree/nodes/abc/toggle"); w.Code != http.StatusBadRequest {
		t.Errorf("toggle abc = %d, want 400", w.Code)
	}
	if w := do(t, s, http.MethodPost, "/api/tree/nodes/99/toggle"); w.Code != http.StatusNotFound {
		t.Errorf("toggle 99 = %d, want 404", w.Code)
	}
}

func TestImages(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctl := newController(t, false)
	s := New(Config{ImageDir: dir, ImageBase: "/img"}, ctl, log.New(io.Discard))

	w := do(t, s, http.MethodGet, "/img/1.jpg")
	if w.Code != http.StatusOK || w.Body.String() != "jpeg" {
		t.Errorf("GET /img/1.jpg = %d %q", w.Code, w.Body)
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) dashboard.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev dashboard.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return ev
}

func TestWebSocketPushesEvents(t *testing.T) {
	s, _ := newServer(t, true)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	if ev := readEvent(t, conn); ev.Type != dashboard.EventState || ev.State.Status != dashboard.StatusReady {
		t.Fatalf("first event = %+v, want ready state", ev)
	}
	if ev := readEvent(t, conn); ev.Type != dashboard.EventFrame {
		t.Fatalf("second event = %s, want frame", ev.Type)
	}

	// the client joins the hub before its initial events are queued
	if n := s.hub.len(); n != 1 {
		t.Fatalf("hub clients = %d after initial events, want 1", n)
	}

	r, err := http.Post(srv.URL+"/api/filters/TESLA/toggle", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Body.Close()

	ev := readEvent(t, conn)
	if ev.Type != dashboard.EventState || ev.State.Visible != 1 {
		t.Errorf("pushed event = %+v, want state with 1 visible marker", ev)
	}

	r, err = http.Post(srv.URL+"/api/tree/nodes/0/toggle", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	r.Body.Close()
	if ev := readEvent(t, conn); ev.Type != dashboard.EventFrame || ev.Frame == nil {
		t.Errorf("pushed event = %+v, want frame", ev)
	}
}

func TestShutdownClosesClients(t *testing.T) {
	s, _ := newServer(t, true)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	readEvent(t, conn)
	readEvent(t, conn)

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection should be closed after Shutdown")
	}
}

type brokenWriter struct{ header http.Header }

func (w *brokenWriter) Header() http.Header { return w.header }
func (w *brokenWriter) WriteHeader(int)      {}
func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestWriteFailuresAreLogged(t *testing.T) {
	var logs bytes.Buffer
	s := New(Config{}, newController(t, true), log.New(&logs))
	w := &brokenWriter{header: make(http.Header)}

	s.writeJSON(w, http.StatusOK, map[string]int{"n": 1})
	s.writeBytes(w, "image/svg+xml", []byte("<svg/>"))

	if got := strings.Count(logs.String(), "write response"); got != 2 {
		t.Errorf("logged %d write failures, want 2:\n%s", got, logs.String())
	}
	if !strings.Contains(logs.String(), "connection reset") {
		t.Errorf("log should carry the cause:\n%s", logs.String())
	}
}
