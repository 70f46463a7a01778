package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homehub-core/internal/automation"
	"homehub-core/internal/device"
	"homehub-core/internal/infrastructure/config"
	"homehub-core/internal/infrastructure/logging"
	"homehub-core/internal/notify"
	"homehub-core/internal/scene"
)

// newTestServer builds a server over fresh in-memory state with two
// devices, one scene and no cloud connection.
func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	store := device.NewStore()
	seedDevices := []device.Device{
		{ID: "light-1", Name: "Living Room Light", Type: device.TypeLight, Status: true, Value: 80, Location: "Living Room", Pin: 1, Online: true},
		{ID: "temp-1", Name: "Thermostat", Type: device.TypeTemperature, Value: 21.5, Location: "Living Room", Pin: 2, Online: true},
	}
	for i := range seedDevices {
		d := seedDevices[i]
		var err error
		d.Settings, err = device.NewSettings(d.Type)
		if err != nil {
			t.Fatalf("building settings: %v", err)
		}
		if err := store.Add(&d); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}

	history := device.NewHistory(16)
	history.Attach(store)

	scenes := scene.NewRegistry()
	if _, err := scenes.Create(&scene.Scene{
		ID:   "movie-night",
		Name: "Movie Night",
		Targets: []scene.Target{
			{DeviceID: "light-1", Status: true, Value: float64Ptr(20)},
		},
	}); err != nil {
		t.Fatalf("seeding scenes: %v", err)
	}

	srv, err := New(Deps{
		Config:        config.APIConfig{},
		WS:            config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		Logger:        logging.Default(),
		Store:         store,
		History:       history,
		SceneRegistry: scenes,
		SceneEngine:   scene.NewEngine(scenes, store, nil),
		Automations:   automation.NewRegistry(),
		Notifications: notify.NewCenter(16, nil),
		Version:       "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return srv, srv.buildRouter()
}

func float64Ptr(v float64) *float64 { return &v }

// doRequest executes a request against the router and decodes the JSON
// response body into out when out is non-nil.
func doRequest(t *testing.T, h http.Handler, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

func TestHandleHealth(t *testing.T) {
	_, router := newTestServer(t)

	var body map[string]any
	rec := doRequest(t, router, http.MethodGet, "/api/v1/health", "", &body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
	if body["devices"] != float64(2) {
		t.Errorf("devices = %v, want 2", body["devices"])
	}
	if _, ok := body["sync"]; ok {
		t.Error("sync status present without a poller")
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "my-id")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "my-id" {
		t.Errorf("X-Request-ID = %q, want client-provided my-id", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/devices/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
