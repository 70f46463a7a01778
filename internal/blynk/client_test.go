package blynk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homehub-core/internal/device"
)

const deviceListJSON = `[
	{
		"id": "light-1",
		"name": "Living Room Light",
		"type": "light",
		"status": true,
		"value": 80,
		"location": "Living Room",
		"pin": 1,
		"online": true,
		"lastActivity": 1767225600000,
		"settings": {"brightness": 80, "color": "#ffcc00"}
	},
	{
		"id": "motion-1",
		"name": "Hallway Motion",
		"type": "MOTION",
		"status": false,
		"value": 0,
		"location": "Hallway",
		"pin": 5,
		"online": true,
		"settings": {"sensitivity": 70, "recordingEnabled": true}
	}
]`

func TestClient_FetchDevices(t *testing.T) {
	var gotPath, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(deviceListJSON)); err != nil {
			t.Errorf("writing response: %v", err)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 5*time.Second)
	devices, err := c.FetchDevices(context.Background())
	if err != nil {
		t.Fatalf("FetchDevices() error = %v", err)
	}

	if gotPath != "/external/api/devices" {
		t.Errorf("path = %q, want /external/api/devices", gotPath)
	}
	if gotToken != "secret" {
		t.Errorf("token = %q, want secret", gotToken)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].ID != "light-1" || devices[0].Value != 80 {
		t.Errorf("first device = %+v", devices[0])
	}
}

func TestClient_FetchDevices_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 5*time.Second)
	_, err := c.FetchDevices(context.Background())
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
}

func TestClient_FetchDevices_NoToken(t *testing.T) {
	c := NewClient("http://localhost", "", time.Second)
	_, err := c.FetchDevices(context.Background())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestClient_PushSettings(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 5*time.Second)
	err := c.PushSettings(context.Background(), "light-1", map[string]any{"brightness": 50})
	if err != nil {
		t.Fatalf("PushSettings() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/external/api/devices/light-1/settings" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestClient_PushSettings_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret", 5*time.Second)
	err := c.PushSettings(context.Background(), "light-1", map[string]any{})
	if !errors.Is(err, ErrPushFailed) {
		t.Errorf("expected ErrPushFailed, got %v", err)
	}
}

func TestMapDevice(t *testing.T) {
	raw := RawDevice{
		ID:           "motion-1",
		Name:         "Hallway Motion",
		Type:         "motion",
		Status:       true,
		Value:        1,
		Location:     "Hallway",
		Pin:          5,
		Online:       true,
		LastActivity: 1767225600000,
		Settings:     map[string]any{"sensitivity": 70, "recordingEnabled": true},
	}

	d, err := MapDevice(raw)
	if err != nil {
		t.Fatalf("MapDevice() error = %v", err)
	}

	if d.Type != device.TypeMotion {
		t.Errorf("Type = %q, want MOTION", d.Type)
	}

	ms, ok := d.Settings.(*device.MotionSettings)
	if !ok {
		t.Fatalf("Settings = %T, want *MotionSettings", d.Settings)
	}
	if ms.Sensitivity != 70 {
		t.Errorf("Sensitivity = %d, want 70", ms.Sensitivity)
	}
	if !ms.RecordingEnabled {
		t.Error("RecordingEnabled not mapped from camelCase key")
	}

	want := time.UnixMilli(1767225600000).UTC()
	if !d.LastUpdate.Equal(want) {
		t.Errorf("LastUpdate = %v, want %v", d.LastUpdate, want)
	}
}

func TestMapDevice_UnknownType(t *testing.T) {
	_, err := MapDevice(RawDevice{ID: "x", Type: "toaster"})
	if !errors.Is(err, device.ErrInvalidDeviceType) {
		t.Errorf("expected ErrInvalidDeviceType, got %v", err)
	}
}

func TestMapDevices_SkipsBadRecords(t *testing.T) {
	raw := []RawDevice{
		{ID: "good", Name: "Light", Type: "LIGHT"},
		{ID: "bad", Name: "Mystery", Type: "mystery"},
	}

	devices, errs := MapDevices(raw)
	if len(devices) != 1 || devices[0].ID != "good" {
		t.Errorf("devices = %v, want [good]", devices)
	}
	if len(errs) != 1 {
		t.Errorf("got %d errors, want 1", len(errs))
	}
}

func TestPatchToCloud(t *testing.T) {
	brightness := 30
	recording := true
	p := device.SettingsPatch{
		Brightness:       &brightness,
		RecordingEnabled: &recording,
	}

	out := PatchToCloud(p)
	if out["brightness"] != 30 {
		t.Errorf("brightness = %v, want 30", out["brightness"])
	}
	if out["recordingEnabled"] != true {
		t.Error("recordingEnabled missing or wrong")
	}
	if _, ok := out["color"]; ok {
		t.Error("unset field leaked into cloud payload")
	}
}
