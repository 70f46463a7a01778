package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"homehub-core/internal/blynk"
	"homehub-core/internal/device"
)

// cloudPushTimeout bounds the best-effort settings write-through to the
// cloud after a local settings change.
const cloudPushTimeout = 10 * time.Second

// handleListDevices returns all devices, with optional query filters.
//
// Query parameters:
//   - location: filter by location name (exact match)
//   - type: filter by device type (case-insensitive)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	f := device.Filter{
		Location: r.URL.Query().Get("location"),
	}
	if t := r.URL.Query().Get("type"); t != "" {
		typ := device.Type(strings.ToUpper(t))
		if err := device.ValidateType(typ); err != nil {
			writeDomainError(w, err)
			return
		}
		f.Type = typ
	}

	devices := s.store.List(f)
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleListLocations returns the distinct device locations.
func (s *Server) handleListLocations(w http.ResponseWriter, _ *http.Request) {
	locations := s.store.Locations()
	writeJSON(w, http.StatusOK, map[string]any{"locations": locations, "count": len(locations)})
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	dev, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleToggleDevice flips a device's on/off status and returns the
// updated device.
func (s *Server) handleToggleDevice(w http.ResponseWriter, r *http.Request) {
	dev, err := s.store.Toggle(chi.URLParam(r, "id"), "local")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleUpdateSettings overlays a settings patch onto a device.
//
// A patch carrying fields of a different device type is rejected with
// 400 and the device is untouched. Applying the same patch twice is a
// no-op the second time. Accepted patches are forwarded to the cloud
// in the background; cloud failures never fail the local update.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch device.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	dev, err := s.store.ApplySettings(id, patch, "local")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if s.cloud != nil && !patch.IsZero() {
		go s.pushSettingsToCloud(id, patch)
	}

	writeJSON(w, http.StatusOK, dev)
}

// pushSettingsToCloud forwards a settings patch to the cloud platform.
// Runs on its own goroutine; failures are logged and surface on the
// next poll as a degraded sync status if the cloud stays unreachable.
func (s *Server) pushSettingsToCloud(id string, patch device.SettingsPatch) {
	ctx, cancel := context.WithTimeout(context.Background(), cloudPushTimeout)
	defer cancel()

	if err := s.cloud.PushSettings(ctx, id, blynk.PatchToCloud(patch)); err != nil {
		s.logger.Warn("settings push to cloud failed", "device_id", id, "error", err)
	}
}

// handleDeviceHistory returns a device's recent data points.
//
// Query parameters:
//   - from: RFC3339 timestamp, inclusive lower bound (optional)
//   - to: RFC3339 timestamp, inclusive upper bound (optional)
func (s *Server) handleDeviceHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// The device must exist; an empty buffer is a valid answer for a
	// device that has not changed yet.
	if _, err := s.store.Get(id); err != nil {
		writeDomainError(w, err)
		return
	}

	from, err := parseTimeParam(r.URL.Query().Get("from"))
	if err != nil {
		writeBadRequest(w, "invalid from timestamp, want RFC3339")
		return
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"))
	if err != nil {
		writeBadRequest(w, "invalid to timestamp, want RFC3339")
		return
	}

	points, err := s.history.Query(id, from, to)
	if err != nil && !errors.Is(err, device.ErrDeviceNotFound) {
		writeInternalError(w, "failed to query history")
		return
	}
	if points == nil {
		points = []device.DataPoint{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": id,
		"points":    points,
		"count":     len(points),
	})
}

// parseTimeParam parses an optional RFC3339 query parameter. Empty
// input returns the zero time, which leaves the window open.
func parseTimeParam(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, v)
}
