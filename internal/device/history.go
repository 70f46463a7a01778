package device

import (
	"fmt"
	"sync"
	"time"
)

// PointKind classifies a history data point.
type PointKind string

// PointKind constants.
const (
	PointReading PointKind = "reading"
	PointEvent   PointKind = "event"
	PointAlert   PointKind = "alert"
)

// DataPoint is a single entry in a device's history.
type DataPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Kind      PointKind `json:"kind"`
}

// History records recent device values in bounded per-device ring
// buffers for the dashboard's sensor charts. Everything lives in
// memory; history is lost on restart.
//
// All public methods are thread-safe.
type History struct {
	mu       sync.RWMutex
	capacity int
	points   map[string][]DataPoint
}

// NewHistory creates a recorder keeping up to capacity points per device.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		capacity: capacity,
		points:   make(map[string][]DataPoint),
	}
}

// Attach subscribes the recorder to a store so every state change
// lands in the buffer as a reading.
func (h *History) Attach(store *Store) {
	store.Subscribe(func(ev Event) {
		h.Record(ev.DeviceID, DataPoint{
			Timestamp: time.Now().UTC(),
			Value:     ev.NewValue,
			Kind:      PointReading,
		})
	})
}

// Record appends a data point to a device's buffer, evicting the
// oldest point when the buffer is full.
func (h *History) Record(deviceID string, p DataPoint) {
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	if p.Kind == "" {
		p.Kind = PointReading
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	buf := append(h.points[deviceID], p)
	if len(buf) > h.capacity {
		buf = buf[len(buf)-h.capacity:]
	}
	h.points[deviceID] = buf
}

// Query returns a device's points within [from, to], oldest first.
// A zero from or to leaves that end of the window open.
// Returns ErrDeviceNotFound when no points exist for the device.
func (h *History) Query(deviceID string, from, to time.Time) ([]DataPoint, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.points[deviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	out := make([]DataPoint, 0, len(buf))
	for _, p := range buf {
		if !from.IsZero() && p.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && p.Timestamp.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Len returns the number of points buffered for a device.
func (h *History) Len(deviceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.points[deviceID])
}
