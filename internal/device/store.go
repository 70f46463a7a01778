package device

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Store.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Event describes a device state change published to subscribers.
type Event struct {
	DeviceID  string
	OldStatus bool
	NewStatus bool
	OldValue  float64
	NewValue  float64

	// Device is a snapshot of the device after the change.
	Device *Device

	// Source identifies what caused the change: "local" for dashboard
	// operations, "refresh" for cloud snapshot merges, "scene" and
	// "automation" for rule engines.
	Source string
}

// Subscriber receives device state change events.
// Callbacks run on the mutating goroutine after the store lock is
// released; long-running work should be dispatched elsewhere.
type Subscriber func(Event)

// Filter narrows List results. Zero-value fields match everything.
type Filter struct {
	Location string
	Type     Type
}

// Store is the authoritative in-memory device collection.
//
// Devices are held as private canonical copies; every read returns a
// clone and every write replaces the stored copy, so callers never
// share mutable state with the store or with each other.
//
// All public methods are thread-safe. Subscriber callbacks fire after
// the lock is released so subscribers may call back into the store.
type Store struct {
	mu      sync.RWMutex
	devices map[string]*Device
	subs    []Subscriber
	logger  Logger
}

// NewStore creates an empty device store.
func NewStore() *Store {
	return &Store{
		devices: make(map[string]*Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Subscribe registers a callback for device state change events.
// Subscriptions cannot be removed; register for the process lifetime.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// publish delivers an event to all subscribers. Must be called without
// the store lock held.
func (s *Store) publish(ev Event) {
	s.mu.RLock()
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Add inserts a new device. Returns ErrDeviceExists when the ID is
// already present and a validation error when the device is malformed.
func (s *Store) Add(d *Device) error {
	if err := ValidateDevice(d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.devices[d.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDeviceExists, d.ID)
	}

	cpy := d.Clone()
	if cpy.LastUpdate.IsZero() {
		cpy.Touch()
	}
	s.devices[d.ID] = cpy

	s.logger.Debug("device added", "device_id", d.ID, "type", d.Type)
	return nil
}

// Get retrieves a device by ID.
// Returns ErrDeviceNotFound if the device does not exist.
// The returned device is a clone; callers can safely modify it.
func (s *Store) Get(id string) (*Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	return d.Clone(), nil
}

// List retrieves all devices matching the filter, sorted by name then
// ID for a stable presentation order. Devices are clones.
func (s *Store) List(f Filter) []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	devices := make([]Device, 0, len(s.devices))
	for _, d := range s.devices {
		if f.Location != "" && d.Location != f.Location {
			continue
		}
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		devices = append(devices, *d.Clone())
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Name != devices[j].Name {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].ID < devices[j].ID
	})

	return devices
}

// Locations returns the distinct device locations, sorted.
func (s *Store) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, d := range s.devices {
		if d.Location != "" {
			seen[d.Location] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for loc := range seen {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// Toggle flips a device's on/off status.
// Returns ErrDeviceNotFound if the device does not exist.
// Toggling twice restores the original status.
func (s *Store) Toggle(id, source string) (*Device, error) {
	return s.mutate(id, source, func(d *Device) {
		d.Status = !d.Status
	})
}

// SetStatus sets a device's on/off status.
func (s *Store) SetStatus(id string, status bool, source string) (*Device, error) {
	return s.mutate(id, source, func(d *Device) {
		d.Status = status
	})
}

// SetValue sets a device's numeric value.
func (s *Store) SetValue(id string, value float64, source string) (*Device, error) {
	return s.mutate(id, source, func(d *Device) {
		d.Value = value
	})
}

// SetState sets a device's status and, when value is non-nil, its
// numeric value in a single mutation with a single event.
func (s *Store) SetState(id string, status bool, value *float64, source string) (*Device, error) {
	return s.mutate(id, source, func(d *Device) {
		d.Status = status
		if value != nil {
			d.Value = *value
		}
	})
}

// ApplySettings overlays a settings patch onto a device.
//
// A patch carrying fields of a different device type fails with
// ErrTypeMismatch and the device is untouched. Out-of-range values
// fail with ErrInvalidSettings.
func (s *Store) ApplySettings(id string, p SettingsPatch, source string) (*Device, error) {
	s.mu.Lock()

	d, ok := s.devices[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	settings := d.Settings
	if settings == nil {
		var err error
		settings, err = NewSettings(d.Type)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}

	patched, err := ApplyPatch(settings, p)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	next := d.Clone()
	next.Settings = patched
	next.Touch()
	s.devices[id] = next

	ev := Event{
		DeviceID:  id,
		OldStatus: d.Status,
		NewStatus: next.Status,
		OldValue:  d.Value,
		NewValue:  next.Value,
		Device:    next.Clone(),
		Source:    source,
	}
	s.mu.Unlock()

	s.publish(ev)
	return ev.Device.Clone(), nil
}

// mutate applies fn to a clone of the device, stamps LastUpdate,
// swaps in the result and publishes a change event.
func (s *Store) mutate(id, source string, fn func(*Device)) (*Device, error) {
	s.mu.Lock()

	d, ok := s.devices[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}

	next := d.Clone()
	fn(next)
	next.Touch()
	s.devices[id] = next

	ev := Event{
		DeviceID:  id,
		OldStatus: d.Status,
		NewStatus: next.Status,
		OldValue:  d.Value,
		NewValue:  next.Value,
		Device:    next.Clone(),
		Source:    source,
	}
	s.mu.Unlock()

	s.publish(ev)
	return ev.Device.Clone(), nil
}

// Refresh merges a cloud snapshot into the store.
//
// The merge is per device, last writer wins: a device whose local
// LastUpdate is after fetchedAt was edited while the fetch was in
// flight and keeps its local state; everything else takes the remote
// record. Devices absent from the snapshot are removed (the cloud is
// authoritative for membership once polling is active).
//
// fetchedAt must be the time the fetch STARTED, not when it completed,
// or slow fetches would overwrite edits made while they ran.
func (s *Store) Refresh(remote []Device, fetchedAt time.Time) {
	var events []Event

	s.mu.Lock()

	next := make(map[string]*Device, len(remote))
	kept, replaced := 0, 0

	for i := range remote {
		r := &remote[i]
		local, ok := s.devices[r.ID]

		if ok && local.LastUpdate.After(fetchedAt) {
			// Edited while the fetch was in flight; local wins.
			next[r.ID] = local
			kept++
			continue
		}

		cpy := r.Clone()
		next[r.ID] = cpy
		replaced++

		if ok && (local.Status != cpy.Status || local.Value != cpy.Value) {
			events = append(events, Event{
				DeviceID:  r.ID,
				OldStatus: local.Status,
				NewStatus: cpy.Status,
				OldValue:  local.Value,
				NewValue:  cpy.Value,
				Device:    cpy.Clone(),
				Source:    "refresh",
			})
		}
	}

	dropped := 0
	for id := range s.devices {
		if _, ok := next[id]; !ok {
			dropped++
		}
	}

	s.devices = next
	s.mu.Unlock()

	s.logger.Debug("store refreshed",
		"remote", len(remote), "replaced", replaced, "kept_local", kept, "dropped", dropped)

	for _, ev := range events {
		s.publish(ev)
	}
}

// Count returns the number of devices in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}
