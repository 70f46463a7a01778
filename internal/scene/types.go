package scene

import (
	"time"

	"homehub-core/internal/device"
)

// Scene represents a predefined collection of device states that can
// be activated together.
type Scene struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// UI metadata (optional)
	Icon string `json:"icon,omitempty"`

	// Targets to apply (ordered). Serialised as "devices" to match the
	// dashboard contract.
	Targets []Target `json:"devices"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Target defines the state a scene imposes on a single device.
// Status is always applied; Value only when set.
type Target struct {
	DeviceID string   `json:"device_id" yaml:"device_id"`
	Status   bool     `json:"status" yaml:"status"`
	Value    *float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// DeepCopy creates a complete independent copy of the Scene.
func (s *Scene) DeepCopy() *Scene {
	if s == nil {
		return nil
	}

	cpy := *s // Shallow copy of value fields

	if s.Targets != nil {
		cpy.Targets = make([]Target, len(s.Targets))
		for i, tgt := range s.Targets {
			cpy.Targets[i] = tgt
			if tgt.Value != nil {
				v := *tgt.Value
				cpy.Targets[i].Value = &v
			}
		}
	}

	return &cpy
}

// Apply returns the device list with the scene's targets imposed.
//
// The transform is pure: inputs are never mutated, untargeted devices
// are returned as-is, and targeted devices come back as modified
// clones with LastUpdate stamped to now. Target IDs with no matching
// device are ignored.
func Apply(devices []device.Device, s *Scene, now time.Time) []device.Device {
	if s == nil || len(s.Targets) == 0 {
		return devices
	}

	targets := make(map[string]Target, len(s.Targets))
	for _, tgt := range s.Targets {
		targets[tgt.DeviceID] = tgt
	}

	out := make([]device.Device, len(devices))
	for i := range devices {
		tgt, ok := targets[devices[i].ID]
		if !ok {
			out[i] = devices[i]
			continue
		}

		cpy := *devices[i].Clone()
		cpy.Status = tgt.Status
		if tgt.Value != nil {
			cpy.Value = *tgt.Value
		}
		cpy.LastUpdate = now
		out[i] = cpy
	}

	return out
}
