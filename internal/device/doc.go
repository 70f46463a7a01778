// Package device defines the typed device model and the authoritative
// in-memory device store for HomeHub Core.
//
// # Device Model
//
// A Device pairs common state (status, value, location, online) with a
// type-specific Settings variant. Settings form a closed tagged union
// keyed by the device type:
//
//	LIGHT        -> LightSettings        (brightness, color)
//	TEMPERATURE  -> TemperatureSettings  (temperature, mode)
//	FAN          -> FanSettings          (speed)
//	MOTION       -> MotionSettings       (sensitivity, recording_enabled)
//	HUMIDITY     -> HumiditySettings     (target_humidity)
//
// NewSettings supplies per-type defaults; ApplyPatch overlays partial
// updates and rejects fields belonging to a different variant with
// ErrTypeMismatch, leaving the target untouched.
//
// # Store
//
// The Store holds canonical device copies behind a mutex. Reads return
// clones and writes swap in new clones, so snapshots never alias
// mutable state. State changes are published as Events to subscribers
// (WebSocket hub, automation engine, history recorder, telemetry).
//
// Refresh merges a cloud snapshot with per-device last-writer-wins:
// devices edited locally after the fetch started keep their local
// state. See Store.Refresh.
//
// # History
//
// History keeps a bounded ring buffer of recent values per device for
// the dashboard's sensor charts. It is in-memory only.
package device
