package device

import "time"

// Device represents a controllable or monitorable entity on the dashboard.
// It is the typed form of a raw Blynk device record.
type Device struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Classification
	Type Type `json:"type"`

	// Current state
	Status bool    `json:"status"`
	Value  float64 `json:"value"`

	// Placement
	Location string `json:"location"`

	// Cloud linkage
	Pin    int  `json:"pin"`
	Online bool `json:"online"`

	// LastUpdate is stamped on every local mutation and drives the
	// refresh merge: a device edited after a cloud fetch started keeps
	// its local state when that fetch lands.
	LastUpdate time.Time `json:"last_update"`

	// Settings is the type-specific configuration. Its concrete variant
	// always matches Type.
	Settings Settings `json:"settings,omitempty"`
}

// Clone creates a complete independent copy of the Device.
// The settings variant is cloned so modifications to the copy do not
// affect the original. This is essential for snapshot isolation.
func (d *Device) Clone() *Device {
	if d == nil {
		return nil
	}

	cpy := *d // Shallow copy of value fields

	if d.Settings != nil {
		cpy.Settings = d.Settings.clone()
	}

	return &cpy
}

// Touch stamps LastUpdate with the current UTC time.
// Every local mutation path calls this before publishing the change.
func (d *Device) Touch() {
	d.LastUpdate = time.Now().UTC()
}

// Type represents the kind of device.
type Type string

// Type constants. Values match the uppercase tags used by the Blynk
// device records and the seed file.
const (
	TypeLight       Type = "LIGHT"
	TypeFan         Type = "FAN"
	TypeTemperature Type = "TEMPERATURE"
	TypeHumidity    Type = "HUMIDITY"
	TypeMotion      Type = "MOTION"
)

// AllTypes returns all valid device type values.
func AllTypes() []Type {
	return []Type{
		TypeLight, TypeFan, TypeTemperature, TypeHumidity, TypeMotion,
	}
}

// Mode represents a thermostat operating mode.
type Mode string

// Mode constants.
const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
	ModeEco    Mode = "eco"
	ModeBoost  Mode = "boost"
	ModeAway   Mode = "away"
	ModeSleep  Mode = "sleep"
)

// AllModes returns all valid thermostat mode values.
func AllModes() []Mode {
	return []Mode{
		ModeAuto, ModeManual, ModeEco, ModeBoost, ModeAway, ModeSleep,
	}
}
