package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when adding a device with an ID that already exists.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidDeviceType is returned when a device type tag is not recognised.
	ErrInvalidDeviceType = errors.New("device: invalid type")

	// ErrInvalidMode is returned when a thermostat mode is not recognised.
	ErrInvalidMode = errors.New("device: invalid mode")

	// ErrInvalidName is returned when a device name is empty or too long.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidSettings is returned when a settings value is out of range.
	ErrInvalidSettings = errors.New("device: invalid settings")

	// ErrTypeMismatch is returned when a settings patch carries a field
	// belonging to a different device type. The target settings are left
	// unchanged.
	ErrTypeMismatch = errors.New("device: settings type mismatch")
)
