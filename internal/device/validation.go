package device

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength     = 100
	maxLocationLength = 100
)

// Pre-computed validation sets for O(1) lookups instead of O(n) linear search.
var (
	validTypes map[Type]struct{}
	validModes map[Mode]struct{}
)

func init() {
	// Build validation sets once at startup
	validTypes = make(map[Type]struct{}, len(AllTypes()))
	for _, t := range AllTypes() {
		validTypes[t] = struct{}{}
	}

	validModes = make(map[Mode]struct{}, len(AllModes()))
	for _, m := range AllModes() {
		validModes[m] = struct{}{}
	}
}

// ValidateDevice performs comprehensive validation on a device.
// Returns an error describing the first validation failure found.
func ValidateDevice(d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}

	if err := ValidateName(d.Name); err != nil {
		return err
	}

	if err := ValidateType(d.Type); err != nil {
		return err
	}

	if len(d.Location) > maxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalidDevice, maxLocationLength)
	}

	if d.Settings != nil {
		if d.Settings.Kind() != d.Type {
			return fmt.Errorf("%w: %s settings on %s device",
				ErrTypeMismatch, d.Settings.Kind(), d.Type)
		}
		if err := d.Settings.validate(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateName checks if a device name is valid.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateType checks if a device type is valid.
// Uses O(1) map lookup for efficiency.
func ValidateType(t Type) error {
	if _, ok := validTypes[t]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidDeviceType, t)
}

// ValidateMode checks if a thermostat mode is valid.
// Uses O(1) map lookup for efficiency.
func ValidateMode(m Mode) error {
	if _, ok := validModes[m]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMode, m)
}

// GenerateID creates a new UUID for a device.
func GenerateID() string {
	return uuid.New().String()
}
