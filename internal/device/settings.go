package device

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Default settings values applied by NewSettings.
const (
	defaultBrightness     = 100
	defaultColor          = "#ffffff"
	defaultTemperature    = 22.0
	defaultFanSpeed       = 0
	defaultSensitivity    = 50
	defaultTargetHumidity = 45
)

// Settings range limits.
const (
	minBrightness  = 0
	maxBrightness  = 100
	minTemperature = 16.0
	maxTemperature = 30.0
	minFanSpeed    = 0
	maxFanSpeed    = 100
	minSensitivity = 0
	maxSensitivity = 100
	minHumidity    = 0
	maxHumidity    = 100
)

// Settings is the closed set of type-specific device configurations.
// The concrete variant is keyed by the device type: a LIGHT device
// always carries *LightSettings, and so on. There is no variant for
// types this package does not know about.
type Settings interface {
	// Kind returns the device type this variant belongs to.
	Kind() Type

	clone() Settings
	validate() error
}

// BaseSettings holds optional fields shared by every variant.
type BaseSettings struct {
	MinValue *float64 `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Unit     string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	AutoMode *bool    `json:"auto_mode,omitempty" yaml:"auto_mode,omitempty"`
}

func (b BaseSettings) cloneBase() BaseSettings {
	cpy := b
	if b.MinValue != nil {
		v := *b.MinValue
		cpy.MinValue = &v
	}
	if b.MaxValue != nil {
		v := *b.MaxValue
		cpy.MaxValue = &v
	}
	if b.AutoMode != nil {
		v := *b.AutoMode
		cpy.AutoMode = &v
	}
	return cpy
}

// LightSettings configures a LIGHT device.
type LightSettings struct {
	BaseSettings `yaml:",inline"`

	Brightness int    `json:"brightness" yaml:"brightness"`
	Color      string `json:"color" yaml:"color"`
}

// Kind returns TypeLight.
func (s *LightSettings) Kind() Type { return TypeLight }

func (s *LightSettings) clone() Settings {
	cpy := *s
	cpy.BaseSettings = s.BaseSettings.cloneBase()
	return &cpy
}

func (s *LightSettings) validate() error {
	if s.Brightness < minBrightness || s.Brightness > maxBrightness {
		return fmt.Errorf("%w: brightness %d out of range [%d, %d]",
			ErrInvalidSettings, s.Brightness, minBrightness, maxBrightness)
	}
	if !isHexColor(s.Color) {
		return fmt.Errorf("%w: color %q is not a hex colour", ErrInvalidSettings, s.Color)
	}
	return nil
}

// TemperatureSettings configures a TEMPERATURE device (thermostat).
type TemperatureSettings struct {
	BaseSettings `yaml:",inline"`

	Temperature float64 `json:"temperature" yaml:"temperature"`
	Mode        Mode    `json:"mode" yaml:"mode"`
}

// Kind returns TypeTemperature.
func (s *TemperatureSettings) Kind() Type { return TypeTemperature }

func (s *TemperatureSettings) clone() Settings {
	cpy := *s
	cpy.BaseSettings = s.BaseSettings.cloneBase()
	return &cpy
}

func (s *TemperatureSettings) validate() error {
	if s.Temperature < minTemperature || s.Temperature > maxTemperature {
		return fmt.Errorf("%w: temperature %.1f out of range [%.1f, %.1f]",
			ErrInvalidSettings, s.Temperature, minTemperature, maxTemperature)
	}
	if err := ValidateMode(s.Mode); err != nil {
		return err
	}
	return nil
}

// FanSettings configures a FAN device.
type FanSettings struct {
	BaseSettings `yaml:",inline"`

	Speed int `json:"speed" yaml:"speed"`
}

// Kind returns TypeFan.
func (s *FanSettings) Kind() Type { return TypeFan }

func (s *FanSettings) clone() Settings {
	cpy := *s
	cpy.BaseSettings = s.BaseSettings.cloneBase()
	return &cpy
}

func (s *FanSettings) validate() error {
	if s.Speed < minFanSpeed || s.Speed > maxFanSpeed {
		return fmt.Errorf("%w: speed %d out of range [%d, %d]",
			ErrInvalidSettings, s.Speed, minFanSpeed, maxFanSpeed)
	}
	return nil
}

// MotionSettings configures a MOTION sensor.
type MotionSettings struct {
	BaseSettings `yaml:",inline"`

	Sensitivity      int  `json:"sensitivity" yaml:"sensitivity"`
	RecordingEnabled bool `json:"recording_enabled" yaml:"recording_enabled"`
}

// Kind returns TypeMotion.
func (s *MotionSettings) Kind() Type { return TypeMotion }

func (s *MotionSettings) clone() Settings {
	cpy := *s
	cpy.BaseSettings = s.BaseSettings.cloneBase()
	return &cpy
}

func (s *MotionSettings) validate() error {
	if s.Sensitivity < minSensitivity || s.Sensitivity > maxSensitivity {
		return fmt.Errorf("%w: sensitivity %d out of range [%d, %d]",
			ErrInvalidSettings, s.Sensitivity, minSensitivity, maxSensitivity)
	}
	return nil
}

// HumiditySettings configures a HUMIDITY sensor.
type HumiditySettings struct {
	BaseSettings `yaml:",inline"`

	TargetHumidity int `json:"target_humidity" yaml:"target_humidity"`
}

// Kind returns TypeHumidity.
func (s *HumiditySettings) Kind() Type { return TypeHumidity }

func (s *HumiditySettings) clone() Settings {
	cpy := *s
	cpy.BaseSettings = s.BaseSettings.cloneBase()
	return &cpy
}

func (s *HumiditySettings) validate() error {
	if s.TargetHumidity < minHumidity || s.TargetHumidity > maxHumidity {
		return fmt.Errorf("%w: target_humidity %d out of range [%d, %d]",
			ErrInvalidSettings, s.TargetHumidity, minHumidity, maxHumidity)
	}
	return nil
}

// NewSettings returns the default settings variant for a device type.
// Returns ErrInvalidDeviceType for an unknown type tag.
func NewSettings(t Type) (Settings, error) {
	switch t {
	case TypeLight:
		return &LightSettings{
			Brightness: defaultBrightness,
			Color:      defaultColor,
		}, nil
	case TypeTemperature:
		return &TemperatureSettings{
			Temperature: defaultTemperature,
			Mode:        ModeAuto,
		}, nil
	case TypeFan:
		return &FanSettings{
			Speed: defaultFanSpeed,
		}, nil
	case TypeMotion:
		return &MotionSettings{
			Sensitivity: defaultSensitivity,
		}, nil
	case TypeHumidity:
		return &HumiditySettings{
			TargetHumidity: defaultTargetHumidity,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceType, t)
}

// DecodeSettings unmarshals raw JSON into the settings variant for the
// given device type. Fields absent from the JSON keep their per-type
// defaults. Returns ErrInvalidDeviceType for an unknown type tag and
// ErrInvalidSettings when a decoded value is out of range.
func DecodeSettings(t Type, raw []byte) (Settings, error) {
	s, err := NewSettings(t)
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
		}
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// SettingsFromMap builds a settings variant from a generic key-value
// map, as produced by the YAML seed loader and the Blynk mapper.
// The map goes through the same decode path as JSON input.
func SettingsFromMap(t Type, values map[string]any) (Settings, error) {
	if values == nil {
		return NewSettings(t)
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return DecodeSettings(t, raw)
}

// SettingsPatch is a partial settings update. Only non-nil fields are
// applied. Each type-specific field belongs to exactly one variant;
// the shared base fields may target any variant.
type SettingsPatch struct {
	// LIGHT
	Brightness *int    `json:"brightness,omitempty"`
	Color      *string `json:"color,omitempty"`

	// TEMPERATURE
	Temperature *float64 `json:"temperature,omitempty"`
	Mode        *Mode    `json:"mode,omitempty"`

	// FAN
	Speed *int `json:"speed,omitempty"`

	// MOTION
	Sensitivity      *int  `json:"sensitivity,omitempty"`
	RecordingEnabled *bool `json:"recording_enabled,omitempty"`

	// HUMIDITY
	TargetHumidity *int `json:"target_humidity,omitempty"`

	// Shared
	MinValue *float64 `json:"min_value,omitempty"`
	MaxValue *float64 `json:"max_value,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	AutoMode *bool    `json:"auto_mode,omitempty"`
}

// IsZero reports whether the patch sets no fields at all.
func (p SettingsPatch) IsZero() bool {
	return p == SettingsPatch{}
}

// foreignFields returns the names of set fields that do not belong to
// the given variant. Shared base fields are never foreign.
func (p SettingsPatch) foreignFields(kind Type) []string {
	var foreign []string
	check := func(owner Type, set bool, name string) {
		if set && owner != kind {
			foreign = append(foreign, name)
		}
	}

	check(TypeLight, p.Brightness != nil, "brightness")
	check(TypeLight, p.Color != nil, "color")
	check(TypeTemperature, p.Temperature != nil, "temperature")
	check(TypeTemperature, p.Mode != nil, "mode")
	check(TypeFan, p.Speed != nil, "speed")
	check(TypeMotion, p.Sensitivity != nil, "sensitivity")
	check(TypeMotion, p.RecordingEnabled != nil, "recording_enabled")
	check(TypeHumidity, p.TargetHumidity != nil, "target_humidity")

	return foreign
}

// ApplyPatch overlays a partial update onto existing settings and
// returns the result as a new variant. The input is never mutated.
//
// If the patch carries any field belonging to a different variant the
// whole patch is rejected with ErrTypeMismatch and nothing is applied.
// Out-of-range values are rejected with ErrInvalidSettings. Applying
// the same patch twice yields the same result as applying it once.
func ApplyPatch(s Settings, p SettingsPatch) (Settings, error) {
	if s == nil {
		return nil, ErrInvalidSettings
	}

	if foreign := p.foreignFields(s.Kind()); len(foreign) > 0 {
		return nil, fmt.Errorf("%w: field %s does not apply to %s settings",
			ErrTypeMismatch, strings.Join(foreign, ", "), s.Kind())
	}

	out := s.clone()
	applyBase(basePtr(out), p)

	switch v := out.(type) {
	case *LightSettings:
		if p.Brightness != nil {
			v.Brightness = *p.Brightness
		}
		if p.Color != nil {
			v.Color = *p.Color
		}
	case *TemperatureSettings:
		if p.Temperature != nil {
			v.Temperature = *p.Temperature
		}
		if p.Mode != nil {
			v.Mode = *p.Mode
		}
	case *FanSettings:
		if p.Speed != nil {
			v.Speed = *p.Speed
		}
	case *MotionSettings:
		if p.Sensitivity != nil {
			v.Sensitivity = *p.Sensitivity
		}
		if p.RecordingEnabled != nil {
			v.RecordingEnabled = *p.RecordingEnabled
		}
	case *HumiditySettings:
		if p.TargetHumidity != nil {
			v.TargetHumidity = *p.TargetHumidity
		}
	}

	if err := out.validate(); err != nil {
		return nil, err
	}

	return out, nil
}

// basePtr returns the embedded BaseSettings of any variant.
func basePtr(s Settings) *BaseSettings {
	switch v := s.(type) {
	case *LightSettings:
		return &v.BaseSettings
	case *TemperatureSettings:
		return &v.BaseSettings
	case *FanSettings:
		return &v.BaseSettings
	case *MotionSettings:
		return &v.BaseSettings
	case *HumiditySettings:
		return &v.BaseSettings
	}
	return nil
}

func applyBase(b *BaseSettings, p SettingsPatch) {
	if b == nil {
		return
	}
	if p.MinValue != nil {
		v := *p.MinValue
		b.MinValue = &v
	}
	if p.MaxValue != nil {
		v := *p.MaxValue
		b.MaxValue = &v
	}
	if p.Unit != nil {
		b.Unit = *p.Unit
	}
	if p.AutoMode != nil {
		v := *p.AutoMode
		b.AutoMode = &v
	}
}

// isHexColor reports whether s is a #RRGGBB hex colour.
func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// UnmarshalJSON decodes a device, routing the settings payload through
// the variant matching the device type.
func (d *Device) UnmarshalJSON(data []byte) error {
	type alias Device
	aux := struct {
		*alias
		Settings json.RawMessage `json:"settings"`
	}{
		alias: (*alias)(d),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.Settings) == 0 || string(aux.Settings) == "null" {
		d.Settings = nil
		return nil
	}

	s, err := DecodeSettings(d.Type, aux.Settings)
	if err != nil {
		return err
	}
	d.Settings = s

	return nil
}
