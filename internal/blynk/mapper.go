package blynk

import (
	"fmt"
	"strings"
	"time"

	"homehub-core/internal/device"
)

// settingsKeyMap translates the cloud's camelCase settings keys to the
// internal snake_case form. Keys already snake_case pass through.
var settingsKeyMap = map[string]string{
	"recordingEnabled": "recording_enabled",
	"targetHumidity":   "target_humidity",
	"minValue":         "min_value",
	"maxValue":         "max_value",
	"autoMode":         "auto_mode",
}

// MapDevice converts a raw cloud record into the typed internal model.
//
// The type tag is normalised to upper case and routed through the
// settings constructor, so an unknown type or an out-of-range settings
// value surfaces as an error rather than a half-built device.
func MapDevice(raw RawDevice) (*device.Device, error) {
	typ := device.Type(strings.ToUpper(strings.TrimSpace(raw.Type)))
	if err := device.ValidateType(typ); err != nil {
		return nil, fmt.Errorf("device %s: %w", raw.ID, err)
	}

	settings, err := device.SettingsFromMap(typ, normaliseSettings(raw.Settings))
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", raw.ID, err)
	}

	d := &device.Device{
		ID:       raw.ID,
		Name:     raw.Name,
		Type:     typ,
		Status:   raw.Status,
		Value:    raw.Value,
		Location: raw.Location,
		Pin:      raw.Pin,
		Online:   raw.Online,
		Settings: settings,
	}

	if raw.LastActivity > 0 {
		d.LastUpdate = time.UnixMilli(raw.LastActivity).UTC()
	}

	return d, nil
}

// MapDevices converts a raw device list, skipping records that fail to
// map. Returns the mapped devices and the per-record errors.
func MapDevices(raw []RawDevice) ([]device.Device, []error) {
	devices := make([]device.Device, 0, len(raw))
	var errs []error

	for _, r := range raw {
		d, err := MapDevice(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		devices = append(devices, *d)
	}

	return devices, errs
}

// normaliseSettings rewrites camelCase cloud keys to snake_case.
func normaliseSettings(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}

	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if mapped, ok := settingsKeyMap[k]; ok {
			k = mapped
		}
		out[k] = v
	}
	return out
}

// PatchToCloud converts a settings patch to the cloud's camelCase
// settings shape for PushSettings. Unset fields are omitted.
func PatchToCloud(p device.SettingsPatch) map[string]any {
	out := make(map[string]any)

	if p.Brightness != nil {
		out["brightness"] = *p.Brightness
	}
	if p.Color != nil {
		out["color"] = *p.Color
	}
	if p.Temperature != nil {
		out["temperature"] = *p.Temperature
	}
	if p.Mode != nil {
		out["mode"] = string(*p.Mode)
	}
	if p.Speed != nil {
		out["speed"] = *p.Speed
	}
	if p.Sensitivity != nil {
		out["sensitivity"] = *p.Sensitivity
	}
	if p.RecordingEnabled != nil {
		out["recordingEnabled"] = *p.RecordingEnabled
	}
	if p.TargetHumidity != nil {
		out["targetHumidity"] = *p.TargetHumidity
	}
	if p.MinValue != nil {
		out["minValue"] = *p.MinValue
	}
	if p.MaxValue != nil {
		out["maxValue"] = *p.MaxValue
	}
	if p.Unit != nil {
		out["unit"] = *p.Unit
	}
	if p.AutoMode != nil {
		out["autoMode"] = *p.AutoMode
	}

	return out
}
