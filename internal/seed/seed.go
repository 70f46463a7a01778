package seed

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"homehub-core/internal/automation"
	"homehub-core/internal/device"
	"homehub-core/internal/scene"
)

// Seed is the initial state loaded at startup: devices, scenes and
// automations, already converted to domain types and validated.
type Seed struct {
	Devices     []device.Device
	Scenes      []scene.Scene
	Automations []automation.Automation
}

// file mirrors the YAML document layout.
type file struct {
	Devices     []deviceSpec     `yaml:"devices"`
	Scenes      []sceneSpec      `yaml:"scenes"`
	Automations []automationSpec `yaml:"automations"`
}

// deviceSpec is a seed device entry. Settings is a free-form map fed
// through the typed settings constructor; omitted fields take the
// per-type defaults.
type deviceSpec struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Status   bool           `yaml:"status"`
	Value    float64        `yaml:"value"`
	Location string         `yaml:"location"`
	Pin      int            `yaml:"pin"`
	Online   *bool          `yaml:"online"` // default true
	Settings map[string]any `yaml:"settings"`
}

type sceneSpec struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Icon    string         `yaml:"icon"`
	Devices []scene.Target `yaml:"devices"`
}

type automationSpec struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name"`
	Enabled    *bool                  `yaml:"enabled"` // default true
	Trigger    automation.Trigger     `yaml:"trigger"`
	Conditions []automation.Condition `yaml:"conditions"`
	Actions    []automation.Action    `yaml:"actions"`
}

// Load reads and converts a seed file.
//
// Every record passes domain validation; a single invalid record fails
// the whole load with a descriptive error, since starting with partial
// seed state would be worse than not starting.
func Load(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	s := &Seed{}

	for i, spec := range f.Devices {
		d, err := buildDevice(spec)
		if err != nil {
			return nil, fmt.Errorf("seed device %d (%s): %w", i, spec.ID, err)
		}
		s.Devices = append(s.Devices, *d)
	}

	for i, spec := range f.Scenes {
		sc := scene.Scene{
			ID:      spec.ID,
			Name:    spec.Name,
			Icon:    spec.Icon,
			Targets: spec.Devices,
		}
		if err := scene.Validate(&sc); err != nil {
			return nil, fmt.Errorf("seed scene %d (%s): %w", i, spec.ID, err)
		}
		s.Scenes = append(s.Scenes, sc)
	}

	for i, spec := range f.Automations {
		a := automation.Automation{
			ID:         spec.ID,
			Name:       spec.Name,
			Enabled:    boolOr(spec.Enabled, true),
			Trigger:    spec.Trigger,
			Conditions: spec.Conditions,
			Actions:    spec.Actions,
		}
		if err := automation.Validate(&a); err != nil {
			return nil, fmt.Errorf("seed automation %d (%s): %w", i, spec.ID, err)
		}
		s.Automations = append(s.Automations, a)
	}

	return s, nil
}

func buildDevice(spec deviceSpec) (*device.Device, error) {
	typ := device.Type(strings.ToUpper(strings.TrimSpace(spec.Type)))

	settings, err := device.SettingsFromMap(typ, spec.Settings)
	if err != nil {
		return nil, err
	}

	d := &device.Device{
		ID:       spec.ID,
		Name:     spec.Name,
		Type:     typ,
		Status:   spec.Status,
		Value:    spec.Value,
		Location: spec.Location,
		Pin:      spec.Pin,
		Online:   boolOr(spec.Online, true),
		Settings: settings,
	}
	if d.ID == "" {
		d.ID = device.GenerateID()
	}

	if err := device.ValidateDevice(d); err != nil {
		return nil, err
	}
	return d, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
