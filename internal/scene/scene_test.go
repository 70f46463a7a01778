package scene

import (
	"errors"
	"testing"
	"time"

	"homehub-core/internal/device"
)

func testScene(id, name string, targets ...Target) *Scene {
	return &Scene{ID: id, Name: name, Targets: targets}
}

func testDevice(id, name string, typ device.Type) device.Device {
	settings, _ := device.NewSettings(typ)
	return device.Device{
		ID:       id,
		Name:     name,
		Type:     typ,
		Location: "Living Room",
		Settings: settings,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestApply_OnlyTargetedDevicesChange(t *testing.T) {
	devices := []device.Device{
		testDevice("light-1", "Lamp", device.TypeLight),
		testDevice("fan-1", "Fan", device.TypeFan),
		testDevice("temp-1", "Thermostat", device.TypeTemperature),
	}

	s := testScene("movie", "Movie Night",
		Target{DeviceID: "light-1", Status: true, Value: floatPtr(20)},
		Target{DeviceID: "fan-1", Status: false},
	)

	now := time.Now().UTC()
	out := Apply(devices, s, now)

	if !out[0].Status || out[0].Value != 20 {
		t.Errorf("light-1 = {status %v, value %v}, want {true, 20}", out[0].Status, out[0].Value)
	}
	if !out[0].LastUpdate.Equal(now) {
		t.Error("targeted device LastUpdate not stamped")
	}

	// fan-1: status applied, value untouched (target sets none)
	if out[1].Status {
		t.Error("fan-1 status not applied")
	}
	if out[1].Value != devices[1].Value {
		t.Error("fan-1 value changed though target sets none")
	}

	// temp-1 untouched, referentially equal state
	if out[2].Status != devices[2].Status || out[2].Value != devices[2].Value {
		t.Error("untargeted device changed")
	}

	// Inputs never mutated
	if devices[0].Status || devices[0].Value == 20 {
		t.Error("Apply() mutated its input")
	}
}

func TestApply_UnknownTargetIgnored(t *testing.T) {
	devices := []device.Device{testDevice("light-1", "Lamp", device.TypeLight)}
	s := testScene("x", "X", Target{DeviceID: "ghost", Status: true})

	out := Apply(devices, s, time.Now())
	if len(out) != 1 || out[0].Status {
		t.Error("unknown target affected the device list")
	}
}

func TestRegistry_CreateGetList(t *testing.T) {
	r := NewRegistry()

	created, err := r.Create(testScene("", "Evening", Target{DeviceID: "light-1", Status: true}))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("Create() did not generate an ID")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("Create() did not stamp timestamps")
	}

	got, err := r.Get(created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Evening" {
		t.Errorf("Name = %q, want Evening", got.Name)
	}

	if _, err := r.Create(testScene("", "Alpha", Target{DeviceID: "d", Status: false})); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("List() returned %d scenes, want 2", len(list))
	}
	if list[0].Name != "Alpha" {
		t.Errorf("List() not sorted by name: first = %q", list[0].Name)
	}
}

func TestRegistry_Validation(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		scene   *Scene
		wantErr error
	}{
		{
			name:    "empty name",
			scene:   testScene("", "  ", Target{DeviceID: "d", Status: true}),
			wantErr: ErrInvalidName,
		},
		{
			name:    "no targets",
			scene:   testScene("", "Empty"),
			wantErr: ErrNoTargets,
		},
		{
			name:    "target without device id",
			scene:   testScene("", "Bad", Target{Status: true}),
			wantErr: ErrInvalidScene,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Create(tt.scene)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("missing")
	if !errors.Is(err, ErrSceneNotFound) {
		t.Errorf("expected ErrSceneNotFound, got %v", err)
	}
}

func TestRegistry_Get_ReturnsCopy(t *testing.T) {
	r := NewRegistry()
	created, _ := r.Create(testScene("", "Evening", Target{DeviceID: "light-1", Status: true}))

	first, _ := r.Get(created.ID)
	first.Targets[0].DeviceID = "mutated"

	second, _ := r.Get(created.ID)
	if second.Targets[0].DeviceID != "light-1" {
		t.Error("Get() leaked a mutable reference to registry state")
	}
}

type recordingBroadcaster struct {
	events   []string
	payloads []any
}

func (b *recordingBroadcaster) Broadcast(event string, payload any) {
	b.events = append(b.events, event)
	b.payloads = append(b.payloads, payload)
}

func TestEngine_Activate(t *testing.T) {
	store := device.NewStore()
	light := testDevice("light-1", "Lamp", device.TypeLight)
	fan := testDevice("fan-1", "Fan", device.TypeFan)
	if err := store.Add(&light); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(&fan); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	created, _ := r.Create(testScene("", "Evening",
		Target{DeviceID: "light-1", Status: true, Value: floatPtr(30)},
		Target{DeviceID: "ghost", Status: true},
	))

	b := &recordingBroadcaster{}
	e := NewEngine(r, store, b)

	act, err := e.Activate(created.ID)
	if err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if act.Applied != 1 || act.Missing != 1 {
		t.Errorf("Activation = {applied %d, missing %d}, want {1, 1}", act.Applied, act.Missing)
	}

	got, _ := store.Get("light-1")
	if !got.Status || got.Value != 30 {
		t.Errorf("light-1 = {status %v, value %v}, want {true, 30}", got.Status, got.Value)
	}

	// Untargeted device untouched
	gotFan, _ := store.Get("fan-1")
	if gotFan.Status {
		t.Error("untargeted fan-1 changed")
	}

	if len(b.events) != 1 || b.events[0] != "scene.activated" {
		t.Errorf("broadcast events = %v, want [scene.activated]", b.events)
	}
}

func TestEngine_ActivateWithSource_StampsEvents(t *testing.T) {
	store := device.NewStore()
	light := testDevice("light-1", "Lamp", device.TypeLight)
	if err := store.Add(&light); err != nil {
		t.Fatal(err)
	}

	var sources []string
	store.Subscribe(func(ev device.Event) { sources = append(sources, ev.Source) })

	r := NewRegistry()
	created, _ := r.Create(testScene("", "Evening",
		Target{DeviceID: "light-1", Status: true, Value: floatPtr(30)},
	))
	e := NewEngine(r, store, nil)

	if _, err := e.Activate(created.ID); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if _, err := e.ActivateWithSource(created.ID, "automation"); err != nil {
		t.Fatalf("ActivateWithSource() error = %v", err)
	}

	want := []string{"scene", "automation"}
	if len(sources) != len(want) {
		t.Fatalf("sources = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("sources[%d] = %q, want %q", i, sources[i], want[i])
		}
	}
}

func TestEngine_Activate_NotFound(t *testing.T) {
	e := NewEngine(NewRegistry(), device.NewStore(), nil)

	_, err := e.Activate("missing")
	if !errors.Is(err, ErrSceneNotFound) {
		t.Errorf("expected ErrSceneNotFound, got %v", err)
	}
}
