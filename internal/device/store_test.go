package device

import (
	"errors"
	"testing"
	"time"
)

func testDevice(id, name string, typ Type) *Device {
	settings, _ := NewSettings(typ)
	return &Device{
		ID:       id,
		Name:     name,
		Type:     typ,
		Location: "Living Room",
		Online:   true,
		Settings: settings,
	}
}

func newTestStore(t *testing.T, devices ...*Device) *Store {
	t.Helper()
	s := NewStore()
	for _, d := range devices {
		if err := s.Add(d); err != nil {
			t.Fatalf("Add(%s) error = %v", d.ID, err)
		}
	}
	return s
}

func TestStore_AddAndGet(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	got, err := s.Get("light-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Lamp" {
		t.Errorf("Name = %q, want %q", got.Name, "Lamp")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	err := s.Add(testDevice("light-1", "Other", TypeLight))
	if !errors.Is(err, ErrDeviceExists) {
		t.Errorf("expected ErrDeviceExists, got %v", err)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestStore_Get_ReturnsClone(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	first, _ := s.Get("light-1")
	first.Name = "mutated"
	first.Settings.(*LightSettings).Brightness = 1

	second, _ := s.Get("light-1")
	if second.Name != "Lamp" {
		t.Error("Get() leaked a mutable reference to store state")
	}
	if second.Settings.(*LightSettings).Brightness != 100 {
		t.Error("Get() leaked mutable settings")
	}
}

func TestStore_Toggle_Involution(t *testing.T) {
	s := newTestStore(t, testDevice("fan-1", "Ceiling Fan", TypeFan))

	before, _ := s.Get("fan-1")

	once, err := s.Toggle("fan-1", "local")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if once.Status == before.Status {
		t.Error("first toggle did not flip status")
	}

	twice, err := s.Toggle("fan-1", "local")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if twice.Status != before.Status {
		t.Errorf("double toggle: Status = %v, want %v", twice.Status, before.Status)
	}
}

func TestStore_Toggle_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Toggle("missing", "local")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestStore_Toggle_StampsLastUpdate(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	before, _ := s.Get("light-1")
	time.Sleep(time.Millisecond)

	after, _ := s.Toggle("light-1", "local")
	if !after.LastUpdate.After(before.LastUpdate) {
		t.Error("Toggle() did not advance LastUpdate")
	}
}

func TestStore_ApplySettings(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	brightness := 25
	got, err := s.ApplySettings("light-1", SettingsPatch{Brightness: &brightness}, "local")
	if err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}
	if got.Settings.(*LightSettings).Brightness != 25 {
		t.Errorf("Brightness = %d, want 25", got.Settings.(*LightSettings).Brightness)
	}
}

func TestStore_ApplySettings_TypeMismatchLeavesDevice(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	speed := 50
	_, err := s.ApplySettings("light-1", SettingsPatch{Speed: &speed}, "local")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}

	got, _ := s.Get("light-1")
	if got.Settings.(*LightSettings).Brightness != 100 {
		t.Error("failed patch mutated the device")
	}
}

func TestStore_List_FilterAndOrder(t *testing.T) {
	a := testDevice("b-id", "Bravo", TypeLight)
	b := testDevice("a-id", "Alpha", TypeFan)
	c := testDevice("c-id", "Charlie", TypeLight)
	c.Location = "Kitchen"

	s := newTestStore(t, a, b, c)

	all := s.List(Filter{})
	if len(all) != 3 {
		t.Fatalf("List() returned %d devices, want 3", len(all))
	}
	if all[0].Name != "Alpha" || all[1].Name != "Bravo" {
		t.Errorf("List() not sorted by name: %s, %s", all[0].Name, all[1].Name)
	}

	lights := s.List(Filter{Type: TypeLight})
	if len(lights) != 2 {
		t.Errorf("List(Type=LIGHT) returned %d, want 2", len(lights))
	}

	kitchen := s.List(Filter{Location: "Kitchen"})
	if len(kitchen) != 1 || kitchen[0].ID != "c-id" {
		t.Errorf("List(Location=Kitchen) = %v, want [c-id]", kitchen)
	}
}

func TestStore_Subscribe_EventFields(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	var got Event
	s.Subscribe(func(ev Event) { got = ev })

	if _, err := s.Toggle("light-1", "local"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	if got.DeviceID != "light-1" {
		t.Errorf("event DeviceID = %q, want light-1", got.DeviceID)
	}
	if got.OldStatus != false || got.NewStatus != true {
		t.Errorf("event status transition = %v -> %v, want false -> true", got.OldStatus, got.NewStatus)
	}
	if got.Source != "local" {
		t.Errorf("event Source = %q, want local", got.Source)
	}
	if got.Device == nil {
		t.Fatal("event Device snapshot missing")
	}
}

func TestStore_Refresh_ReplacesStale(t *testing.T) {
	s := newTestStore(t, testDevice("temp-1", "Thermostat", TypeTemperature))

	fetchedAt := time.Now().UTC().Add(time.Second)
	remote := *testDevice("temp-1", "Thermostat", TypeTemperature)
	remote.Value = 23.5
	remote.Status = true
	remote.LastUpdate = fetchedAt

	s.Refresh([]Device{remote}, fetchedAt)

	got, _ := s.Get("temp-1")
	if got.Value != 23.5 {
		t.Errorf("Value = %v, want remote 23.5", got.Value)
	}
	if !got.Status {
		t.Error("Status = false, want remote true")
	}
}

func TestStore_Refresh_KeepsLocalEditDuringFetch(t *testing.T) {
	s := newTestStore(t, testDevice("light-1", "Lamp", TypeLight))

	// Fetch starts, then the user toggles while it is in flight.
	fetchedAt := time.Now().UTC()
	time.Sleep(time.Millisecond)
	if _, err := s.Toggle("light-1", "local"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	remote := *testDevice("light-1", "Lamp", TypeLight)
	remote.Status = false // stale cloud view

	s.Refresh([]Device{remote}, fetchedAt)

	got, _ := s.Get("light-1")
	if !got.Status {
		t.Error("refresh overwrote a local edit made after the fetch started")
	}
}

func TestStore_Refresh_DropsAbsentDevices(t *testing.T) {
	s := newTestStore(t,
		testDevice("light-1", "Lamp", TypeLight),
		testDevice("fan-1", "Fan", TypeFan),
	)

	remote := *testDevice("light-1", "Lamp", TypeLight)
	s.Refresh([]Device{remote}, time.Now().UTC().Add(time.Second))

	if _, err := s.Get("fan-1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("expected fan-1 dropped, got err = %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestStore_Refresh_PublishesChanges(t *testing.T) {
	s := newTestStore(t, testDevice("temp-1", "Thermostat", TypeTemperature))

	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	remote := *testDevice("temp-1", "Thermostat", TypeTemperature)
	remote.Value = 25

	s.Refresh([]Device{remote}, time.Now().UTC().Add(time.Second))

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Source != "refresh" {
		t.Errorf("event Source = %q, want refresh", events[0].Source)
	}
	if events[0].NewValue != 25 {
		t.Errorf("event NewValue = %v, want 25", events[0].NewValue)
	}
}

func TestStore_Locations(t *testing.T) {
	a := testDevice("a", "A", TypeLight)
	b := testDevice("b", "B", TypeFan)
	b.Location = "Kitchen"

	s := newTestStore(t, a, b)

	locs := s.Locations()
	if len(locs) != 2 || locs[0] != "Kitchen" || locs[1] != "Living Room" {
		t.Errorf("Locations() = %v, want [Kitchen Living Room]", locs)
	}
}
