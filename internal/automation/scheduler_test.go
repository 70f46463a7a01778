package automation

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestScheduleDue(t *testing.T) {
	// 2026-03-02 is a Monday.
	tests := []struct {
		name  string
		sched Schedule
		since string
		now   string
		want  bool
	}{
		{
			name:  "due inside window",
			sched: Schedule{Time: "07:00"},
			since: "2026-03-02 06:59",
			now:   "2026-03-02 07:01",
			want:  true,
		},
		{
			name:  "already fired before window",
			sched: Schedule{Time: "07:00"},
			since: "2026-03-02 07:01",
			now:   "2026-03-02 07:02",
			want:  false,
		},
		{
			name:  "not yet due",
			sched: Schedule{Time: "07:00"},
			since: "2026-03-02 06:00",
			now:   "2026-03-02 06:30",
			want:  false,
		},
		{
			name:  "day matches",
			sched: Schedule{Time: "07:00", Days: []string{"mon"}},
			since: "2026-03-02 06:59",
			now:   "2026-03-02 07:01",
			want:  true,
		},
		{
			name:  "day does not match",
			sched: Schedule{Time: "07:00", Days: []string{"tue", "wed"}},
			since: "2026-03-02 06:59",
			now:   "2026-03-02 07:01",
			want:  false,
		},
		{
			name:  "window straddles midnight",
			sched: Schedule{Time: "23:59"},
			since: "2026-03-02 23:58",
			now:   "2026-03-03 00:01",
			want:  true,
		},
		{
			name:  "boundary inclusive at now",
			sched: Schedule{Time: "07:00"},
			since: "2026-03-02 06:59",
			now:   "2026-03-02 07:00",
			want:  true,
		},
		{
			name:  "malformed time never due",
			sched: Schedule{Time: "nope"},
			since: "2026-03-02 06:00",
			now:   "2026-03-02 08:00",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scheduleDue(tt.sched, mustTime(t, tt.since), mustTime(t, tt.now))
			if got != tt.want {
				t.Errorf("scheduleDue(%+v, %s, %s) = %v, want %v",
					tt.sched, tt.since, tt.now, got, tt.want)
			}
		})
	}
}

func waitForMessages(t *testing.T, n *mockNotifier, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notifications, have %d", want, n.count())
}

func scheduledAutomation(at string, repeat bool) *Automation {
	return &Automation{
		Name:    "morning",
		Enabled: true,
		Trigger: Trigger{
			Type:     TriggerSchedule,
			Schedule: &Schedule{Time: at, Repeat: repeat},
		},
		Actions: []Action{{Type: ActionNotification, Message: "fired"}},
	}
}

func TestScheduler_FiresDueSchedule(t *testing.T) {
	registry := NewRegistry()
	notifier := &mockNotifier{}
	engine := NewEngine(registry, newTestStore(t), nil, notifier)

	if _, err := registry.Create(scheduledAutomation("07:00", true)); err != nil {
		t.Fatal(err)
	}

	s := NewScheduler(engine, registry, time.Minute)
	current := mustTime(t, "2026-03-02 06:59")
	s.now = func() time.Time { return current }
	s.lastScan = current

	// Tick before the schedule time: nothing fires.
	s.Scan()
	if notifier.count() != 0 {
		t.Fatalf("fired early: %v", notifier.all())
	}

	// Tick past it: fires once.
	current = mustTime(t, "2026-03-02 07:01")
	s.Scan()
	waitForMessages(t, notifier, 1)

	// Next tick: not due again.
	current = mustTime(t, "2026-03-02 07:02")
	s.Scan()
	time.Sleep(20 * time.Millisecond)
	if notifier.count() != 1 {
		t.Errorf("schedule fired %d times, want 1", notifier.count())
	}
}

func TestScheduler_OneShotDisablesItself(t *testing.T) {
	registry := NewRegistry()
	notifier := &mockNotifier{}
	engine := NewEngine(registry, newTestStore(t), nil, notifier)

	created, err := registry.Create(scheduledAutomation("07:00", false))
	if err != nil {
		t.Fatal(err)
	}

	s := NewScheduler(engine, registry, time.Minute)
	current := mustTime(t, "2026-03-02 06:59")
	s.now = func() time.Time { return current }
	s.lastScan = current

	current = mustTime(t, "2026-03-02 07:01")
	s.Scan()
	waitForMessages(t, notifier, 1)

	deadline := time.Now().Add(2 * time.Second)
	for {
		a, err := registry.Get(created.ID)
		if err != nil {
			t.Fatal(err)
		}
		if !a.Enabled {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("one-shot schedule still enabled after firing")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScheduler_SuppressesOverlap(t *testing.T) {
	registry := NewRegistry()
	notifier := &mockNotifier{}
	engine := NewEngine(registry, newTestStore(t), nil, notifier)

	created, err := registry.Create(scheduledAutomation("07:00", true))
	if err != nil {
		t.Fatal(err)
	}

	s := NewScheduler(engine, registry, time.Minute)
	current := mustTime(t, "2026-03-02 06:59")
	s.now = func() time.Time { return current }
	s.lastScan = current

	// Simulate a still-running previous firing.
	if !s.acquire(created.ID) {
		t.Fatal("acquire failed on empty inflight set")
	}

	current = mustTime(t, "2026-03-02 07:01")
	s.Scan()
	time.Sleep(20 * time.Millisecond)
	if notifier.count() != 0 {
		t.Error("overlapping schedule was not suppressed")
	}

	// Release and re-fire on the next due day.
	s.release(created.ID)
	current = mustTime(t, "2026-03-03 07:01")
	s.Scan()
	waitForMessages(t, notifier, 1)
}
