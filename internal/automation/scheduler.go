package automation

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Scheduler fires schedule-triggered automations by scanning wall-clock
// time at a fixed interval.
//
// Each scan covers the window since the previous scan, so a schedule
// time is fired exactly once even when the scan interval drifts. A
// schedule still running from a previous scan is suppressed, never
// stacked.
type Scheduler struct {
	engine   *Engine
	registry *Registry
	interval time.Duration
	logger   Logger

	mu       sync.Mutex
	inflight map[string]struct{}
	lastScan time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewScheduler creates a scheduler scanning at the given interval.
func NewScheduler(engine *Engine, registry *Registry, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		engine:   engine,
		registry: registry,
		interval: interval,
		logger:   noopLogger{},
		inflight: make(map[string]struct{}),
		now:      time.Now,
	}
}

// SetLogger sets the logger for the scheduler.
func (s *Scheduler) SetLogger(logger Logger) {
	s.logger = logger
}

// Run scans until the context is cancelled. Always returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("schedule scanner started", "interval", s.interval)

	s.mu.Lock()
	s.lastScan = s.now()
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("schedule scanner stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Scan()
		}
	}
}

// Scan fires every enabled schedule automation due since the last scan.
// Exported for the tests; Run calls it on each tick.
func (s *Scheduler) Scan() {
	now := s.now()

	s.mu.Lock()
	since := s.lastScan
	s.lastScan = now
	s.mu.Unlock()

	for _, a := range s.registry.List() {
		if !a.Enabled || a.Trigger.Type != TriggerSchedule || a.Trigger.Schedule == nil {
			continue
		}
		if !scheduleDue(*a.Trigger.Schedule, since, now) {
			continue
		}
		if !s.acquire(a.ID) {
			s.logger.Warn("schedule still running, skipping", "automation_id", a.ID)
			continue
		}

		if !s.engine.conditionsHold(a.Conditions, nil) {
			s.release(a.ID)
			continue
		}

		s.logger.Info("schedule fired", "automation_id", a.ID, "name", a.Name)

		go func(a Automation) {
			defer s.release(a.ID)
			s.engine.RunActions(&a)

			if !a.Trigger.Schedule.Repeat {
				if _, err := s.registry.SetEnabled(a.ID, false); err != nil {
					s.logger.Error("failed to retire one-shot schedule",
						"automation_id", a.ID, "error", err)
				}
			}
		}(a)
	}
}

func (s *Scheduler) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.inflight[id]; running {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *Scheduler) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

// scheduleDue reports whether the schedule's time of day falls within
// (since, now] on a day the schedule is active.
func scheduleDue(sched Schedule, since, now time.Time) bool {
	hour, minute, err := ParseScheduleTime(sched.Time)
	if err != nil {
		return false
	}

	// Candidate firing times on each day the window spans. The window
	// is normally well under a day, so checking now's date and the day
	// before covers a scan straddling midnight.
	for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
		at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		if at.After(since) && !at.After(now) && dayActive(sched.Days, at.Weekday()) {
			return true
		}
	}
	return false
}

// dayActive reports whether a weekday is in the schedule's day list.
// An empty list means every day.
func dayActive(days []string, wd time.Weekday) bool {
	if len(days) == 0 {
		return true
	}

	short := strings.ToLower(wd.String()[:3])
	for _, d := range days {
		if strings.ToLower(d) == short {
			return true
		}
	}
	return false
}
