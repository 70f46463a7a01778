package automation

import (
	"time"

	"homehub-core/internal/device"
	"homehub-core/internal/scene"
)

// Logger defines the logging interface used by the engine and scheduler.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DeviceController is the interface the engine needs from the device store.
type DeviceController interface {
	Get(id string) (*device.Device, error)
	SetStatus(id string, status bool, source string) (*device.Device, error)
	SetValue(id string, value float64, source string) (*device.Device, error)
}

// SceneActivator is the interface the engine needs from the scene engine.
// Activations run with source "automation" so the change events they
// publish are ignored by HandleStateChange and cannot feed back.
type SceneActivator interface {
	ActivateWithSource(id, source string) (*scene.Activation, error)
}

// Notifier pushes messages to the notification center.
type Notifier interface {
	Notify(kind, message string)
}

// Engine evaluates automations against device state changes and runs
// their actions.
//
// Thread Safety: HandleStateChange is safe for concurrent use.
type Engine struct {
	registry *Registry
	devices  DeviceController
	scenes   SceneActivator
	notifier Notifier
	logger   Logger

	// now is swappable for time-condition tests.
	now func() time.Time
}

// NewEngine creates an automation engine.
// scenes and notifier may be nil; actions needing them fail and are
// counted like any other action failure.
func NewEngine(registry *Registry, devices DeviceController, scenes SceneActivator, notifier Notifier) *Engine {
	return &Engine{
		registry: registry,
		devices:  devices,
		scenes:   scenes,
		notifier: notifier,
		logger:   noopLogger{},
		now:      time.Now,
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.logger = logger
}

// HandleStateChange runs every enabled automation whose trigger
// matches the event and whose conditions all hold.
//
// Events sourced from automation actions themselves are ignored so a
// rule cannot retrigger the rule set it came from.
//
// Register it on the store:
//
//	store.Subscribe(func(ev device.Event) { engine.HandleStateChange(ev) })
func (e *Engine) HandleStateChange(ev device.Event) {
	if ev.Source == "automation" {
		return
	}

	for _, a := range e.registry.List() {
		if !a.Enabled {
			continue
		}
		if !e.triggerMatches(a.Trigger, ev) {
			continue
		}
		if !e.conditionsHold(a.Conditions, &ev.NewValue) {
			e.logger.Debug("automation conditions not met",
				"automation_id", a.ID, "device_id", ev.DeviceID)
			continue
		}

		e.logger.Info("automation triggered",
			"automation_id", a.ID, "name", a.Name, "device_id", ev.DeviceID)
		e.RunActions(&a)
	}
}

// triggerMatches reports whether an event fires a trigger.
func (e *Engine) triggerMatches(t Trigger, ev device.Event) bool {
	switch t.Type {
	case TriggerDevice:
		return t.DeviceID == ev.DeviceID
	case TriggerCondition:
		if t.Condition == nil || t.Condition.DeviceID != ev.DeviceID {
			return false
		}
		return t.Condition.Compare(ev.NewValue)
	case TriggerSchedule:
		// Handled by the Scheduler, never by the event path.
		return false
	}
	return false
}

// conditionsHold evaluates all conditions (AND). eventValue is the
// triggering event's new value; nil on the schedule path, where value
// conditions have nothing to inspect and are treated as holding.
func (e *Engine) conditionsHold(conditions []Condition, eventValue *float64) bool {
	for _, c := range conditions {
		switch c.Type {
		case ConditionValue:
			if eventValue == nil {
				continue
			}
			if !c.Compare(*eventValue) {
				return false
			}
		case ConditionDevice:
			d, err := e.devices.Get(c.DeviceID)
			if err != nil {
				e.logger.Warn("condition device missing", "device_id", c.DeviceID)
				return false
			}
			if !c.Compare(d.Value) {
				return false
			}
		case ConditionTime:
			if !c.Compare(float64(e.now().Hour())) {
				return false
			}
		}
	}
	return true
}

// RunActions executes an automation's actions in list order.
//
// Actions are fire-and-forget: a failing action is logged and counted
// and later actions still run. An empty action list is legal and inert.
func (e *Engine) RunActions(a *Automation) {
	failed := 0
	for i, act := range a.Actions {
		if err := e.executeAction(act); err != nil {
			failed++
			e.logger.Error("automation action failed",
				"automation_id", a.ID, "action", i, "type", act.Type, "error", err)
		}
	}

	if failed > 0 {
		e.logger.Warn("automation completed with failures",
			"automation_id", a.ID, "total", len(a.Actions), "failed", failed)
	}
}

func (e *Engine) executeAction(act Action) error {
	switch act.Type {
	case ActionDevice:
		switch act.Command {
		case CommandOn:
			_, err := e.devices.SetStatus(act.TargetID, true, "automation")
			return err
		case CommandOff:
			_, err := e.devices.SetStatus(act.TargetID, false, "automation")
			return err
		case CommandSetValue:
			if act.Value == nil {
				return ErrInvalidAction
			}
			_, err := e.devices.SetValue(act.TargetID, *act.Value, "automation")
			return err
		}
		return ErrInvalidAction

	case ActionScene:
		if e.scenes == nil {
			return ErrInvalidAction
		}
		_, err := e.scenes.ActivateWithSource(act.TargetID, "automation")
		return err

	case ActionNotification:
		if e.notifier == nil {
			return ErrInvalidAction
		}
		e.notifier.Notify("info", act.Message)
		return nil
	}

	return ErrInvalidAction
}
