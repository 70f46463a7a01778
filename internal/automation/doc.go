// Package automation provides the rule engine: triggers, conditions
// and actions over the device store.
//
// # Model
//
// An Automation has one trigger, a list of AND-ed conditions and an
// ordered action list. Triggers come in three kinds:
//
//	device     a specific device changed state
//	condition  a watched device changed state and a comparison holds
//	schedule   a wall-clock time on selected days
//
// Conditions compare a value with >, <, ==, !=, >= or <=. The value
// under comparison depends on the condition type: the triggering
// event's new value, another device's current value, or the current
// hour of day.
//
// Actions are device commands (on, off, set_value), scene activations
// and notifications. They run in list order and are fire-and-forget:
// a failed action is logged and the rest still run.
//
// # Event path
//
// Engine.HandleStateChange subscribes to the device store. Disabled
// automations never fire. Events produced by automation actions are
// ignored to keep rules from retriggering themselves.
//
// # Schedule path
//
// The Scheduler scans at a fixed interval and fires schedules whose
// time of day fell inside the window since the previous scan, so a
// schedule fires once per due time regardless of tick drift. A
// schedule whose actions are still running is skipped, not stacked.
// One-shot schedules (repeat false) are disabled after firing.
package automation
