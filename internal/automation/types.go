package automation

import "time"

// Automation is a rule: one trigger, optional conditions, ordered
// actions. When the trigger fires and every condition holds, the
// actions run in list order.
type Automation struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Disabled automations never fire, from any path.
	Enabled bool `json:"enabled"`

	Trigger    Trigger     `json:"trigger"`
	Conditions []Condition `json:"conditions,omitempty"`
	Actions    []Action    `json:"actions"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TriggerType identifies what starts an automation.
type TriggerType string

// TriggerType constants.
const (
	// TriggerDevice fires on a state change of a specific device.
	TriggerDevice TriggerType = "device"

	// TriggerSchedule fires at a wall-clock time on selected days.
	TriggerSchedule TriggerType = "schedule"

	// TriggerCondition fires on any state change of the condition's
	// device while the condition holds.
	TriggerCondition TriggerType = "condition"
)

// AllTriggerTypes returns all valid trigger type values.
func AllTriggerTypes() []TriggerType {
	return []TriggerType{TriggerDevice, TriggerSchedule, TriggerCondition}
}

// Trigger starts an automation. Exactly one of the optional fields is
// populated, matching Type.
type Trigger struct {
	Type TriggerType `json:"type"`

	// DeviceID for TriggerDevice.
	DeviceID string `json:"device_id,omitempty" yaml:"device_id,omitempty"`

	// Schedule for TriggerSchedule.
	Schedule *Schedule `json:"schedule,omitempty" yaml:"schedule,omitempty"`

	// Condition for TriggerCondition.
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Schedule defines a wall-clock trigger.
type Schedule struct {
	// Time of day in "HH:MM" 24-hour form.
	Time string `json:"time"`

	// Days the schedule is active: mon..sun. Empty means every day.
	Days []string `json:"days,omitempty"`

	// Repeat keeps the schedule active after its first firing.
	// One-shot schedules (Repeat false) are disabled once run.
	Repeat bool `json:"repeat"`
}

// ConditionType identifies what a condition inspects.
type ConditionType string

// ConditionType constants.
const (
	// ConditionValue compares the triggering event's new value.
	ConditionValue ConditionType = "value"

	// ConditionDevice compares another device's current value.
	ConditionDevice ConditionType = "device"

	// ConditionTime compares the current hour of day (0-23).
	ConditionTime ConditionType = "time"
)

// AllConditionTypes returns all valid condition type values.
func AllConditionTypes() []ConditionType {
	return []ConditionType{ConditionValue, ConditionDevice, ConditionTime}
}

// Operator is a comparison operator for conditions.
type Operator string

// Operator constants.
const (
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
)

// AllOperators returns all valid operator values.
func AllOperators() []Operator {
	return []Operator{
		OpGreater, OpLess, OpEqual, OpNotEqual, OpGreaterEqual, OpLessEqual,
	}
}

// Condition guards an automation. All conditions must hold (AND) for
// the actions to run.
type Condition struct {
	Type ConditionType `json:"type"`

	// DeviceID for ConditionDevice.
	DeviceID string `json:"device_id,omitempty" yaml:"device_id,omitempty"`

	Operator Operator `json:"operator"`
	Value    float64  `json:"value"`

	// Unit is informational for the dashboard (°C, %, lux).
	Unit string `json:"unit,omitempty"`
}

// Compare evaluates the operator against an observed value.
func (c Condition) Compare(observed float64) bool {
	switch c.Operator {
	case OpGreater:
		return observed > c.Value
	case OpLess:
		return observed < c.Value
	case OpEqual:
		return observed == c.Value
	case OpNotEqual:
		return observed != c.Value
	case OpGreaterEqual:
		return observed >= c.Value
	case OpLessEqual:
		return observed <= c.Value
	}
	return false
}

// ActionType identifies what an action does.
type ActionType string

// ActionType constants.
const (
	ActionDevice       ActionType = "device"
	ActionScene        ActionType = "scene"
	ActionNotification ActionType = "notification"
)

// AllActionTypes returns all valid action type values.
func AllActionTypes() []ActionType {
	return []ActionType{ActionDevice, ActionScene, ActionNotification}
}

// Command is a device action command.
type Command string

// Command constants.
const (
	CommandOn       Command = "on"
	CommandOff      Command = "off"
	CommandSetValue Command = "set_value"
)

// AllCommands returns all valid device command values.
func AllCommands() []Command {
	return []Command{CommandOn, CommandOff, CommandSetValue}
}

// Action is a single automation side effect.
type Action struct {
	Type ActionType `json:"type"`

	// TargetID names the device or scene the action operates on.
	TargetID string `json:"target_id,omitempty" yaml:"target_id,omitempty"`

	// Command for ActionDevice.
	Command Command `json:"command,omitempty" yaml:"command,omitempty"`

	// Value for CommandSetValue.
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`

	// Message for ActionNotification.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// DeepCopy creates a complete independent copy of the Automation.
func (a *Automation) DeepCopy() *Automation {
	if a == nil {
		return nil
	}

	cpy := *a // Shallow copy of value fields

	if a.Trigger.Schedule != nil {
		sched := *a.Trigger.Schedule
		if sched.Days != nil {
			sched.Days = make([]string, len(a.Trigger.Schedule.Days))
			copy(sched.Days, a.Trigger.Schedule.Days)
		}
		cpy.Trigger.Schedule = &sched
	}
	if a.Trigger.Condition != nil {
		cond := *a.Trigger.Condition
		cpy.Trigger.Condition = &cond
	}

	if a.Conditions != nil {
		cpy.Conditions = make([]Condition, len(a.Conditions))
		copy(cpy.Conditions, a.Conditions)
	}

	if a.Actions != nil {
		cpy.Actions = make([]Action, len(a.Actions))
		for i, act := range a.Actions {
			cpy.Actions[i] = act
			if act.Value != nil {
				v := *act.Value
				cpy.Actions[i].Value = &v
			}
		}
	}

	return &cpy
}
