package automation

import (
	"fmt"
	"strconv"
	"strings"
)

// Validation constants.
const (
	maxNameLength = 100
	maxActions    = 20
	maxConditions = 10
)

// Pre-computed validation sets for O(1) lookups instead of O(n) linear search.
var (
	validTriggerTypes   map[TriggerType]struct{}
	validConditionTypes map[ConditionType]struct{}
	validOperators      map[Operator]struct{}
	validActionTypes    map[ActionType]struct{}
	validCommands       map[Command]struct{}
	validDays           map[string]struct{}
)

func init() {
	// Build validation sets once at startup
	validTriggerTypes = make(map[TriggerType]struct{}, len(AllTriggerTypes()))
	for _, t := range AllTriggerTypes() {
		validTriggerTypes[t] = struct{}{}
	}

	validConditionTypes = make(map[ConditionType]struct{}, len(AllConditionTypes()))
	for _, t := range AllConditionTypes() {
		validConditionTypes[t] = struct{}{}
	}

	validOperators = make(map[Operator]struct{}, len(AllOperators()))
	for _, op := range AllOperators() {
		validOperators[op] = struct{}{}
	}

	validActionTypes = make(map[ActionType]struct{}, len(AllActionTypes()))
	for _, t := range AllActionTypes() {
		validActionTypes[t] = struct{}{}
	}

	validCommands = make(map[Command]struct{}, len(AllCommands()))
	for _, c := range AllCommands() {
		validCommands[c] = struct{}{}
	}

	validDays = map[string]struct{}{
		"mon": {}, "tue": {}, "wed": {}, "thu": {},
		"fri": {}, "sat": {}, "sun": {},
	}
}

// Validate performs comprehensive validation on an automation.
// Returns an error describing the first validation failure found.
func Validate(a *Automation) error {
	if a == nil {
		return ErrInvalidAutomation
	}

	name := strings.TrimSpace(a.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}

	if err := ValidateTrigger(a.Trigger); err != nil {
		return err
	}

	if len(a.Conditions) > maxConditions {
		return fmt.Errorf("%w: too many conditions (max %d)", ErrInvalidCondition, maxConditions)
	}
	for i, c := range a.Conditions {
		if err := ValidateCondition(c); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}

	// An empty action list is legal: the automation is inert but valid.
	if len(a.Actions) > maxActions {
		return fmt.Errorf("%w: too many actions (max %d)", ErrInvalidAction, maxActions)
	}
	for i, act := range a.Actions {
		if err := ValidateAction(act); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}

	return nil
}

// ValidateTrigger checks a trigger's type and type-specific payload.
func ValidateTrigger(t Trigger) error {
	if _, ok := validTriggerTypes[t.Type]; !ok {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTrigger, t.Type)
	}

	switch t.Type {
	case TriggerDevice:
		if t.DeviceID == "" {
			return fmt.Errorf("%w: device trigger requires device_id", ErrInvalidTrigger)
		}
	case TriggerSchedule:
		if t.Schedule == nil {
			return fmt.Errorf("%w: schedule trigger requires a schedule", ErrInvalidTrigger)
		}
		if err := ValidateSchedule(*t.Schedule); err != nil {
			return err
		}
	case TriggerCondition:
		if t.Condition == nil {
			return fmt.Errorf("%w: condition trigger requires a condition", ErrInvalidTrigger)
		}
		if err := ValidateCondition(*t.Condition); err != nil {
			return err
		}
		if t.Condition.DeviceID == "" {
			return fmt.Errorf("%w: condition trigger requires a device_id to watch", ErrInvalidTrigger)
		}
	}

	return nil
}

// ValidateCondition checks a condition's type and operator.
func ValidateCondition(c Condition) error {
	if _, ok := validConditionTypes[c.Type]; !ok {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCondition, c.Type)
	}
	if _, ok := validOperators[c.Operator]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOperator, c.Operator)
	}
	if c.Type == ConditionDevice && c.DeviceID == "" {
		return fmt.Errorf("%w: device condition requires device_id", ErrInvalidCondition)
	}
	if c.Type == ConditionTime && (c.Value < 0 || c.Value > 23) {
		return fmt.Errorf("%w: time condition hour %v out of range [0, 23]", ErrInvalidCondition, c.Value)
	}
	return nil
}

// ValidateAction checks an action's type and type-specific payload.
func ValidateAction(a Action) error {
	if _, ok := validActionTypes[a.Type]; !ok {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAction, a.Type)
	}

	switch a.Type {
	case ActionDevice:
		if a.TargetID == "" {
			return fmt.Errorf("%w: device action requires target_id", ErrInvalidAction)
		}
		if _, ok := validCommands[a.Command]; !ok {
			return fmt.Errorf("%w: unknown command %q", ErrInvalidAction, a.Command)
		}
		if a.Command == CommandSetValue && a.Value == nil {
			return fmt.Errorf("%w: set_value requires a value", ErrInvalidAction)
		}
	case ActionScene:
		if a.TargetID == "" {
			return fmt.Errorf("%w: scene action requires target_id", ErrInvalidAction)
		}
	case ActionNotification:
		if strings.TrimSpace(a.Message) == "" {
			return fmt.Errorf("%w: notification action requires a message", ErrInvalidAction)
		}
	}

	return nil
}

// ValidateSchedule checks a schedule's time format and day names.
func ValidateSchedule(s Schedule) error {
	if _, _, err := ParseScheduleTime(s.Time); err != nil {
		return err
	}
	for _, day := range s.Days {
		if _, ok := validDays[strings.ToLower(day)]; !ok {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidSchedule, day)
		}
	}
	return nil
}

// ParseScheduleTime parses an "HH:MM" 24-hour time string.
func ParseScheduleTime(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidSchedule, value)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q out of range", ErrInvalidSchedule, value)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q out of range", ErrInvalidSchedule, value)
	}

	return hour, minute, nil
}
