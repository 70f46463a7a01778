package automation

import "errors"

// Domain errors for the automation package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, automation.ErrAutomationNotFound) {
//	    // handle not found case
//	}
var (
	// ErrAutomationNotFound is returned when an automation ID does not exist.
	ErrAutomationNotFound = errors.New("automation: not found")

	// ErrAutomationExists is returned when creating an automation with an ID that already exists.
	ErrAutomationExists = errors.New("automation: already exists")

	// ErrInvalidAutomation is returned when automation validation fails.
	ErrInvalidAutomation = errors.New("automation: invalid")

	// ErrInvalidName is returned when an automation name is empty or too long.
	ErrInvalidName = errors.New("automation: invalid name")

	// ErrInvalidTrigger is returned when a trigger is malformed.
	ErrInvalidTrigger = errors.New("automation: invalid trigger")

	// ErrInvalidCondition is returned when a condition is malformed.
	ErrInvalidCondition = errors.New("automation: invalid condition")

	// ErrInvalidOperator is returned when a comparison operator is not recognised.
	ErrInvalidOperator = errors.New("automation: invalid operator")

	// ErrInvalidAction is returned when an action is malformed.
	ErrInvalidAction = errors.New("automation: invalid action")

	// ErrInvalidSchedule is returned when a schedule time or day is malformed.
	ErrInvalidSchedule = errors.New("automation: invalid schedule")
)
