package notify

import "errors"

// ErrNotificationNotFound is returned when a notification ID does not exist.
var ErrNotificationNotFound = errors.New("notify: not found")
