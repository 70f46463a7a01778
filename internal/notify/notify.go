package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for the dashboard.
type Kind string

// Kind constants.
const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindAlert   Kind = "alert"
)

// AllKinds returns all valid notification kinds.
func AllKinds() []Kind {
	return []Kind{KindInfo, KindWarning, KindAlert}
}

// Notification is a single entry in the dashboard's notification feed.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Broadcaster pushes events to dashboard clients.
// Satisfied by the WebSocket hub.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// Center is the bounded in-memory notification feed. Newest first;
// when full the oldest entry is evicted.
//
// All public methods are thread-safe.
type Center struct {
	mu          sync.RWMutex
	entries     []Notification // newest at index 0
	capacity    int
	broadcaster Broadcaster
}

// NewCenter creates a notification center keeping up to capacity entries.
// broadcaster may be nil when no dashboard push is wired.
func NewCenter(capacity int, broadcaster Broadcaster) *Center {
	if capacity < 1 {
		capacity = 1
	}
	return &Center{
		capacity:    capacity,
		broadcaster: broadcaster,
	}
}

// Push appends a notification, evicting the oldest when full, and
// broadcasts notification.created. Unknown kinds fall back to info.
func (c *Center) Push(kind Kind, message string) Notification {
	switch kind {
	case KindInfo, KindWarning, KindAlert:
	default:
		kind = KindInfo
	}

	n := Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	c.mu.Lock()
	c.entries = append([]Notification{n}, c.entries...)
	if len(c.entries) > c.capacity {
		c.entries = c.entries[:c.capacity]
	}
	c.mu.Unlock()

	if c.broadcaster != nil {
		c.broadcaster.Broadcast("notification.created", n)
	}

	return n
}

// Notify satisfies the automation engine's notifier interface.
func (c *Center) Notify(kind, message string) {
	c.Push(Kind(kind), message)
}

// List returns all notifications, newest first.
func (c *Center) List() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// MarkRead marks a notification as read.
// Returns ErrNotificationNotFound if the ID does not exist.
func (c *Center) MarkRead(id string) (Notification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ID == id {
			c.entries[i].Read = true
			return c.entries[i], nil
		}
	}
	return Notification{}, fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
}

// MarkAllRead marks every notification as read and returns the number
// that changed.
func (c *Center) MarkAllRead() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := 0
	for i := range c.entries {
		if !c.entries[i].Read {
			c.entries[i].Read = true
			changed++
		}
	}
	return changed
}

// ClearAll removes every notification.
func (c *Center) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// UnreadCount returns the number of unread notifications.
func (c *Center) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for i := range c.entries {
		if !c.entries[i].Read {
			n++
		}
	}
	return n
}
