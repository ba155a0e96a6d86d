package notify

import (
	"time"
)

// Level describes the notification severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Action is an operation attached to a notification, invokable while the
// notification is alive (e.g. "Undo").
type Action struct {
	Label  string
	Invoke func()
}

// Notification is a transient user-facing message. Key is stable per
// entity so rapid repeated mutations replace rather than stack.
type Notification struct {
	Key       string
	Level     Level
	Message   string
	Action    *Action
	expiresAt time.Time
}

// Center holds the live notifications and the assistive-technology
// announcement feed.
type Center struct {
	items         []Notification
	announcements []string
	ttl           time.Duration
	clock         func() time.Time
}

// NewCenter creates a notification center with the given lifetime per
// notification.
func NewCenter(ttl time.Duration) *Center {
	return &Center{ttl: ttl, clock: time.Now}
}

// SetClock overrides the time source; used by tests.
func (c *Center) SetClock(clock func() time.Time) {
	c.clock = clock
}

// Push adds a notification, replacing any live notification with the same
// key.
func (c *Center) Push(n Notification) {
	n.expiresAt = c.clock().Add(c.ttl)
	for i := range c.items {
		if c.items[i].Key == n.Key {
			c.items[i] = n
			return
		}
	}
	c.items = append(c.items, n)
}

// Announce records a message for assistive technology without showing a
// visual notification.
func (c *Center) Announce(msg string) {
	c.announcements = append(c.announcements, msg)
	if len(c.announcements) > 50 {
		c.announcements = c.announcements[len(c.announcements)-50:]
	}
}

// Announcements returns the accumulated announcement feed.
func (c *Center) Announcements() []string {
	out := make([]string, len(c.announcements))
	copy(out, c.announcements)
	return out
}

// Active returns the live notifications after dropping expired ones.
func (c *Center) Active() []Notification {
	c.expire()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes the notification with the given key.
func (c *Center) Dismiss(key string) {
	for i := range c.items {
		if c.items[i].Key == key {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// InvokeAction runs the attached action of the notification with the given
// key, if any, and dismisses the notification. Returns false when there is
// no live notification with an action under that key.
func (c *Center) InvokeAction(key string) bool {
	c.expire()
	for i := range c.items {
		if c.items[i].Key == key && c.items[i].Action != nil {
			action := c.items[i].Action
			c.items = append(c.items[:i], c.items[i+1:]...)
			action.Invoke()
			return true
		}
	}
	return false
}

// Latest returns the most recently pushed live notification.
func (c *Center) Latest() (Notification, bool) {
	c.expire()
	if len(c.items) == 0 {
		return Notification{}, false
	}
	return c.items[len(c.items)-1], true
}

func (c *Center) expire() {
	now := c.clock()
	live := c.items[:0]
	for _, n := range c.items {
		if n.expiresAt.After(now) {
			live = append(live, n)
		}
	}
	c.items = live
}
