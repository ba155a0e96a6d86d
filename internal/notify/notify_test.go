package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCenter() (*Center, *time.Time) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	c := NewCenter(5 * time.Second)
	c.SetClock(func() time.Time { return now })
	return c, &now
}

func TestCenter_PushReplacesSameKey(t *testing.T) {
	c, _ := newTestCenter()

	c.Push(Notification{Key: "task-7", Message: "first"})
	c.Push(Notification{Key: "task-7", Message: "second"})
	c.Push(Notification{Key: "task-8", Message: "other"})

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "second", active[0].Message)
	assert.Equal(t, "other", active[1].Message)
}

func TestCenter_Expiry(t *testing.T) {
	c, now := newTestCenter()

	c.Push(Notification{Key: "task-7", Message: "fading"})
	*now = now.Add(6 * time.Second)

	assert.Empty(t, c.Active())
}

func TestCenter_ReplacementResetsExpiry(t *testing.T) {
	c, now := newTestCenter()

	c.Push(Notification{Key: "task-7", Message: "first"})
	*now = now.Add(4 * time.Second)
	c.Push(Notification{Key: "task-7", Message: "second"})
	*now = now.Add(4 * time.Second)

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)
}

func TestCenter_Dismiss(t *testing.T) {
	c, _ := newTestCenter()

	c.Push(Notification{Key: "task-7"})
	c.Dismiss("task-7")

	assert.Empty(t, c.Active())
}

func TestCenter_InvokeActionRunsAndDismisses(t *testing.T) {
	c, _ := newTestCenter()

	ran := false
	c.Push(Notification{
		Key:    "task-7",
		Action: &Action{Label: "Undo", Invoke: func() { ran = true }},
	})

	assert.True(t, c.InvokeAction("task-7"))
	assert.True(t, ran)
	assert.Empty(t, c.Active())
}

func TestCenter_InvokeActionWithoutAction(t *testing.T) {
	c, _ := newTestCenter()

	c.Push(Notification{Key: "task-7"})

	assert.False(t, c.InvokeAction("task-7"))
	assert.False(t, c.InvokeAction("missing"))
}

func TestCenter_InvokeActionExpired(t *testing.T) {
	c, now := newTestCenter()

	c.Push(Notification{Key: "task-7", Action: &Action{Label: "Undo", Invoke: func() {}}})
	*now = now.Add(6 * time.Second)

	assert.False(t, c.InvokeAction("task-7"))
}

func TestCenter_Latest(t *testing.T) {
	c, _ := newTestCenter()

	_, ok := c.Latest()
	assert.False(t, ok)

	c.Push(Notification{Key: "task-7", Message: "first"})
	c.Push(Notification{Key: "task-8", Message: "newest"})

	n, ok := c.Latest()
	require.True(t, ok)
	assert.Equal(t, "newest", n.Message)
}

func TestCenter_AnnouncementsCapped(t *testing.T) {
	c, _ := newTestCenter()

	for i := 0; i < 60; i++ {
		c.Announce("msg")
	}

	assert.Len(t, c.Announcements(), 50)
}
