package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// DragKind tags the type of element a drag started on.
type DragKind int

const (
	// DragTask is a task card (top-level or subtask; the cache lookup
	// resolves which).
	DragTask DragKind = iota + 1
	// DragInstance is an occurrence of a recurring task.
	DragInstance
	// DragScheduledCopy is the calendar-rendered copy of an already
	// scheduled task; it resolves to the same task.
	DragScheduledCopy
)

const (
	instancePrefix  = "instance-"
	scheduledPrefix = "scheduled-"
)

// DragID is the decoded identifier of the dragged element. Identifier
// strings are prefix-tagged and decoded once here, at the boundary.
type DragID struct {
	Kind DragKind
	ID   int64
	Raw  string
}

// ParseDragID decodes a draggable identifier: a bare numeric id is a
// task, "instance-<id>" an instance, "scheduled-<id>" the calendar copy
// of a task.
func ParseDragID(raw string) (DragID, error) {
	switch {
	case strings.HasPrefix(raw, instancePrefix):
		id, err := strconv.ParseInt(raw[len(instancePrefix):], 10, 64)
		if err != nil {
			return DragID{}, fmt.Errorf("malformed instance id %q", raw)
		}
		return DragID{Kind: DragInstance, ID: id, Raw: raw}, nil
	case strings.HasPrefix(raw, scheduledPrefix):
		id, err := strconv.ParseInt(raw[len(scheduledPrefix):], 10, 64)
		if err != nil {
			return DragID{}, fmt.Errorf("malformed scheduled-copy id %q", raw)
		}
		return DragID{Kind: DragScheduledCopy, ID: id, Raw: raw}, nil
	default:
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return DragID{}, fmt.Errorf("malformed drag id %q", raw)
		}
		return DragID{Kind: DragTask, ID: id, Raw: raw}, nil
	}
}

// InstanceDragID builds the identifier string for a draggable instance.
func InstanceDragID(id int64) string {
	return fmt.Sprintf("%s%d", instancePrefix, id)
}

// ScheduledCopyDragID builds the identifier string for the calendar copy
// of a scheduled task.
func ScheduledCopyDragID(taskID int64) string {
	return fmt.Sprintf("%s%d", scheduledPrefix, taskID)
}

// TaskDragID builds the identifier string for a task card.
func TaskDragID(taskID int64) string {
	return strconv.FormatInt(taskID, 10)
}
