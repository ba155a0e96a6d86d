package engine

import (
	"errors"

	"tempo/internal/application/dto"
)

var (
	// ErrNoChange marks a drop onto the current parent; it short-circuits
	// silently and must never surface as a rejection message.
	ErrNoChange = errors.New("already nested under this task")

	// ErrParentIsSubtask rejects nesting under a task that is itself
	// nested; the hierarchy has depth at most one.
	ErrParentIsSubtask = errors.New("cannot nest under a subtask")

	// ErrParentRecurring rejects recurring tasks as subtask containers.
	ErrParentRecurring = errors.New("recurring tasks cannot hold subtasks")

	// ErrChildHasSubtasks rejects nesting a task that has children of its
	// own; moving it would create a three-level tree.
	ErrChildHasSubtasks = errors.New("a task with subtasks cannot become a subtask")

	// ErrWouldCycle rejects dropping a task onto one of its own subtasks.
	ErrWouldCycle = errors.New("cannot nest a task under its own subtask")
)

// ValidateReparent decides whether nesting child under parent is legal.
// It is pure: a non-nil error blocks the mutation before any cache or
// network work happens. ErrNoChange is the silent no-op case; every other
// error carries the user-facing rejection message.
func ValidateReparent(child, parent dto.TaskDTO) error {
	if child.ParentID != nil && *child.ParentID == parent.ID {
		return ErrNoChange
	}
	for _, sub := range child.Subtasks {
		if sub.ID == parent.ID {
			return ErrWouldCycle
		}
	}
	if parent.ParentID != nil {
		return ErrParentIsSubtask
	}
	if parent.IsRecurring {
		return ErrParentRecurring
	}
	if len(child.Subtasks) > 0 {
		return ErrChildHasSubtasks
	}
	return nil
}
