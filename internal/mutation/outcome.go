package mutation

import (
	"fmt"

	"tempo/internal/domain/entity"
)

// OutcomeKind enumerates the mutually exclusive resolutions of a drop.
type OutcomeKind int

const (
	// OutcomeScheduleAt schedules a task to a date and precise time.
	OutcomeScheduleAt OutcomeKind = iota + 1
	// OutcomeScheduleDate schedules a task to a date without a time.
	OutcomeScheduleDate
	// OutcomeUnschedule clears a task's date and time.
	OutcomeUnschedule
	// OutcomeReparent nests a task under another task.
	OutcomeReparent
	// OutcomePromote lifts a subtask to top level.
	OutcomePromote
	// OutcomeInstanceReschedule moves a recurring-task instance.
	OutcomeInstanceReschedule
	// OutcomeInstanceUnschedule clears an instance's datetime.
	OutcomeInstanceUnschedule
	// OutcomeRestoreSchedule re-applies previously captured schedule
	// fields; produced only as the inverse of a schedule mutation.
	OutcomeRestoreSchedule
	// OutcomeInstanceRestore re-applies a previously captured instance
	// datetime; produced only as the inverse of an instance mutation.
	OutcomeInstanceRestore
)

// Outcome is a fully resolved drop: which entity, which transition, and
// the values computed from the drop zone and time mapping. The Prior*
// fields are used only by the restore kinds.
type Outcome struct {
	Kind       OutcomeKind
	TaskID     int64
	InstanceID int64

	Date     string
	Time     entity.ClockTime
	ParentID int64

	PriorDate     *string
	PriorTime     *string
	PriorDatetime *string
}

// EntityKey is the stable per-entity notification key: a rapid sequence of
// toggles on one entity replaces rather than stacks notifications.
func (o Outcome) EntityKey() string {
	switch o.Kind {
	case OutcomeInstanceReschedule, OutcomeInstanceUnschedule, OutcomeInstanceRestore:
		return fmt.Sprintf("instance-%d", o.InstanceID)
	default:
		return fmt.Sprintf("task-%d", o.TaskID)
	}
}

// IsInstance reports whether the outcome targets an instance rather than a
// task.
func (o Outcome) IsInstance() bool {
	switch o.Kind {
	case OutcomeInstanceReschedule, OutcomeInstanceUnschedule, OutcomeInstanceRestore:
		return true
	}
	return false
}

func (o Outcome) describe(title string) string {
	switch o.Kind {
	case OutcomeScheduleAt:
		return fmt.Sprintf("Scheduled %q for %s at %02d:%02d", title, o.Date, o.Time.Hour, o.Time.Minute)
	case OutcomeScheduleDate:
		return fmt.Sprintf("Scheduled %q for %s", title, o.Date)
	case OutcomeUnschedule:
		return fmt.Sprintf("Unscheduled %q", title)
	case OutcomeReparent:
		return fmt.Sprintf("Moved %q under task %d", title, o.ParentID)
	case OutcomePromote:
		return fmt.Sprintf("Promoted %q to top level", title)
	case OutcomeInstanceReschedule:
		return fmt.Sprintf("Rescheduled %q to %s at %02d:%02d", title, o.Date, o.Time.Hour, o.Time.Minute)
	case OutcomeInstanceUnschedule:
		return fmt.Sprintf("Unscheduled occurrence of %q", title)
	case OutcomeRestoreSchedule, OutcomeInstanceRestore:
		return fmt.Sprintf("Restored %q", title)
	}
	return "Updated " + title
}
