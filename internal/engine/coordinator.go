package engine

import (
	"errors"
	"fmt"
	"time"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
	"tempo/internal/mutation"
	"tempo/internal/notify"
	"tempo/pkg/geometry"
)

// Coordinator owns the drag gesture end to end: it resolves the dragged
// entity, keeps the session current, classifies the drop, maps geometry
// to calendar time, gates reparents through validation, and hands every
// recognized outcome to the mutation coordinator.
type Coordinator struct {
	store      *mutation.Store
	mut        *mutation.Coordinator
	center     *notify.Center
	classifier *Classifier
	tracker    *PointerTracker
	session    Session
}

// NewCoordinator wires the drag engine over the shared cache, mutation
// coordinator and notification center.
func NewCoordinator(mut *mutation.Coordinator, center *notify.Center) *Coordinator {
	return &Coordinator{
		store:      mut.Store(),
		mut:        mut,
		center:     center,
		classifier: NewClassifier(),
		tracker:    NewPointerTracker(),
	}
}

// Classifier exposes the zone registry for the layout pass.
func (c *Coordinator) Classifier() *Classifier {
	return c.classifier
}

// Tracker exposes the live pointer tracker for input plumbing.
func (c *Coordinator) Tracker() *PointerTracker {
	return c.tracker
}

// Session returns a copy of the current drag session.
func (c *Coordinator) Session() Session {
	return c.session
}

// Dragging reports whether a gesture is live.
func (c *Coordinator) Dragging() bool {
	return c.session.Dragging()
}

// OnDragStart begins a gesture on the element with the given raw id. grab
// is the activating pointer position, origin the source card's rect. The
// session records the entity snapshot and the grab ratio; the tracker is
// seeded from the activating event.
func (c *Coordinator) OnDragStart(rawID string, grab geometry.Point, origin geometry.Rect) error {
	id, err := ParseDragID(rawID)
	if err != nil {
		return err
	}
	entity, err := c.resolve(id)
	if err != nil {
		return err
	}
	c.tracker.Seed(grab)
	c.session.Start(id, entity, grab, origin)
	return nil
}

// OnDragOver records the pointer position and, when a gesture is live,
// refreshes the session's hovered-zone classification. It runs on every
// pointer-move tick and is purely synchronous.
func (c *Coordinator) OnDragOver(p geometry.Point) {
	c.tracker.Observe(p)
	if !c.session.Dragging() {
		return
	}
	if zone, ok := c.classifier.Classify(p, c.session.PreviewRect(p)); ok {
		c.session.SetOver(zone)
	} else {
		c.session.ClearOver()
	}
}

// OnDragEnd resolves the gesture into a mutation. It returns the pending
// network patch to run asynchronously, or nil when the drop resolved to
// nothing (no zone, validation rejection, or no-op). The session is reset
// before returning, after the optimistic edit has been applied.
func (c *Coordinator) OnDragEnd() (*mutation.Pending, error) {
	if !c.session.Dragging() {
		return nil, nil
	}
	defer func() {
		c.session.Reset()
		c.tracker.Reset()
	}()

	pointer, ok := c.tracker.Pos()
	if !ok {
		return nil, nil
	}
	zone, ok := c.classifier.Classify(pointer, c.session.PreviewRect(pointer))
	if !ok {
		return nil, nil
	}

	outcome, ok := c.resolveOutcome(zone, pointer)
	if !ok {
		return nil, nil
	}

	pending, err := c.mut.Dispatch(outcome)
	if err != nil {
		c.center.Push(notify.Notification{
			Key:     outcome.EntityKey(),
			Level:   notify.LevelError,
			Message: fmt.Sprintf("Cannot apply change: %v", err),
		})
		return nil, err
	}
	return pending, nil
}

// OnDragCancel discards the gesture without touching the cache or the
// network.
func (c *Coordinator) OnDragCancel() {
	c.session.Reset()
	c.tracker.Reset()
}

// resolve looks up the dragged entity snapshot by its decoded id,
// searching top-level tasks then one level of subtasks.
func (c *Coordinator) resolve(id DragID) (ActiveEntity, error) {
	switch id.Kind {
	case DragInstance:
		inst, ok := c.store.FindInstance(id.ID)
		if !ok {
			return ActiveEntity{}, fmt.Errorf("unknown instance %d", id.ID)
		}
		return ActiveEntity{Instance: &inst}, nil
	default:
		loc, ok := c.store.Lookup(id.ID)
		if !ok {
			return ActiveEntity{}, fmt.Errorf("unknown task %d", id.ID)
		}
		task := loc.Task
		return ActiveEntity{Task: &task, IsSubtask: loc.IsSubtask}, nil
	}
}

// resolveOutcome maps the classified zone and the dragged entity onto one
// of the discrete mutations. The time mapper is consulted only for the
// calendar overlay, the reparent validator only for task-drop targets.
func (c *Coordinator) resolveOutcome(zone Zone, pointer geometry.Point) (mutation.Outcome, bool) {
	active := c.session.Entity()
	target := zone.Target

	if active.Instance != nil {
		return c.resolveInstanceOutcome(target, pointer, *active.Instance)
	}
	if active.Task == nil {
		return mutation.Outcome{}, false
	}
	task := *active.Task

	switch target.Kind {
	case ZoneDateGroup, ZoneAnytime:
		return mutation.Outcome{
			Kind:   mutation.OutcomeScheduleDate,
			TaskID: task.ID,
			Date:   target.Date,
		}, true

	case ZoneCalendarOverlay:
		if target.Overlay == nil {
			return mutation.Outcome{}, false
		}
		return mutation.Outcome{
			Kind:   mutation.OutcomeScheduleAt,
			TaskID: task.ID,
			Date:   target.Overlay.DateAt(pointer.X),
			Time:   target.Overlay.TimeAt(pointer),
		}, true

	case ZoneTaskDrop, ZoneLegacyTask:
		return c.resolveReparent(task, target.TaskID)

	case ZoneTaskGap, ZoneTaskList:
		if active.IsSubtask {
			return mutation.Outcome{Kind: mutation.OutcomePromote, TaskID: task.ID}, true
		}
		if task.ScheduledDate != nil || task.ScheduledTime != nil {
			return mutation.Outcome{Kind: mutation.OutcomeUnschedule, TaskID: task.ID}, true
		}
		return mutation.Outcome{}, false
	}
	return mutation.Outcome{}, false
}

// resolveInstanceOutcome handles instances, which resolve through the
// same calendar zones but mutate only their combined datetime.
func (c *Coordinator) resolveInstanceOutcome(target DropTarget, pointer geometry.Point, inst dto.InstanceDTO) (mutation.Outcome, bool) {
	switch target.Kind {
	case ZoneCalendarOverlay:
		if target.Overlay == nil {
			return mutation.Outcome{}, false
		}
		return mutation.Outcome{
			Kind:       mutation.OutcomeInstanceReschedule,
			InstanceID: inst.ID,
			Date:       target.Overlay.DateAt(pointer.X),
			Time:       target.Overlay.TimeAt(pointer),
		}, true

	case ZoneDateGroup, ZoneAnytime:
		return mutation.Outcome{
			Kind:       mutation.OutcomeInstanceReschedule,
			InstanceID: inst.ID,
			Date:       target.Date,
			Time:       instanceCarryTime(inst),
		}, true

	case ZoneTaskGap, ZoneTaskList:
		return mutation.Outcome{
			Kind:       mutation.OutcomeInstanceUnschedule,
			InstanceID: inst.ID,
		}, true
	}
	return mutation.Outcome{}, false
}

// instanceCarryTime keeps the instance's previous time of day when only
// its date changes; an unscheduled instance lands on a morning default.
func instanceCarryTime(inst dto.InstanceDTO) entity.ClockTime {
	if inst.ScheduledDatetime != nil {
		if t, err := time.Parse("2006-01-02T15:04:05", *inst.ScheduledDatetime); err == nil {
			return entity.ClockTime{Hour: t.Hour(), Minute: t.Minute()}
		}
	}
	return entity.ClockTime{Hour: 9}
}

// resolveReparent gates a task-drop through validation. ErrNoChange is
// swallowed; every other rule surfaces its message and suppresses the
// mutation entirely.
func (c *Coordinator) resolveReparent(child dto.TaskDTO, parentID int64) (mutation.Outcome, bool) {
	if child.ID == parentID {
		return mutation.Outcome{}, false
	}
	parentLoc, ok := c.store.Lookup(parentID)
	if !ok {
		return mutation.Outcome{}, false
	}
	if err := ValidateReparent(child, parentLoc.Task); err != nil {
		if !errors.Is(err, ErrNoChange) {
			c.center.Push(notify.Notification{
				Key:     fmt.Sprintf("task-%d", child.ID),
				Level:   notify.LevelError,
				Message: fmt.Sprintf("Cannot move %q here: %v", child.Title, err),
			})
		}
		return mutation.Outcome{}, false
	}
	return mutation.Outcome{
		Kind:     mutation.OutcomeReparent,
		TaskID:   child.ID,
		ParentID: parentID,
	}, true
}
