package mutation

import (
	"context"
	"fmt"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
	"tempo/internal/domain/repository"
	"tempo/internal/notify"
)

// Coordinator turns a resolved drop Outcome into a committed, recoverable
// state transition: snapshot the cache, apply the edit optimistically,
// dispatch the network patch, and on resolution either keep the edit (with
// an attached Undo) or restore the snapshot verbatim.
type Coordinator struct {
	store  *Store
	api    repository.TaskAPI
	center *notify.Center
	runner func(*Pending)
}

// NewCoordinator creates a mutation coordinator over the given cache,
// remote API and notification center.
func NewCoordinator(store *Store, api repository.TaskAPI, center *notify.Center) *Coordinator {
	return &Coordinator{store: store, api: api, center: center}
}

// SetRunner installs the async executor for mutations started outside a
// drag (currently only undo actions). When unset, pending mutations run
// synchronously, which is what tests want.
func (c *Coordinator) SetRunner(run func(*Pending)) {
	c.runner = run
}

// Store returns the cache the coordinator writes to.
func (c *Coordinator) Store() *Store {
	return c.store
}

// Pending is an optimistic edit that has been applied locally and is
// waiting on its network patch. Do performs the patch; the Result must be
// fed back into Resolve to commit or roll back.
type Pending struct {
	coord   *Coordinator
	outcome Outcome
	inverse *Outcome
	title   string
	tx      *Transaction[Snapshot]
	isUndo  bool
}

// Key returns the stable per-entity notification key.
func (p *Pending) Key() string {
	return p.outcome.EntityKey()
}

// Do dispatches the network patch. It blocks; run it off the event loop.
func (p *Pending) Do(ctx context.Context) Result {
	var err error
	if p.outcome.IsInstance() {
		_, err = p.coord.api.UpdateInstance(ctx, p.outcome.InstanceID, buildInstancePatch(p.outcome))
	} else {
		_, err = p.coord.api.UpdateTask(ctx, p.outcome.TaskID, buildTaskPatch(p.outcome))
	}
	return Result{Pending: p, Err: err}
}

// Result is the resolution of a pending mutation's network patch.
type Result struct {
	Pending *Pending
	Err     error
}

// NeedsRefresh reports whether the caller should re-fetch the collections
// to reconcile with the server: after every success, and after a failed
// undo (whose local state can no longer be trusted either way).
func (r Result) NeedsRefresh() bool {
	return r.Err == nil || r.Pending.isUndo
}

// Dispatch resolves an outcome into an optimistic local edit and returns
// the pending network patch. A nil Pending with nil error means the
// outcome is a no-op: nothing was mutated, nothing must be notified.
func (c *Coordinator) Dispatch(out Outcome) (*Pending, error) {
	return c.dispatch(out, false)
}

func (c *Coordinator) dispatch(out Outcome, isUndo bool) (*Pending, error) {
	title, inverse, noop, err := c.examine(out)
	if err != nil {
		return nil, err
	}
	if noop {
		return nil, nil
	}

	tx := Begin(c.store.Snapshot, c.store.Restore)
	c.applyLocal(out)

	return &Pending{
		coord:   c,
		outcome: out,
		inverse: inverse,
		title:   title,
		tx:      tx,
		isUndo:  isUndo,
	}, nil
}

// Resolve commits or rolls back a pending mutation based on how its
// network patch went, and surfaces the corresponding notification.
func (c *Coordinator) Resolve(r Result) {
	p := r.Pending
	key := p.outcome.EntityKey()

	if r.Err != nil {
		p.tx.Rollback()
		msg := fmt.Sprintf("Could not save %q: %v", p.title, r.Err)
		if p.isUndo {
			msg = fmt.Sprintf("Undo failed for %q: %v", p.title, r.Err)
		}
		c.center.Push(notify.Notification{Key: key, Level: notify.LevelError, Message: msg})
		return
	}

	p.tx.Commit()
	msg := p.outcome.describe(p.title)
	c.center.Announce(msg)

	n := notify.Notification{Key: key, Level: notify.LevelSuccess, Message: msg}
	if p.inverse != nil && !p.isUndo {
		inv := *p.inverse
		n.Action = &notify.Action{
			Label: "Undo",
			Invoke: func() {
				c.runUndo(inv)
			},
		}
	}
	c.center.Push(n)
}

// Refresh re-fetches both collections from the server and swaps them into
// the cache.
func (c *Coordinator) Refresh(ctx context.Context) error {
	tasks, err := c.api.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("refresh tasks: %w", err)
	}
	instances, err := c.api.ListInstances(ctx)
	if err != nil {
		return fmt.Errorf("refresh instances: %w", err)
	}
	c.store.ReplaceAll(tasks, instances)
	return nil
}

// runUndo re-enters the dispatch pipeline with the captured prior values.
// A fresh snapshot is taken, so the undo itself rolls back cleanly on
// failure; undo-of-undo is not offered.
func (c *Coordinator) runUndo(inv Outcome) {
	p, err := c.dispatch(inv, true)
	if err != nil || p == nil {
		return
	}
	if c.runner != nil {
		c.runner(p)
		return
	}
	c.Resolve(p.Do(context.Background()))
}

// examine reads the current cache state for the outcome's entity and
// computes the display title, the inverse outcome for undo, and whether
// the outcome changes anything at all.
func (c *Coordinator) examine(out Outcome) (title string, inverse *Outcome, noop bool, err error) {
	if out.IsInstance() {
		inst, ok := c.store.FindInstance(out.InstanceID)
		if !ok {
			return "", nil, false, entity.ErrInstanceNotFound
		}
		title = inst.Title
		inverse = &Outcome{
			Kind:          OutcomeInstanceRestore,
			InstanceID:    out.InstanceID,
			PriorDatetime: clonePtr(inst.ScheduledDatetime),
		}
		noop = instanceNoop(inst, out)
		return title, inverse, noop, nil
	}

	loc, ok := c.store.Lookup(out.TaskID)
	if !ok {
		return "", nil, false, entity.ErrTaskNotFound
	}
	task := loc.Task
	title = task.Title

	switch out.Kind {
	case OutcomeScheduleAt:
		timeStr := out.Time.String()
		noop = strEq(task.ScheduledDate, &out.Date) && strEq(task.ScheduledTime, &timeStr)
		inverse = scheduleInverse(task)
	case OutcomeScheduleDate:
		noop = strEq(task.ScheduledDate, &out.Date) && task.ScheduledTime == nil
		inverse = scheduleInverse(task)
	case OutcomeUnschedule:
		noop = task.ScheduledDate == nil && task.ScheduledTime == nil
		inverse = scheduleInverse(task)
	case OutcomeRestoreSchedule:
		noop = strEq(task.ScheduledDate, out.PriorDate) && strEq(task.ScheduledTime, out.PriorTime)
		inverse = scheduleInverse(task)
	case OutcomeReparent:
		noop = task.ParentID != nil && *task.ParentID == out.ParentID
		if task.ParentID == nil {
			inverse = &Outcome{Kind: OutcomePromote, TaskID: out.TaskID}
		} else {
			inverse = &Outcome{Kind: OutcomeReparent, TaskID: out.TaskID, ParentID: *task.ParentID}
		}
	case OutcomePromote:
		noop = task.ParentID == nil
		if task.ParentID != nil {
			inverse = &Outcome{Kind: OutcomeReparent, TaskID: out.TaskID, ParentID: *task.ParentID}
		}
	default:
		return "", nil, false, fmt.Errorf("unknown outcome kind %d", out.Kind)
	}
	return title, inverse, noop, nil
}

// applyLocal writes the optimistic edit into the cache.
func (c *Coordinator) applyLocal(out Outcome) {
	switch out.Kind {
	case OutcomeReparent:
		c.store.MoveUnderParent(out.TaskID, out.ParentID)
	case OutcomePromote:
		c.store.Promote(out.TaskID)
	case OutcomeInstanceReschedule, OutcomeInstanceUnschedule, OutcomeInstanceRestore:
		c.store.ApplyInstanceFields(out.InstanceID, buildInstancePatch(out))
	default:
		c.store.ApplyTaskFields(out.TaskID, buildTaskPatch(out))
	}
}

// scheduleInverse captures a task's current schedule fields as a restore
// outcome.
func scheduleInverse(task dto.TaskDTO) *Outcome {
	return &Outcome{
		Kind:      OutcomeRestoreSchedule,
		TaskID:    task.ID,
		PriorDate: clonePtr(task.ScheduledDate),
		PriorTime: clonePtr(task.ScheduledTime),
	}
}

func instanceNoop(inst dto.InstanceDTO, out Outcome) bool {
	switch out.Kind {
	case OutcomeInstanceReschedule:
		dt := instanceDatetime(out)
		return strEq(inst.ScheduledDatetime, &dt)
	case OutcomeInstanceUnschedule:
		return inst.ScheduledDatetime == nil
	case OutcomeInstanceRestore:
		return strEq(inst.ScheduledDatetime, out.PriorDatetime)
	}
	return false
}

// instanceDatetime combines the outcome's date and time into the wire
// datetime format.
func instanceDatetime(out Outcome) string {
	return fmt.Sprintf("%sT%s", out.Date, out.Time.String())
}

// buildTaskPatch maps a task outcome onto the partial-update fields sent
// to the server.
func buildTaskPatch(out Outcome) dto.TaskPatch {
	var patch dto.TaskPatch
	switch out.Kind {
	case OutcomeScheduleAt:
		patch.ScheduledDate = dto.Set(out.Date)
		patch.ScheduledTime = dto.Set(out.Time.String())
	case OutcomeScheduleDate:
		patch.ScheduledDate = dto.Set(out.Date)
		patch.ScheduledTime = dto.Null[string]()
	case OutcomeUnschedule:
		patch.ScheduledDate = dto.Null[string]()
		patch.ScheduledTime = dto.Null[string]()
	case OutcomeReparent:
		patch.ParentID = dto.Set(out.ParentID)
	case OutcomePromote:
		patch.ParentID = dto.Null[int64]()
	case OutcomeRestoreSchedule:
		patch.ScheduledDate = optFromPtr(out.PriorDate)
		patch.ScheduledTime = optFromPtr(out.PriorTime)
	}
	return patch
}

// buildInstancePatch maps an instance outcome onto its single patch field.
func buildInstancePatch(out Outcome) dto.InstancePatch {
	var patch dto.InstancePatch
	switch out.Kind {
	case OutcomeInstanceReschedule:
		patch.ScheduledDatetime = dto.Set(instanceDatetime(out))
	case OutcomeInstanceUnschedule:
		patch.ScheduledDatetime = dto.Null[string]()
	case OutcomeInstanceRestore:
		patch.ScheduledDatetime = optFromPtr(out.PriorDatetime)
	}
	return patch
}

func optFromPtr[T any](p *T) dto.Opt[T] {
	if p == nil {
		return dto.Null[T]()
	}
	return dto.Set(*p)
}

func strEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
