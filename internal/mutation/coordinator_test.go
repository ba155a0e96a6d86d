package mutation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
	"tempo/internal/notify"
)

// countingAPI counts update calls and can be told to fail.
type countingAPI struct {
	taskCalls     int
	instanceCalls int
	lastPatch     dto.TaskPatch
	err           error
}

func (a *countingAPI) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	return nil, a.err
}

func (a *countingAPI) ListInstances(ctx context.Context) ([]dto.InstanceDTO, error) {
	return nil, a.err
}

func (a *countingAPI) UpdateTask(ctx context.Context, id int64, patch dto.TaskPatch) (dto.TaskDTO, error) {
	a.taskCalls++
	a.lastPatch = patch
	return dto.TaskDTO{ID: id}, a.err
}

func (a *countingAPI) UpdateInstance(ctx context.Context, id int64, patch dto.InstancePatch) (dto.InstanceDTO, error) {
	a.instanceCalls++
	return dto.InstanceDTO{ID: id}, a.err
}

func newCoordinatorFixture(tasks []dto.TaskDTO, instances []dto.InstanceDTO) (*Coordinator, *Store, *countingAPI, *notify.Center) {
	api := &countingAPI{}
	store := NewStore()
	store.ReplaceAll(tasks, instances)
	center := notify.NewCenter(5 * time.Second)
	return NewCoordinator(store, api, center), store, api, center
}

func TestDispatch_NoopSchedulingSameSlot(t *testing.T) {
	coord, store, api, _ := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 7, Title: "report", ScheduledDate: strPtr("2024-06-10"), ScheduledTime: strPtr("14:30:00")},
	}, nil)
	before := store.Snapshot()

	pending, err := coord.Dispatch(Outcome{
		Kind:   OutcomeScheduleAt,
		TaskID: 7,
		Date:   "2024-06-10",
		Time:   entity.ClockTime{Hour: 14, Minute: 30},
	})

	require.NoError(t, err)
	assert.Nil(t, pending)
	assert.Zero(t, api.taskCalls)
	assert.Equal(t, before, store.Snapshot())
}

func TestDispatch_NoopUnscheduleAlreadyUnscheduled(t *testing.T) {
	coord, _, api, _ := newCoordinatorFixture([]dto.TaskDTO{{ID: 7, Title: "report"}}, nil)

	pending, err := coord.Dispatch(Outcome{Kind: OutcomeUnschedule, TaskID: 7})

	require.NoError(t, err)
	assert.Nil(t, pending)
	assert.Zero(t, api.taskCalls)
}

func TestDispatch_NoopPromoteTopLevel(t *testing.T) {
	coord, _, api, _ := newCoordinatorFixture([]dto.TaskDTO{{ID: 7, Title: "report"}}, nil)

	pending, err := coord.Dispatch(Outcome{Kind: OutcomePromote, TaskID: 7})

	require.NoError(t, err)
	assert.Nil(t, pending)
	assert.Zero(t, api.taskCalls)
}

func TestDispatch_UnknownTask(t *testing.T) {
	coord, _, _, _ := newCoordinatorFixture(nil, nil)

	_, err := coord.Dispatch(Outcome{Kind: OutcomeUnschedule, TaskID: 99})

	assert.ErrorIs(t, err, entity.ErrTaskNotFound)
}

func TestResolve_FailureRollsBackVerbatim(t *testing.T) {
	coord, store, api, center := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 7, Title: "report", ScheduledDate: strPtr("2024-06-01")},
	}, sampleInstances())
	before := store.Snapshot()
	api.err = errors.New("boom")

	pending, err := coord.Dispatch(Outcome{
		Kind:   OutcomeScheduleDate,
		TaskID: 7,
		Date:   "2024-06-10",
	})
	require.NoError(t, err)
	require.NotNil(t, pending)

	// The optimistic edit is visible until resolution.
	loc, _ := store.Lookup(7)
	assert.Equal(t, "2024-06-10", *loc.Task.ScheduledDate)

	coord.Resolve(pending.Do(context.Background()))

	// The failure restored the pre-edit state exactly.
	assert.Equal(t, before, store.Snapshot())

	active := center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelError, active[0].Level)
	assert.Contains(t, active[0].Message, "Could not save")
	assert.Nil(t, active[0].Action)
}

func TestResolve_SuccessCommitsAndOffersUndo(t *testing.T) {
	coord, store, api, center := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 7, Title: "report"},
	}, nil)

	pending, err := coord.Dispatch(Outcome{
		Kind:   OutcomeScheduleDate,
		TaskID: 7,
		Date:   "2024-06-10",
	})
	require.NoError(t, err)
	require.NotNil(t, pending)

	coord.Resolve(pending.Do(context.Background()))

	assert.Equal(t, 1, api.taskCalls)
	loc, _ := store.Lookup(7)
	assert.Equal(t, "2024-06-10", *loc.Task.ScheduledDate)

	active := center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelSuccess, active[0].Level)
	require.NotNil(t, active[0].Action)
	assert.Equal(t, "Undo", active[0].Action.Label)
}

func TestUndo_RestoresScheduleAndSkipsUndoOfUndo(t *testing.T) {
	coord, store, _, center := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 7, Title: "report", ScheduledDate: strPtr("2024-06-01"), ScheduledTime: strPtr("09:00:00")},
	}, nil)

	pending, err := coord.Dispatch(Outcome{Kind: OutcomeUnschedule, TaskID: 7})
	require.NoError(t, err)
	coord.Resolve(pending.Do(context.Background()))

	loc, _ := store.Lookup(7)
	assert.Nil(t, loc.Task.ScheduledDate)

	// Runner is unset, so the undo executes synchronously.
	require.True(t, center.InvokeAction("task-7"))

	loc, _ = store.Lookup(7)
	require.NotNil(t, loc.Task.ScheduledDate)
	assert.Equal(t, "2024-06-01", *loc.Task.ScheduledDate)
	require.NotNil(t, loc.Task.ScheduledTime)
	assert.Equal(t, "09:00:00", *loc.Task.ScheduledTime)

	// The replacement notification offers no further undo.
	active := center.Active()
	require.Len(t, active, 1)
	assert.Nil(t, active[0].Action)
}

func TestUndo_ReparentInvertsToPromote(t *testing.T) {
	coord, store, _, center := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 3, Title: "child"},
		{ID: 9, Title: "target"},
	}, nil)

	pending, err := coord.Dispatch(Outcome{Kind: OutcomeReparent, TaskID: 3, ParentID: 9})
	require.NoError(t, err)
	coord.Resolve(pending.Do(context.Background()))

	loc, _ := store.Lookup(3)
	assert.True(t, loc.IsSubtask)

	require.True(t, center.InvokeAction("task-3"))

	loc, _ = store.Lookup(3)
	assert.False(t, loc.IsSubtask)
	assert.Nil(t, loc.Task.ParentID)
}

func TestUndo_FailureReportsDistinctMessage(t *testing.T) {
	coord, store, api, center := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 7, Title: "report", ScheduledDate: strPtr("2024-06-01")},
	}, nil)

	pending, err := coord.Dispatch(Outcome{Kind: OutcomeUnschedule, TaskID: 7})
	require.NoError(t, err)
	coord.Resolve(pending.Do(context.Background()))

	api.err = errors.New("network down")
	require.True(t, center.InvokeAction("task-7"))

	// The failed undo rolled its own edit back: the task stays
	// unscheduled, matching the server.
	loc, _ := store.Lookup(7)
	assert.Nil(t, loc.Task.ScheduledDate)

	active := center.Active()
	require.Len(t, active, 1)
	assert.Contains(t, active[0].Message, "Undo failed")
}

func TestResolve_NeedsRefresh(t *testing.T) {
	coord, _, api, _ := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 7, Title: "report", ScheduledDate: strPtr("2024-06-01")},
	}, nil)

	pending, err := coord.Dispatch(Outcome{Kind: OutcomeUnschedule, TaskID: 7})
	require.NoError(t, err)

	assert.True(t, pending.Do(context.Background()).NeedsRefresh())

	api.err = errors.New("boom")
	assert.False(t, pending.Do(context.Background()).NeedsRefresh())
}

func TestDispatch_RunnerReceivesUndoMutation(t *testing.T) {
	coord, _, _, center := newCoordinatorFixture([]dto.TaskDTO{
		{ID: 7, Title: "report", ScheduledDate: strPtr("2024-06-01")},
	}, nil)

	var handed *Pending
	coord.SetRunner(func(p *Pending) { handed = p })

	pending, err := coord.Dispatch(Outcome{Kind: OutcomeUnschedule, TaskID: 7})
	require.NoError(t, err)
	coord.Resolve(pending.Do(context.Background()))

	require.True(t, center.InvokeAction("task-7"))
	require.NotNil(t, handed)
	assert.Equal(t, "task-7", handed.Key())
}
