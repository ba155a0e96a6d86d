package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/application/dto"
	"tempo/internal/mutation"
	"tempo/internal/notify"
	"tempo/pkg/geometry"
)

// fakeAPI records every patch it receives.
type fakeAPI struct {
	taskPatches     map[int64][]dto.TaskPatch
	instancePatches map[int64][]dto.InstancePatch
	err             error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		taskPatches:     map[int64][]dto.TaskPatch{},
		instancePatches: map[int64][]dto.InstancePatch{},
	}
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	return nil, f.err
}

func (f *fakeAPI) ListInstances(ctx context.Context) ([]dto.InstanceDTO, error) {
	return nil, f.err
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id int64, patch dto.TaskPatch) (dto.TaskDTO, error) {
	f.taskPatches[id] = append(f.taskPatches[id], patch)
	return dto.TaskDTO{ID: id}, f.err
}

func (f *fakeAPI) UpdateInstance(ctx context.Context, id int64, patch dto.InstancePatch) (dto.InstanceDTO, error) {
	f.instancePatches[id] = append(f.instancePatches[id], patch)
	return dto.InstanceDTO{ID: id}, f.err
}

func (f *fakeAPI) calls() int {
	n := 0
	for _, p := range f.taskPatches {
		n += len(p)
	}
	for _, p := range f.instancePatches {
		n += len(p)
	}
	return n
}

type fixture struct {
	api    *fakeAPI
	store  *mutation.Store
	center *notify.Center
	drag   *Coordinator
	mut    *mutation.Coordinator
}

func newFixture(tasks []dto.TaskDTO, instances []dto.InstanceDTO) *fixture {
	api := newFakeAPI()
	store := mutation.NewStore()
	store.ReplaceAll(tasks, instances)
	center := notify.NewCenter(5 * time.Second)
	mut := mutation.NewCoordinator(store, api, center)
	return &fixture{
		api:    api,
		store:  store,
		center: center,
		drag:   NewCoordinator(mut, center),
		mut:    mut,
	}
}

// registerOverlay registers a single-day calendar overlay whose grid top
// sits at y=0 with 4 rows per hour starting at 06:00.
func (f *fixture) registerOverlay(date string) {
	overlay := Overlay{
		CenterDate:  date,
		HourHeight:  4,
		StartHour:   6,
		SnapMinutes: 15,
		Rect:        func() geometry.Rect { return geometry.NewRect(40, 0, 30, 80) },
		ScrollTop:   func() int { return 0 },
	}
	f.drag.Classifier().Register(OverlayZone(overlay, geometry.NewRect(40, 0, 30, 80)))
}

func (f *fixture) drop(t *testing.T, dragID string, from geometry.Rect, to geometry.Point) *mutation.Pending {
	t.Helper()
	require.NoError(t, f.drag.OnDragStart(dragID, from.Center(), from))
	f.drag.OnDragOver(to)
	pending, err := f.drag.OnDragEnd()
	require.NoError(t, err)
	return pending
}

func TestDrop_TaskOnCalendarOverlay(t *testing.T) {
	prior := "2024-06-01"
	f := newFixture([]dto.TaskDTO{
		{ID: 7, Title: "write report", ScheduledDate: &prior},
	}, nil)
	f.registerOverlay("2024-06-10")

	// 14:30 is 8.5 hours past the 06:00 grid top: row 34.
	pending := f.drop(t, "7", geometry.NewRect(0, 5, 20, 1), geometry.Point{X: 45, Y: 34})
	require.NotNil(t, pending)

	// Optimistic edit lands before the network resolves.
	loc, ok := f.store.Lookup(7)
	require.True(t, ok)
	require.NotNil(t, loc.Task.ScheduledDate)
	assert.Equal(t, "2024-06-10", *loc.Task.ScheduledDate)
	require.NotNil(t, loc.Task.ScheduledTime)
	assert.Equal(t, "14:30:00", *loc.Task.ScheduledTime)

	f.mut.Resolve(pending.Do(context.Background()))

	require.Len(t, f.api.taskPatches[7], 1)
	patch := f.api.taskPatches[7][0]
	require.True(t, patch.ScheduledDate.Defined)
	assert.Equal(t, "2024-06-10", *patch.ScheduledDate.Value)
	require.True(t, patch.ScheduledTime.Defined)
	assert.Equal(t, "14:30:00", *patch.ScheduledTime.Value)
}

func TestDrop_TaskOnCalendarOverlay_UndoRestoresPriorSchedule(t *testing.T) {
	prior := "2024-06-01"
	f := newFixture([]dto.TaskDTO{
		{ID: 7, Title: "write report", ScheduledDate: &prior},
	}, nil)
	f.registerOverlay("2024-06-10")

	pending := f.drop(t, "7", geometry.NewRect(0, 5, 20, 1), geometry.Point{X: 45, Y: 34})
	require.NotNil(t, pending)
	f.mut.Resolve(pending.Do(context.Background()))

	// The success notification carries the undo action; with no runner
	// installed it executes synchronously.
	invoked := f.center.InvokeAction("task-7")
	require.True(t, invoked)

	loc, ok := f.store.Lookup(7)
	require.True(t, ok)
	require.NotNil(t, loc.Task.ScheduledDate)
	assert.Equal(t, prior, *loc.Task.ScheduledDate)
	assert.Nil(t, loc.Task.ScheduledTime)

	// The undo issued its own patch with the prior values.
	require.Len(t, f.api.taskPatches[7], 2)
	undo := f.api.taskPatches[7][1]
	require.True(t, undo.ScheduledDate.Defined)
	assert.Equal(t, prior, *undo.ScheduledDate.Value)
	require.True(t, undo.ScheduledTime.Defined)
	assert.Nil(t, undo.ScheduledTime.Value)
}

func TestDrop_SubtaskOnListPromotes(t *testing.T) {
	parent := int64(5)
	f := newFixture([]dto.TaskDTO{
		{ID: 5, Title: "parent", Subtasks: []dto.SubtaskDTO{
			{ID: 12, ParentID: parent, Title: "nested step"},
		}},
	}, nil)
	f.drag.Classifier().Register(TaskListZone("promote", geometry.NewRect(0, 0, 30, 40)))

	pending := f.drop(t, "12", geometry.NewRect(0, 3, 20, 1), geometry.Point{X: 10, Y: 20})
	require.NotNil(t, pending)
	f.mut.Resolve(pending.Do(context.Background()))

	// Patch clears parent_id with an explicit null.
	require.Len(t, f.api.taskPatches[12], 1)
	patch := f.api.taskPatches[12][0]
	require.True(t, patch.ParentID.Defined)
	assert.Nil(t, patch.ParentID.Value)

	// The cache moved the subtask to top level.
	loc, ok := f.store.Lookup(12)
	require.True(t, ok)
	assert.False(t, loc.IsSubtask)
	assert.Nil(t, loc.Task.ParentID)

	parentLoc, ok := f.store.Lookup(5)
	require.True(t, ok)
	assert.Empty(t, parentLoc.Task.Subtasks)
}

func TestDrop_TaskWithSubtasksOntoTaskRejected(t *testing.T) {
	f := newFixture([]dto.TaskDTO{
		{ID: 3, Title: "parent", Subtasks: []dto.SubtaskDTO{{ID: 4, ParentID: 3, Title: "step"}}},
		{ID: 9, Title: "target"},
	}, nil)
	f.drag.Classifier().Register(TaskDropZone(9, geometry.NewRect(0, 10, 30, 1)))

	before := f.store.Snapshot()

	pending := f.drop(t, "3", geometry.NewRect(0, 2, 20, 1), geometry.Point{X: 10, Y: 10})
	assert.Nil(t, pending)

	// No network call, cache untouched, rejection surfaced.
	assert.Zero(t, f.api.calls())
	assert.Equal(t, before, f.store.Snapshot())

	active := f.center.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "task-3", active[0].Key)
	assert.Equal(t, notify.LevelError, active[0].Level)
	assert.Contains(t, active[0].Message, "cannot become a subtask")
}

func TestDrop_TaskOnOwnCurrentParentIsSilent(t *testing.T) {
	parent := int64(5)
	f := newFixture([]dto.TaskDTO{
		{ID: 5, Title: "parent", Subtasks: []dto.SubtaskDTO{
			{ID: 12, ParentID: parent, Title: "nested"},
		}},
	}, nil)
	f.drag.Classifier().Register(TaskDropZone(5, geometry.NewRect(0, 0, 30, 1)))

	pending := f.drop(t, "12", geometry.NewRect(0, 1, 20, 1), geometry.Point{X: 10, Y: 0})
	assert.Nil(t, pending)

	assert.Zero(t, f.api.calls())
	assert.Empty(t, f.center.Active())
}

func TestDrop_ScheduledTaskOnListUnschedules(t *testing.T) {
	date := "2024-06-10"
	clock := "10:00:00"
	f := newFixture([]dto.TaskDTO{
		{ID: 7, Title: "write report", ScheduledDate: &date, ScheduledTime: &clock},
	}, nil)
	f.drag.Classifier().Register(TaskListZone("promote", geometry.NewRect(0, 0, 30, 40)))

	pending := f.drop(t, "scheduled-7", geometry.NewRect(40, 12, 10, 2), geometry.Point{X: 10, Y: 20})
	require.NotNil(t, pending)
	f.mut.Resolve(pending.Do(context.Background()))

	loc, ok := f.store.Lookup(7)
	require.True(t, ok)
	assert.Nil(t, loc.Task.ScheduledDate)
	assert.Nil(t, loc.Task.ScheduledTime)
}

func TestDrop_UnscheduledTaskOnListIsNoop(t *testing.T) {
	f := newFixture([]dto.TaskDTO{{ID: 7, Title: "write report"}}, nil)
	f.drag.Classifier().Register(TaskListZone("promote", geometry.NewRect(0, 0, 30, 40)))

	pending := f.drop(t, "7", geometry.NewRect(0, 2, 20, 1), geometry.Point{X: 10, Y: 20})
	assert.Nil(t, pending)
	assert.Zero(t, f.api.calls())
}

func TestDrop_InstanceOnDateHeaderCarriesTimeOfDay(t *testing.T) {
	dt := "2024-06-01T16:45:00"
	f := newFixture(
		[]dto.TaskDTO{{ID: 2, Title: "standup", IsRecurring: true}},
		[]dto.InstanceDTO{{ID: 31, TaskID: 2, Title: "standup", ScheduledDatetime: &dt}},
	)
	f.drag.Classifier().Register(DateGroupZone("2024-06-10", geometry.NewRect(40, 0, 30, 1)))

	pending := f.drop(t, "instance-31", geometry.NewRect(40, 12, 10, 1), geometry.Point{X: 45, Y: 0})
	require.NotNil(t, pending)
	f.mut.Resolve(pending.Do(context.Background()))

	inst, ok := f.store.FindInstance(31)
	require.True(t, ok)
	require.NotNil(t, inst.ScheduledDatetime)
	assert.Equal(t, "2024-06-10T16:45:00", *inst.ScheduledDatetime)
}

func TestDrop_InstanceOnOverlayReschedules(t *testing.T) {
	dt := "2024-06-01T16:45:00"
	f := newFixture(
		[]dto.TaskDTO{{ID: 2, Title: "standup", IsRecurring: true}},
		[]dto.InstanceDTO{{ID: 31, TaskID: 2, Title: "standup", ScheduledDatetime: &dt}},
	)
	f.registerOverlay("2024-06-10")

	pending := f.drop(t, "instance-31", geometry.NewRect(40, 12, 10, 1), geometry.Point{X: 45, Y: 34})
	require.NotNil(t, pending)
	f.mut.Resolve(pending.Do(context.Background()))

	require.Len(t, f.api.instancePatches[31], 1)
	patch := f.api.instancePatches[31][0]
	require.True(t, patch.ScheduledDatetime.Defined)
	assert.Equal(t, "2024-06-10T14:30:00", *patch.ScheduledDatetime.Value)
}

func TestDragCancel_LeavesEverythingUntouched(t *testing.T) {
	f := newFixture([]dto.TaskDTO{{ID: 7, Title: "write report"}}, nil)
	f.registerOverlay("2024-06-10")
	before := f.store.Snapshot()

	require.NoError(t, f.drag.OnDragStart("7", geometry.Point{X: 5, Y: 2}, geometry.NewRect(0, 2, 20, 1)))
	f.drag.OnDragOver(geometry.Point{X: 45, Y: 34})
	f.drag.OnDragCancel()

	assert.False(t, f.drag.Dragging())
	assert.Zero(t, f.api.calls())
	assert.Equal(t, before, f.store.Snapshot())
}

func TestDragStart_UnknownIDFails(t *testing.T) {
	f := newFixture(nil, nil)

	err := f.drag.OnDragStart("99", geometry.Point{}, geometry.Rect{})
	assert.Error(t, err)
	assert.False(t, f.drag.Dragging())
}
