package backend

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempo/internal/application/dto"
	"tempo/internal/infrastructure/api"
	"tempo/internal/infrastructure/config"
)

func newTestServer(t *testing.T) (*httptest.Server, *Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage, err := NewStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	ts := httptest.NewServer(NewServer(storage).Handler())
	t.Cleanup(ts.Close)
	return ts, storage
}

func newTestClient(ts *httptest.Server) *api.Client {
	cfg := config.Default()
	cfg.API.BaseURL = ts.URL
	return api.NewClient(cfg)
}

func TestServer_ListAssemblesSubtasks(t *testing.T) {
	ts, storage := newTestServer(t)

	parent, err := storage.CreateTask(dto.TaskDTO{Title: "parent", Impact: 2, Clarity: "clear", Status: "pending"})
	require.NoError(t, err)
	_, err = storage.CreateTask(dto.TaskDTO{Title: "child", ParentID: &parent.ID, Impact: 2, Clarity: "clear", Status: "pending"})
	require.NoError(t, err)

	tasks, err := newTestClient(ts).ListTasks(context.Background())
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	assert.Equal(t, "parent", tasks[0].Title)
	require.Len(t, tasks[0].Subtasks, 1)
	assert.Equal(t, "child", tasks[0].Subtasks[0].Title)
	assert.Equal(t, parent.ID, tasks[0].Subtasks[0].ParentID)
}

func TestServer_PatchScheduleValueAndNull(t *testing.T) {
	ts, storage := newTestServer(t)
	client := newTestClient(ts)
	ctx := context.Background()

	task, err := storage.CreateTask(dto.TaskDTO{Title: "report", Impact: 2, Clarity: "clear", Status: "pending"})
	require.NoError(t, err)

	// Set date and time.
	updated, err := client.UpdateTask(ctx, task.ID, dto.TaskPatch{
		ScheduledDate: dto.Set("2024-06-10"),
		ScheduledTime: dto.Set("14:30:00"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ScheduledDate)
	assert.Equal(t, "2024-06-10", *updated.ScheduledDate)
	require.NotNil(t, updated.ScheduledTime)
	assert.Equal(t, "14:30:00", *updated.ScheduledTime)

	// Explicit null clears the time, leaves the date.
	updated, err = client.UpdateTask(ctx, task.ID, dto.TaskPatch{
		ScheduledTime: dto.Null[string](),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ScheduledDate)
	assert.Equal(t, "2024-06-10", *updated.ScheduledDate)
	assert.Nil(t, updated.ScheduledTime)
}

func TestServer_PatchReparentAndPromote(t *testing.T) {
	ts, storage := newTestServer(t)
	client := newTestClient(ts)
	ctx := context.Background()

	parent, err := storage.CreateTask(dto.TaskDTO{Title: "parent", Impact: 2, Clarity: "clear", Status: "pending"})
	require.NoError(t, err)
	child, err := storage.CreateTask(dto.TaskDTO{Title: "child", Impact: 2, Clarity: "clear", Status: "pending"})
	require.NoError(t, err)

	updated, err := client.UpdateTask(ctx, child.ID, dto.TaskPatch{ParentID: dto.Set(parent.ID)})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, parent.ID, *updated.ParentID)

	tasks, err := client.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Len(t, tasks[0].Subtasks, 1)

	// Promote: null parent_id lifts the child back to top level.
	updated, err = client.UpdateTask(ctx, child.ID, dto.TaskPatch{ParentID: dto.Null[int64]()})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)

	tasks, err = client.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestServer_PatchUnknownTaskIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	_, err := newTestClient(ts).UpdateTask(context.Background(), 999, dto.TaskPatch{
		ScheduledDate: dto.Set("2024-06-10"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestServer_InstanceLifecycle(t *testing.T) {
	ts, storage := newTestServer(t)
	client := newTestClient(ts)
	ctx := context.Background()

	task, err := storage.CreateTask(dto.TaskDTO{Title: "standup", IsRecurring: true, Impact: 1, Clarity: "clear", Status: "pending"})
	require.NoError(t, err)

	dt := "2024-06-10T09:00:00"
	inst, err := storage.CreateInstance(dto.InstanceDTO{TaskID: task.ID, ScheduledDatetime: &dt})
	require.NoError(t, err)

	instances, err := client.ListInstances(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	// Title is joined in from the owning task.
	assert.Equal(t, "standup", instances[0].Title)

	updated, err := client.UpdateInstance(ctx, inst.ID, dto.InstancePatch{
		ScheduledDatetime: dto.Set("2024-06-11T10:15:00"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ScheduledDatetime)
	assert.Equal(t, "2024-06-11T10:15:00", *updated.ScheduledDatetime)

	updated, err = client.UpdateInstance(ctx, inst.ID, dto.InstancePatch{
		ScheduledDatetime: dto.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ScheduledDatetime)
}

func TestServer_SeedIsIdempotent(t *testing.T) {
	_, storage := newTestServer(t)

	require.NoError(t, Seed(storage))
	first, err := storage.ListTasks()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	require.NoError(t, Seed(storage))
	second, err := storage.ListTasks()
	require.NoError(t, err)
	assert.Len(t, second, len(first))
}
