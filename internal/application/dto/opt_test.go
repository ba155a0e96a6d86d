package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPatch_MarshalDistinguishesAbsentNullValue(t *testing.T) {
	patch := TaskPatch{
		ScheduledDate: Set("2024-06-10"),
		ScheduledTime: Null[string](),
		// ParentID left undefined: must not appear at all.
	}

	data, err := json.Marshal(patch)
	require.NoError(t, err)

	assert.JSONEq(t, `{"scheduled_date":"2024-06-10","scheduled_time":null}`, string(data))
}

func TestTaskPatch_MarshalEmpty(t *testing.T) {
	data, err := json.Marshal(TaskPatch{})
	require.NoError(t, err)

	assert.Equal(t, "{}", string(data))
}

func TestOpt_Unmarshal(t *testing.T) {
	var patch TaskPatch
	err := json.Unmarshal([]byte(`{"scheduled_date":"2024-06-10","scheduled_time":null}`), &patch)
	require.NoError(t, err)

	assert.True(t, patch.ScheduledDate.Defined)
	require.NotNil(t, patch.ScheduledDate.Value)
	assert.Equal(t, "2024-06-10", *patch.ScheduledDate.Value)

	assert.True(t, patch.ScheduledTime.Defined)
	assert.Nil(t, patch.ScheduledTime.Value)

	assert.False(t, patch.ParentID.Defined)
}

func TestTaskPatch_IsZero(t *testing.T) {
	assert.True(t, TaskPatch{}.IsZero())
	assert.False(t, TaskPatch{ParentID: Null[int64]()}.IsZero())
	assert.False(t, TaskPatch{ScheduledDate: Set("2024-06-10")}.IsZero())
}

func TestOpt_Equals(t *testing.T) {
	eq := func(a, b string) bool { return a == b }
	v := "x"

	assert.True(t, Opt[string]{}.Equals(&v, eq))
	assert.True(t, Null[string]().Equals(nil, eq))
	assert.False(t, Null[string]().Equals(&v, eq))
	assert.True(t, Set("x").Equals(&v, eq))
	assert.False(t, Set("y").Equals(&v, eq))
}

func TestSubtaskDTO_ToTaskRoundTrip(t *testing.T) {
	date := "2024-06-10"
	sub := SubtaskDTO{ID: 12, ParentID: 5, Title: "step", ScheduledDate: &date}

	task := sub.ToTask()
	require.NotNil(t, task.ParentID)
	assert.Equal(t, int64(5), *task.ParentID)
	assert.Equal(t, "step", task.Title)

	back := task.ToSubtask(7)
	assert.Equal(t, int64(7), back.ParentID)
	assert.Equal(t, "step", back.Title)
}
