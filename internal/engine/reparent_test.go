package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tempo/internal/application/dto"
)

func int64Ptr(v int64) *int64 { return &v }

func TestValidateReparent_Allowed(t *testing.T) {
	child := dto.TaskDTO{ID: 3, Title: "child"}
	parent := dto.TaskDTO{ID: 9, Title: "parent"}

	assert.NoError(t, ValidateReparent(child, parent))
}

func TestValidateReparent_AlreadyNested(t *testing.T) {
	child := dto.TaskDTO{ID: 3, ParentID: int64Ptr(9)}
	parent := dto.TaskDTO{ID: 9}

	assert.ErrorIs(t, ValidateReparent(child, parent), ErrNoChange)
}

func TestValidateReparent_MoveBetweenParents(t *testing.T) {
	// Nested elsewhere is not the no-op case.
	child := dto.TaskDTO{ID: 3, ParentID: int64Ptr(5)}
	parent := dto.TaskDTO{ID: 9}

	assert.NoError(t, ValidateReparent(child, parent))
}

func TestValidateReparent_ParentIsSubtask(t *testing.T) {
	child := dto.TaskDTO{ID: 3}
	parent := dto.TaskDTO{ID: 9, ParentID: int64Ptr(5)}

	assert.ErrorIs(t, ValidateReparent(child, parent), ErrParentIsSubtask)
}

func TestValidateReparent_ParentRecurring(t *testing.T) {
	child := dto.TaskDTO{ID: 3}
	parent := dto.TaskDTO{ID: 9, IsRecurring: true}

	assert.ErrorIs(t, ValidateReparent(child, parent), ErrParentRecurring)
}

func TestValidateReparent_ChildHasSubtasks(t *testing.T) {
	child := dto.TaskDTO{ID: 3, Subtasks: []dto.SubtaskDTO{{ID: 4, ParentID: 3}}}
	parent := dto.TaskDTO{ID: 9}

	assert.ErrorIs(t, ValidateReparent(child, parent), ErrChildHasSubtasks)
}

func TestValidateReparent_WouldCycle(t *testing.T) {
	// Dropping a task onto its own subtask reports the cycle, not the
	// generic nested-parent rejection.
	child := dto.TaskDTO{ID: 3, Subtasks: []dto.SubtaskDTO{{ID: 9, ParentID: 3}}}
	parent := dto.TaskDTO{ID: 9, ParentID: int64Ptr(3)}

	assert.ErrorIs(t, ValidateReparent(child, parent), ErrWouldCycle)
}
