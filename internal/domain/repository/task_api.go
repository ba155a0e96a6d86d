package repository

import (
	"context"

	"tempo/internal/application/dto"
)

// TaskAPI is the remote task service consumed by the scheduling board.
// Implementations return the updated entity for partial patches and are
// expected to reject unknown ids.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]dto.TaskDTO, error)
	ListInstances(ctx context.Context) ([]dto.InstanceDTO, error)
	UpdateTask(ctx context.Context, id int64, patch dto.TaskPatch) (dto.TaskDTO, error)
	UpdateInstance(ctx context.Context, id int64, patch dto.InstancePatch) (dto.InstanceDTO, error)
}
