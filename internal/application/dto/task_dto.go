package dto

// TaskDTO represents a task data transfer object
type TaskDTO struct {
	ID              int64        `json:"id"`
	ParentID        *int64       `json:"parent_id"`
	DomainID        *int64       `json:"domain_id"`
	Title           string       `json:"title"`
	ScheduledDate   *string      `json:"scheduled_date"`
	ScheduledTime   *string      `json:"scheduled_time"`
	DurationMinutes *int         `json:"duration_minutes"`
	Impact          int          `json:"impact"`
	Clarity         string       `json:"clarity"`
	IsRecurring     bool         `json:"is_recurring"`
	Status          string       `json:"status"`
	Subtasks        []SubtaskDTO `json:"subtasks,omitempty"`
}

// SubtaskDTO is the one-level-deep projection of a task nested under a
// parent. A subtask never carries further subtasks.
type SubtaskDTO struct {
	ID              int64   `json:"id"`
	ParentID        int64   `json:"parent_id"`
	DomainID        *int64  `json:"domain_id"`
	Title           string  `json:"title"`
	ScheduledDate   *string `json:"scheduled_date"`
	ScheduledTime   *string `json:"scheduled_time"`
	DurationMinutes *int    `json:"duration_minutes"`
	Impact          int     `json:"impact"`
	Clarity         string  `json:"clarity"`
	Status          string  `json:"status"`
}

// InstanceDTO represents one scheduled occurrence of a recurring task
type InstanceDTO struct {
	ID                int64   `json:"id"`
	TaskID            int64   `json:"task_id"`
	Title             string  `json:"title"`
	ScheduledDatetime *string `json:"scheduled_datetime"`
	DurationMinutes   *int    `json:"duration_minutes"`
}

// TaskPatch is a partial-update request for a task. Absent fields are left
// unchanged; a field explicitly set to null clears the value server-side.
type TaskPatch struct {
	ParentID        Opt[int64]  `json:"parent_id,omitzero"`
	ScheduledDate   Opt[string] `json:"scheduled_date,omitzero"`
	ScheduledTime   Opt[string] `json:"scheduled_time,omitzero"`
	DurationMinutes Opt[int]    `json:"duration_minutes,omitzero"`
	Impact          Opt[int]    `json:"impact,omitzero"`
	Clarity         Opt[string] `json:"clarity,omitzero"`
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return !p.ParentID.Defined && !p.ScheduledDate.Defined &&
		!p.ScheduledTime.Defined && !p.DurationMinutes.Defined &&
		!p.Impact.Defined && !p.Clarity.Defined
}

// InstancePatch is a partial-update request for an instance.
type InstancePatch struct {
	ScheduledDatetime Opt[string] `json:"scheduled_datetime,omitzero"`
}

// IsZero reports whether the patch changes nothing.
func (p InstancePatch) IsZero() bool {
	return !p.ScheduledDatetime.Defined
}

// ToSubtask converts a full task DTO into its nested projection under the
// given parent. Any subtasks of the source are dropped, keeping the
// hierarchy at depth one.
func (t TaskDTO) ToSubtask(parentID int64) SubtaskDTO {
	return SubtaskDTO{
		ID:              t.ID,
		ParentID:        parentID,
		DomainID:        t.DomainID,
		Title:           t.Title,
		ScheduledDate:   t.ScheduledDate,
		ScheduledTime:   t.ScheduledTime,
		DurationMinutes: t.DurationMinutes,
		Impact:          t.Impact,
		Clarity:         t.Clarity,
		Status:          t.Status,
	}
}

// ToTask converts a nested projection back into a top-level task DTO.
func (s SubtaskDTO) ToTask() TaskDTO {
	parent := s.ParentID
	return TaskDTO{
		ID:              s.ID,
		ParentID:        &parent,
		DomainID:        s.DomainID,
		Title:           s.Title,
		ScheduledDate:   s.ScheduledDate,
		ScheduledTime:   s.ScheduledTime,
		DurationMinutes: s.DurationMinutes,
		Impact:          s.Impact,
		Clarity:         s.Clarity,
		Status:          s.Status,
	}
}
