package mutation

import (
	"tempo/internal/application/dto"
)

// Store is the single mutable client-side cache of tasks and instances.
// Tasks holds top-level tasks only; nested subtasks live inside their
// parent's Subtasks slice. During a drag-resolution cycle only the
// mutation Coordinator writes to the store.
type Store struct {
	Tasks     []dto.TaskDTO
	Instances []dto.InstanceDTO
}

// Snapshot is an immutable deep copy of the store collections, taken
// before an optimistic edit and restored verbatim on failure.
type Snapshot struct {
	Tasks     []dto.TaskDTO
	Instances []dto.InstanceDTO
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// ReplaceAll swaps in freshly fetched collections.
func (s *Store) ReplaceAll(tasks []dto.TaskDTO, instances []dto.InstanceDTO) {
	s.Tasks = tasks
	s.Instances = instances
}

// Snapshot returns a deep copy of the current collections.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Tasks:     copyTasks(s.Tasks),
		Instances: copyInstances(s.Instances),
	}
}

// Restore replaces the collections with a previously taken snapshot.
func (s *Store) Restore(snap Snapshot) {
	s.Tasks = copyTasks(snap.Tasks)
	s.Instances = copyInstances(snap.Instances)
}

// LocatedTask is the result of an id lookup through both hierarchy levels.
type LocatedTask struct {
	Task      dto.TaskDTO
	IsSubtask bool
}

// Lookup finds a task by id, searching top-level tasks first and then one
// level of subtasks. The returned task is a copy.
func (s *Store) Lookup(id int64) (LocatedTask, bool) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return LocatedTask{Task: copyTask(s.Tasks[i])}, true
		}
	}
	for i := range s.Tasks {
		for _, sub := range s.Tasks[i].Subtasks {
			if sub.ID == id {
				return LocatedTask{Task: sub.ToTask(), IsSubtask: true}, true
			}
		}
	}
	return LocatedTask{}, false
}

// FindInstance finds an instance by id. The returned instance is a copy.
func (s *Store) FindInstance(id int64) (dto.InstanceDTO, bool) {
	for i := range s.Instances {
		if s.Instances[i].ID == id {
			return copyInstance(s.Instances[i]), true
		}
	}
	return dto.InstanceDTO{}, false
}

// ApplyTaskFields patches the stored task with the given field values,
// reaching into subtask entries when the id is nested. Structural fields
// (parent_id) are not interpreted here; use MoveUnderParent or Promote.
func (s *Store) ApplyTaskFields(id int64, patch dto.TaskPatch) bool {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			applyTaskPatch(&s.Tasks[i], patch)
			return true
		}
	}
	for i := range s.Tasks {
		for j := range s.Tasks[i].Subtasks {
			if s.Tasks[i].Subtasks[j].ID == id {
				applySubtaskPatch(&s.Tasks[i].Subtasks[j], patch)
				return true
			}
		}
	}
	return false
}

// ApplyInstanceFields patches the stored instance with the given values.
func (s *Store) ApplyInstanceFields(id int64, patch dto.InstancePatch) bool {
	for i := range s.Instances {
		if s.Instances[i].ID == id {
			if patch.ScheduledDatetime.Defined {
				s.Instances[i].ScheduledDatetime = clonePtr(patch.ScheduledDatetime.Value)
			}
			return true
		}
	}
	return false
}

// MoveUnderParent performs the structural half of a reparent: the child is
// removed from the top-level collection (or from its previous parent's
// list) and appended to the new parent's subtask list with its parent_id
// set. Legality is the caller's concern.
func (s *Store) MoveUnderParent(childID, parentID int64) bool {
	child, ok := s.detach(childID)
	if !ok {
		return false
	}
	for i := range s.Tasks {
		if s.Tasks[i].ID == parentID {
			s.Tasks[i].Subtasks = append(s.Tasks[i].Subtasks, child.ToSubtask(parentID))
			return true
		}
	}
	// Parent vanished mid-flight; put the child back where it can be seen.
	s.Tasks = append(s.Tasks, child)
	return false
}

// Promote performs the structural half of a promote: the subtask is
// removed from its parent's list and appended to the top-level collection
// with a null parent_id.
func (s *Store) Promote(childID int64) bool {
	child, ok := s.detach(childID)
	if !ok {
		return false
	}
	child.ParentID = nil
	s.Tasks = append(s.Tasks, child)
	return true
}

// detach removes the task from wherever it currently lives and returns it
// as a top-level shaped DTO.
func (s *Store) detach(id int64) (dto.TaskDTO, bool) {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			task := copyTask(s.Tasks[i])
			s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
			return task, true
		}
	}
	for i := range s.Tasks {
		for j := range s.Tasks[i].Subtasks {
			if s.Tasks[i].Subtasks[j].ID == id {
				task := s.Tasks[i].Subtasks[j].ToTask()
				s.Tasks[i].Subtasks = append(s.Tasks[i].Subtasks[:j], s.Tasks[i].Subtasks[j+1:]...)
				return task, true
			}
		}
	}
	return dto.TaskDTO{}, false
}

func applyTaskPatch(t *dto.TaskDTO, patch dto.TaskPatch) {
	if patch.ScheduledDate.Defined {
		t.ScheduledDate = clonePtr(patch.ScheduledDate.Value)
	}
	if patch.ScheduledTime.Defined {
		t.ScheduledTime = clonePtr(patch.ScheduledTime.Value)
	}
	if patch.DurationMinutes.Defined {
		t.DurationMinutes = clonePtr(patch.DurationMinutes.Value)
	}
	if patch.Impact.Defined && patch.Impact.Value != nil {
		t.Impact = *patch.Impact.Value
	}
	if patch.Clarity.Defined && patch.Clarity.Value != nil {
		t.Clarity = *patch.Clarity.Value
	}
}

func applySubtaskPatch(t *dto.SubtaskDTO, patch dto.TaskPatch) {
	if patch.ScheduledDate.Defined {
		t.ScheduledDate = clonePtr(patch.ScheduledDate.Value)
	}
	if patch.ScheduledTime.Defined {
		t.ScheduledTime = clonePtr(patch.ScheduledTime.Value)
	}
	if patch.DurationMinutes.Defined {
		t.DurationMinutes = clonePtr(patch.DurationMinutes.Value)
	}
	if patch.Impact.Defined && patch.Impact.Value != nil {
		t.Impact = *patch.Impact.Value
	}
	if patch.Clarity.Defined && patch.Clarity.Value != nil {
		t.Clarity = *patch.Clarity.Value
	}
}

func copyTasks(tasks []dto.TaskDTO) []dto.TaskDTO {
	out := make([]dto.TaskDTO, len(tasks))
	for i := range tasks {
		out[i] = copyTask(tasks[i])
	}
	return out
}

func copyTask(t dto.TaskDTO) dto.TaskDTO {
	c := t
	c.ParentID = clonePtr(t.ParentID)
	c.DomainID = clonePtr(t.DomainID)
	c.ScheduledDate = clonePtr(t.ScheduledDate)
	c.ScheduledTime = clonePtr(t.ScheduledTime)
	c.DurationMinutes = clonePtr(t.DurationMinutes)
	if t.Subtasks != nil {
		c.Subtasks = make([]dto.SubtaskDTO, len(t.Subtasks))
		for i, sub := range t.Subtasks {
			c.Subtasks[i] = copySubtask(sub)
		}
	}
	return c
}

func copySubtask(t dto.SubtaskDTO) dto.SubtaskDTO {
	c := t
	c.DomainID = clonePtr(t.DomainID)
	c.ScheduledDate = clonePtr(t.ScheduledDate)
	c.ScheduledTime = clonePtr(t.ScheduledTime)
	c.DurationMinutes = clonePtr(t.DurationMinutes)
	return c
}

func copyInstances(instances []dto.InstanceDTO) []dto.InstanceDTO {
	out := make([]dto.InstanceDTO, len(instances))
	for i := range instances {
		out[i] = copyInstance(instances[i])
	}
	return out
}

func copyInstance(in dto.InstanceDTO) dto.InstanceDTO {
	c := in
	c.ScheduledDatetime = clonePtr(in.ScheduledDatetime)
	c.DurationMinutes = clonePtr(in.DurationMinutes)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
