package backend

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
)

//go:embed schema.sql
var schemaSQL string

// Storage handles SQLite persistence for the dev task service
type Storage struct {
	db *sql.DB
}

// NewStorage opens (creating if needed) the database at dbPath
func NewStorage(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

const taskColumns = `id, parent_id, domain_id, title, scheduled_date,
	scheduled_time, duration_minutes, impact, clarity, is_recurring, status`

// ListTasks returns all top-level tasks with their subtasks attached.
func (s *Storage) ListTasks() ([]dto.TaskDTO, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var top []dto.TaskDTO
	children := make(map[int64][]dto.SubtaskDTO)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if task.ParentID != nil {
			children[*task.ParentID] = append(children[*task.ParentID], task.ToSubtask(*task.ParentID))
		} else {
			top = append(top, task)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	for i := range top {
		top[i].Subtasks = children[top[i].ID]
	}
	return top, nil
}

// GetTask returns one task row (subtasks not attached).
func (s *Storage) GetTask(id int64) (dto.TaskDTO, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return dto.TaskDTO{}, entity.ErrTaskNotFound
	}
	return task, err
}

// CreateTask inserts a task and returns it with its assigned id.
func (s *Storage) CreateTask(task dto.TaskDTO) (dto.TaskDTO, error) {
	res, err := s.db.Exec(`INSERT INTO tasks (parent_id, domain_id, title,
		scheduled_date, scheduled_time, duration_minutes, impact, clarity,
		is_recurring, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ParentID, task.DomainID, task.Title, task.ScheduledDate,
		task.ScheduledTime, task.DurationMinutes, task.Impact, task.Clarity,
		task.IsRecurring, task.Status)
	if err != nil {
		return dto.TaskDTO{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return dto.TaskDTO{}, fmt.Errorf("task id: %w", err)
	}
	return s.GetTask(id)
}

// UpdateTask applies a partial patch and returns the updated row.
func (s *Storage) UpdateTask(id int64, patch dto.TaskPatch) (dto.TaskDTO, error) {
	if _, err := s.GetTask(id); err != nil {
		return dto.TaskDTO{}, err
	}

	set := func(column string, value any) error {
		_, err := s.db.Exec(fmt.Sprintf(`UPDATE tasks SET %s = ? WHERE id = ?`, column), value, id)
		if err != nil {
			return fmt.Errorf("update %s: %w", column, err)
		}
		return nil
	}

	if patch.ParentID.Defined {
		if err := set("parent_id", ptrArg(patch.ParentID.Value)); err != nil {
			return dto.TaskDTO{}, err
		}
	}
	if patch.ScheduledDate.Defined {
		if err := set("scheduled_date", ptrArg(patch.ScheduledDate.Value)); err != nil {
			return dto.TaskDTO{}, err
		}
	}
	if patch.ScheduledTime.Defined {
		if err := set("scheduled_time", ptrArg(patch.ScheduledTime.Value)); err != nil {
			return dto.TaskDTO{}, err
		}
	}
	if patch.DurationMinutes.Defined {
		if err := set("duration_minutes", ptrArg(patch.DurationMinutes.Value)); err != nil {
			return dto.TaskDTO{}, err
		}
	}
	if patch.Impact.Defined && patch.Impact.Value != nil {
		if err := set("impact", *patch.Impact.Value); err != nil {
			return dto.TaskDTO{}, err
		}
	}
	if patch.Clarity.Defined && patch.Clarity.Value != nil {
		if err := set("clarity", *patch.Clarity.Value); err != nil {
			return dto.TaskDTO{}, err
		}
	}

	return s.GetTask(id)
}

// DeleteTask removes a task (and, via foreign keys, its subtasks and
// instances).
func (s *Storage) DeleteTask(id int64) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

// ListInstances returns all instances joined with their task titles.
func (s *Storage) ListInstances() ([]dto.InstanceDTO, error) {
	rows, err := s.db.Query(`SELECT i.id, i.task_id, t.title,
		i.scheduled_datetime, i.duration_minutes
		FROM instances i JOIN tasks t ON t.id = i.task_id ORDER BY i.id`)
	if err != nil {
		return nil, fmt.Errorf("query instances: %w", err)
	}
	defer rows.Close()

	var out []dto.InstanceDTO
	for rows.Next() {
		var inst dto.InstanceDTO
		if err := rows.Scan(&inst.ID, &inst.TaskID, &inst.Title,
			&inst.ScheduledDatetime, &inst.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan instance: %w", err)
		}
		out = append(out, inst)
	}
	return out, rows.Err()
}

// GetInstance returns one instance.
func (s *Storage) GetInstance(id int64) (dto.InstanceDTO, error) {
	row := s.db.QueryRow(`SELECT i.id, i.task_id, t.title,
		i.scheduled_datetime, i.duration_minutes
		FROM instances i JOIN tasks t ON t.id = i.task_id WHERE i.id = ?`, id)
	var inst dto.InstanceDTO
	err := row.Scan(&inst.ID, &inst.TaskID, &inst.Title,
		&inst.ScheduledDatetime, &inst.DurationMinutes)
	if err == sql.ErrNoRows {
		return dto.InstanceDTO{}, entity.ErrInstanceNotFound
	}
	if err != nil {
		return dto.InstanceDTO{}, fmt.Errorf("scan instance: %w", err)
	}
	return inst, nil
}

// CreateInstance inserts an occurrence for a recurring task.
func (s *Storage) CreateInstance(inst dto.InstanceDTO) (dto.InstanceDTO, error) {
	res, err := s.db.Exec(`INSERT INTO instances (task_id, scheduled_datetime,
		duration_minutes) VALUES (?, ?, ?)`,
		inst.TaskID, inst.ScheduledDatetime, inst.DurationMinutes)
	if err != nil {
		return dto.InstanceDTO{}, fmt.Errorf("insert instance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return dto.InstanceDTO{}, fmt.Errorf("instance id: %w", err)
	}
	return s.GetInstance(id)
}

// UpdateInstance applies a partial patch and returns the updated row.
func (s *Storage) UpdateInstance(id int64, patch dto.InstancePatch) (dto.InstanceDTO, error) {
	if _, err := s.GetInstance(id); err != nil {
		return dto.InstanceDTO{}, err
	}
	if patch.ScheduledDatetime.Defined {
		if _, err := s.db.Exec(`UPDATE instances SET scheduled_datetime = ? WHERE id = ?`,
			ptrArg(patch.ScheduledDatetime.Value), id); err != nil {
			return dto.InstanceDTO{}, fmt.Errorf("update scheduled_datetime: %w", err)
		}
	}
	return s.GetInstance(id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (dto.TaskDTO, error) {
	var task dto.TaskDTO
	err := row.Scan(&task.ID, &task.ParentID, &task.DomainID, &task.Title,
		&task.ScheduledDate, &task.ScheduledTime, &task.DurationMinutes,
		&task.Impact, &task.Clarity, &task.IsRecurring, &task.Status)
	if err == sql.ErrNoRows {
		return dto.TaskDTO{}, err
	}
	if err != nil {
		return dto.TaskDTO{}, fmt.Errorf("scan task: %w", err)
	}
	return task, nil
}

// ptrArg maps a nil pointer to SQL NULL.
func ptrArg[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
