package backend

import (
	"fmt"
	"time"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
)

// Seed inserts a small set of sample tasks into an empty database so
// the TUI has something to drag around. It is a no-op when tasks
// already exist.
func Seed(s *Storage) error {
	existing, err := s.ListTasks()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	today := time.Now().Format(entity.DateLayout)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(entity.DateLayout)

	domain := int64(1)
	samples := []dto.TaskDTO{
		{Title: "Write release notes", DomainID: &domain, Impact: 3, Clarity: "clear", Status: "pending"},
		{Title: "Review deployment checklist", DomainID: &domain, Impact: 2, Clarity: "clear", Status: "pending",
			ScheduledDate: &today, ScheduledTime: strPtr("10:00:00"), DurationMinutes: intPtr(60)},
		{Title: "Plan next sprint", DomainID: &domain, Impact: 3, Clarity: "vague", Status: "pending",
			ScheduledDate: &tomorrow},
		{Title: "Daily standup", DomainID: &domain, Impact: 1, Clarity: "clear", Status: "pending", IsRecurring: true},
		{Title: "Inbox triage", Impact: 1, Clarity: "clear", Status: "pending"},
	}

	created := make([]dto.TaskDTO, 0, len(samples))
	for _, t := range samples {
		st, err := s.CreateTask(t)
		if err != nil {
			return fmt.Errorf("seed task %q: %w", t.Title, err)
		}
		created = append(created, st)
	}

	// Subtasks under the first sample.
	parent := created[0].ID
	subs := []dto.TaskDTO{
		{Title: "Collect changelog entries", ParentID: &parent, DomainID: &domain, Impact: 2, Clarity: "clear", Status: "pending"},
		{Title: "Draft highlights section", ParentID: &parent, DomainID: &domain, Impact: 2, Clarity: "clear", Status: "pending",
			ScheduledDate: &today, ScheduledTime: strPtr("14:00:00"), DurationMinutes: intPtr(30)},
	}
	for _, t := range subs {
		if _, err := s.CreateTask(t); err != nil {
			return fmt.Errorf("seed subtask %q: %w", t.Title, err)
		}
	}

	// One instance of the recurring sample.
	recurring := created[3].ID
	datetime := fmt.Sprintf("%sT09:00:00", today)
	_, err = s.CreateInstance(dto.InstanceDTO{
		TaskID:            recurring,
		ScheduledDatetime: &datetime,
		DurationMinutes:   intPtr(15),
	})
	if err != nil {
		return fmt.Errorf("seed instance: %w", err)
	}

	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
