package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tempo/internal/application/dto"
	"tempo/internal/domain/entity"
)

// taskCmd represents the task command group
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks from the command line",
}

// taskListCmd lists tasks grouped by schedule state
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		tasks, err := container.TaskAPI.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		for _, t := range tasks {
			fmt.Printf("%d\t%s\t%s\n", t.ID, t.Title, scheduleLabel(t.ScheduledDate, t.ScheduledTime))
			for _, sub := range t.Subtasks {
				fmt.Printf("%d\t  %s\t%s\n", sub.ID, sub.Title, scheduleLabel(sub.ScheduledDate, sub.ScheduledTime))
			}
		}
		return nil
	},
}

// taskScheduleCmd schedules a task on a date, optionally at a time
var taskScheduleCmd = &cobra.Command{
	Use:   "schedule <task-id> <date> [time]",
	Short: "Schedule a task on a date, optionally at a time (HH:MM)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}
		date := args[1]
		if err := entity.ValidateDate(date); err != nil {
			return err
		}

		patch := dto.TaskPatch{ScheduledDate: dto.Set(date)}
		if len(args) == 3 {
			clock, err := entity.ParseClockTime(args[2] + ":00")
			if err != nil {
				return err
			}
			patch.ScheduledTime = dto.Set(clock.String())
		} else {
			patch.ScheduledTime = dto.Null[string]()
		}

		task, err := container.TaskAPI.UpdateTask(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("failed to schedule task: %w", err)
		}

		if !quiet {
			fmt.Printf("Scheduled %q %s\n", task.Title, scheduleLabel(task.ScheduledDate, task.ScheduledTime))
		}
		return nil
	},
}

// taskUnscheduleCmd clears a task's schedule
var taskUnscheduleCmd = &cobra.Command{
	Use:   "unschedule <task-id>",
	Short: "Remove a task's scheduled date and time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}

		patch := dto.TaskPatch{
			ScheduledDate: dto.Null[string](),
			ScheduledTime: dto.Null[string](),
		}
		task, err := container.TaskAPI.UpdateTask(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("failed to unschedule task: %w", err)
		}

		if !quiet {
			fmt.Printf("Unscheduled %q\n", task.Title)
		}
		return nil
	},
}

// taskPromoteCmd detaches a subtask from its parent
var taskPromoteCmd = &cobra.Command{
	Use:   "promote <task-id>",
	Short: "Promote a subtask to a top-level task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := getContext()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q", args[0])
		}

		patch := dto.TaskPatch{ParentID: dto.Null[int64]()}
		task, err := container.TaskAPI.UpdateTask(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("failed to promote task: %w", err)
		}

		if !quiet {
			fmt.Printf("Promoted %q\n", task.Title)
		}
		return nil
	},
}

// scheduleLabel renders a schedule state for list output
func scheduleLabel(date, clock *string) string {
	switch {
	case date == nil:
		return "unscheduled"
	case clock == nil:
		return fmt.Sprintf("%s (anytime)", *date)
	default:
		return fmt.Sprintf("%s %s", *date, *clock)
	}
}

func init() {
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskScheduleCmd)
	taskCmd.AddCommand(taskUnscheduleCmd)
	taskCmd.AddCommand(taskPromoteCmd)
	rootCmd.AddCommand(taskCmd)
}
