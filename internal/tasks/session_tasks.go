package tasks

import (
	"context"
	"fmt"
	"time"

	"shuttleclub/internal/models"
)

// GenerateSessionsArgs defines the arguments for the monthly generation
// task. Year/Month of zero mean "the month after the task's due date".
type GenerateSessionsArgs struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// GenerateSessionsTaskDef creates next month's sessions from the club
// schedule rule and auto-enrolls core members into each one.
type GenerateSessionsTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *GenerateSessionsTaskDef) TaskID() string {
	return "generate_sessions"
}

// CreateTask builds a recurring monthly generation task
func (t *GenerateSessionsTaskDef) CreateTask(firstDue time.Time) (*models.ScheduledTask, error) {
	interval := "FREQ=MONTHLY"
	return BuildScheduledTask(t.TaskID(), GenerateSessionsArgs{}, firstDue, &interval, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution generates the sessions for the target month
func (t *GenerateSessionsTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	var args GenerateSessionsArgs
	if err := parseArgs(task.Arguments, &args); err != nil {
		return nil, err
	}

	year, month := args.Year, time.Month(args.Month)
	if args.Year == 0 || args.Month == 0 {
		next := task.Due.AddDate(0, 1, 0)
		year, month = next.Year(), next.Month()
	}

	created, err := deps.Schedule.GenerateMonth(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sessions for %d-%02d: %w", year, month, err)
	}

	return map[string]interface{}{
		"status":  "success",
		"year":    year,
		"month":   int(month),
		"created": created,
	}, nil
}

// GenerateSessionsTask is the singleton instance of GenerateSessionsTaskDef
var GenerateSessionsTask = &GenerateSessionsTaskDef{}
