package tasks

import (
	"context"
	"fmt"
	"time"

	"shuttleclub/internal/models"
)

// SendEmailArgs defines the arguments for a notification email task
type SendEmailArgs struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// SendEmailTaskDef delivers a notification email, e.g. after an admin
// decides a payment request.
type SendEmailTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendEmailTaskDef) TaskID() string {
	return "send_email"
}

// CreateTask builds a ScheduledTask record for this task
func (t *SendEmailTaskDef) CreateTask(args SendEmailArgs) (*models.ScheduledTask, error) {
	return BuildScheduledTask(t.TaskID(), args, time.Now(), nil, models.ScheduledTaskTypeOneTime, 3)
}

// HandleExecution sends the email
func (t *SendEmailTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	var args SendEmailArgs
	if err := parseArgs(task.Arguments, &args); err != nil {
		return nil, err
	}
	if len(args.To) == 0 {
		return nil, fmt.Errorf("no recipients provided")
	}

	if err := deps.Email.SendEmail(args.To, args.Subject, args.Body); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status":     "success",
		"recipients": len(args.To),
	}, nil
}

// SendEmailTask is the singleton instance of SendEmailTaskDef
var SendEmailTask = &SendEmailTaskDef{}
