package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"shuttleclub/internal/models"
)

// Poll cadence for unresolved gateway orders.
const (
	pollInterval    = 5 * time.Minute
	pollMaxAttempts = 12
)

// PollPaymentArgs defines the arguments for a payment polling task
type PollPaymentArgs struct {
	OrderID string `json:"order_id"`
	Attempt int    `json:"attempt"`
}

// PollPaymentTaskDef checks a gateway order at a fixed interval until it
// resolves or the attempt budget runs out. Each unresolved check
// re-enqueues a one-time follow-up task; there is no push channel from
// the gateway side beyond the optional webhook.
type PollPaymentTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *PollPaymentTaskDef) TaskID() string {
	return "poll_payment_session"
}

// CreateTask builds the first polling task for an order
func (t *PollPaymentTaskDef) CreateTask(orderID string) (*models.ScheduledTask, error) {
	args := PollPaymentArgs{OrderID: orderID, Attempt: 1}
	return BuildScheduledTask(t.TaskID(), args, time.Now().Add(pollInterval), nil, models.ScheduledTaskTypeOneTime, 1)
}

// HandleExecution polls the order once and re-enqueues itself while the
// order is unresolved and attempts remain
func (t *PollPaymentTaskDef) HandleExecution(ctx context.Context, deps *Deps, task models.ScheduledTask) (map[string]interface{}, error) {
	var args PollPaymentArgs
	if err := parseArgs(task.Arguments, &args); err != nil {
		return nil, err
	}
	if args.OrderID == "" {
		return nil, fmt.Errorf("order_id not provided")
	}

	resolved, err := deps.Payment.PollOrder(ctx, args.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to poll order %s: %w", args.OrderID, err)
	}

	if resolved {
		return map[string]interface{}{
			"status":   "success",
			"order_id": args.OrderID,
			"resolved": true,
			"attempt":  args.Attempt,
		}, nil
	}

	if args.Attempt >= pollMaxAttempts {
		log.Printf("Order %s still unresolved after %d polls, giving up", args.OrderID, args.Attempt)
		return map[string]interface{}{
			"status":   "success",
			"order_id": args.OrderID,
			"resolved": false,
			"attempt":  args.Attempt,
		}, nil
	}

	next, err := BuildScheduledTask(t.TaskID(),
		PollPaymentArgs{OrderID: args.OrderID, Attempt: args.Attempt + 1},
		time.Now().Add(pollInterval), nil, models.ScheduledTaskTypeOneTime, 1)
	if err != nil {
		return nil, err
	}
	if err := deps.DB.WithContext(ctx).Create(next).Error; err != nil {
		return nil, fmt.Errorf("failed to re-enqueue poll task: %w", err)
	}

	return map[string]interface{}{
		"status":      "success",
		"order_id":    args.OrderID,
		"resolved":    false,
		"attempt":     args.Attempt,
		"rescheduled": true,
	}, nil
}

// PollPaymentTask is the singleton instance of PollPaymentTaskDef
var PollPaymentTask = &PollPaymentTaskDef{}
