package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	wmstemporal "github.com/wms-platform/warehouse-ops/pkg/temporal"
)

// Activity names registered by the worker
const (
	ActivityCreatePickTaskForOrder     = "CreatePickTaskForOrder"
	ActivityCreatePackTaskFromPickTask = "CreatePackTaskFromPickTask"
)

// PickTaskTimeout bounds how long the workflow waits for the pick task to
// finish
const PickTaskTimeout = 8 * time.Hour

// PickingWorkflowInput represents the input for the picking workflow
type PickingWorkflowInput struct {
	OrderID string `json:"orderId"`
}

// PickTaskSignal is the payload of the completion and cancellation signals
type PickTaskSignal struct {
	PickTaskID string `json:"pickTaskId"`
}

// PickingWorkflowResult represents the result of the picking workflow
type PickingWorkflowResult struct {
	PickTaskID string `json:"pickTaskId"`
	PackTaskID string `json:"packTaskId,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

type pickOutcome int

const (
	outcomeWaiting pickOutcome = iota
	outcomeCompleted
	outcomeCancelled
	outcomeTimedOut
)

// PickingWorkflow creates the pick task of an order, waits for it to be
// completed or cancelled and hands completed picks over to packing
func PickingWorkflow(ctx workflow.Context, input PickingWorkflowInput) (*PickingWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting picking workflow", "orderId", input.OrderID)

	result := &PickingWorkflowResult{}

	ao := workflow.ActivityOptions{
		ScheduleToCloseTimeout: 10 * time.Minute,
		StartToCloseTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Step 1: Create pick task
	var pickTaskID string
	err := workflow.ExecuteActivity(ctx, ActivityCreatePickTaskForOrder, input.OrderID).Get(ctx, &pickTaskID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create pick task: %v", err)
		return result, err
	}
	result.PickTaskID = pickTaskID
	logger.Info("Waiting for pick task", "pickTaskId", pickTaskID)

	// Step 2: Wait for the pick task to finish
	completed := workflow.GetSignalChannel(ctx, wmstemporal.SignalPickTaskCompleted)
	cancelled := workflow.GetSignalChannel(ctx, wmstemporal.SignalPickTaskCancelled)

	waitCtx, cancelWait := workflow.WithCancel(ctx)
	defer cancelWait()

	outcome := outcomeWaiting
	receive := func(next pickOutcome) func(workflow.ReceiveChannel, bool) {
		return func(c workflow.ReceiveChannel, more bool) {
			var signal PickTaskSignal
			c.Receive(waitCtx, &signal)
			if signal.PickTaskID != "" && signal.PickTaskID != pickTaskID {
				logger.Warn("Ignoring signal for another pick task", "pickTaskId", signal.PickTaskID)
				return
			}
			outcome = next
		}
	}

	selector := workflow.NewSelector(waitCtx)
	selector.AddReceive(completed, receive(outcomeCompleted))
	selector.AddReceive(cancelled, receive(outcomeCancelled))
	selector.AddFuture(workflow.NewTimer(waitCtx, PickTaskTimeout), func(f workflow.Future) {
		outcome = outcomeTimedOut
	})

	for outcome == outcomeWaiting {
		selector.Select(waitCtx)
	}
	cancelWait()

	switch outcome {
	case outcomeCancelled:
		logger.Info("Pick task cancelled", "pickTaskId", pickTaskID)
		result.Error = "pick task cancelled"
		return result, nil
	case outcomeTimedOut:
		logger.Warn("Pick task timeout", "pickTaskId", pickTaskID)
		result.Error = "pick task not finished in time"
		return result, fmt.Errorf("pick task %s not finished within %s", pickTaskID, PickTaskTimeout)
	}

	// Step 3: Hand over to packing
	var packTaskID string
	err = workflow.ExecuteActivity(ctx, ActivityCreatePackTaskFromPickTask, pickTaskID).Get(ctx, &packTaskID)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create pack task: %v", err)
		return result, err
	}
	result.PackTaskID = packTaskID
	result.Success = true

	logger.Info("Picking workflow completed",
		"orderId", input.OrderID,
		"pickTaskId", pickTaskID,
		"packTaskId", packTaskID,
	)

	return result, nil
}
