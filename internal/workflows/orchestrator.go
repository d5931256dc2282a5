package workflows

import (
	"context"

	"github.com/wms-platform/warehouse-ops/pkg/temporal"
)

// Orchestrator starts and signals picking workflows through Temporal
type Orchestrator struct {
	client *temporal.Client
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(client *temporal.Client) *Orchestrator {
	return &Orchestrator{client: client}
}

// StartPicking starts the picking workflow of an order
func (o *Orchestrator) StartPicking(ctx context.Context, orderID string) error {
	_, err := o.client.StartWorkflow(
		ctx,
		temporal.PickingWorkflowID(orderID),
		temporal.TaskQueues.Picking,
		temporal.WorkflowNames.Picking,
		PickingWorkflowInput{OrderID: orderID},
	)
	return err
}

// PickTaskCompleted signals that the order's pick task completed
func (o *Orchestrator) PickTaskCompleted(ctx context.Context, orderID, pickTaskID string) error {
	return o.client.SignalWorkflow(ctx, temporal.PickingWorkflowID(orderID),
		temporal.SignalPickTaskCompleted, PickTaskSignal{PickTaskID: pickTaskID})
}

// PickTaskCancelled signals that the order's pick task was cancelled
func (o *Orchestrator) PickTaskCancelled(ctx context.Context, orderID, pickTaskID string) error {
	return o.client.SignalWorkflow(ctx, temporal.PickingWorkflowID(orderID),
		temporal.SignalPickTaskCancelled, PickTaskSignal{PickTaskID: pickTaskID})
}
