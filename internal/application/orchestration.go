package application

import "context"

// Cache resources invalidated after mutations
const (
	ResourcePickTasks     = "pick-tasks"
	ResourcePickTaskItems = "pick-task-items"
	ResourcePackTasks     = "pack-tasks"
	ResourceOrders        = "orders"
	ResourceReturns       = "return-requests"
	ResourceCycleCounts   = "cycle-counts"
)

// PickingOrchestrator starts and signals the per-order picking workflow.
// A nil orchestrator means workflows are disabled.
type PickingOrchestrator interface {
	StartPicking(ctx context.Context, orderID string) error
	PickTaskCompleted(ctx context.Context, orderID, pickTaskID string) error
	PickTaskCancelled(ctx context.Context, orderID, pickTaskID string) error
}
