package activities

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// PickTaskCreator builds the pick task of an order
type PickTaskCreator interface {
	CreatePickTaskForOrder(ctx context.Context, orderID string) (*application.PickTaskDTO, error)
}

// PackTaskCreator builds the pack task of a completed pick task
type PackTaskCreator interface {
	CreatePackTaskFromPickTask(ctx context.Context, pickTaskID string) (*application.PackTaskDTO, error)
}

// PickingActivities contains activities for the picking workflow. Both
// activities return the existing task when retried.
type PickingActivities struct {
	picking PickTaskCreator
	packing PackTaskCreator
	metrics *metrics.Metrics
}

// NewPickingActivities creates a new PickingActivities instance. m may be nil.
func NewPickingActivities(picking PickTaskCreator, packing PackTaskCreator, m *metrics.Metrics) *PickingActivities {
	return &PickingActivities{
		picking: picking,
		packing: packing,
		metrics: m,
	}
}

// CreatePickTaskForOrder creates the pick task of an order and returns its id
func (a *PickingActivities) CreatePickTaskForOrder(ctx context.Context, orderID string) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating pick task", "orderId", orderID)

	start := time.Now()
	task, err := a.picking.CreatePickTaskForOrder(ctx, orderID)
	a.recordCompletion(ctx, start, err)
	if err != nil {
		logger.Error("Failed to create pick task", "orderId", orderID, "error", err)
		return "", activityError(err)
	}

	logger.Info("Pick task created", "pickTaskId", task.ID, "itemCount", len(task.Items))
	return task.ID, nil
}

// CreatePackTaskFromPickTask creates the pack task for a completed pick task
// and returns its id
func (a *PickingActivities) CreatePackTaskFromPickTask(ctx context.Context, pickTaskID string) (string, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Creating pack task", "pickTaskId", pickTaskID)

	start := time.Now()
	task, err := a.packing.CreatePackTaskFromPickTask(ctx, pickTaskID)
	a.recordCompletion(ctx, start, err)
	if err != nil {
		logger.Error("Failed to create pack task", "pickTaskId", pickTaskID, "error", err)
		return "", activityError(err)
	}

	logger.Info("Pack task created", "packTaskId", task.ID, "itemCount", len(task.Items))
	return task.ID, nil
}

func (a *PickingActivities) recordCompletion(ctx context.Context, start time.Time, err error) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordActivityCompleted(activity.GetInfo(ctx).ActivityType.Name, err == nil, time.Since(start))
}

// activityError stops retries for client errors
func activityError(err error) error {
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.HTTPStatus >= 500 || appErr.Code == errors.CodeConcurrentModification {
		return err
	}
	return temporal.NewNonRetryableApplicationError(appErr.Message, appErr.Code, err)
}
