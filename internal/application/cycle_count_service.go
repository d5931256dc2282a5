package application

import (
	"context"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cache"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// CycleCountApplicationService handles inventory count use cases
type CycleCountApplicationService struct {
	repo    domain.CycleCountRepository
	cache   *cache.QueryCache
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewCycleCountApplicationService creates a new CycleCountApplicationService
func NewCycleCountApplicationService(
	repo domain.CycleCountRepository,
	queryCache *cache.QueryCache,
	logger *logging.Logger,
	m *metrics.Metrics,
) *CycleCountApplicationService {
	return &CycleCountApplicationService{
		repo:    repo,
		cache:   queryCache,
		logger:  logger.WithComponent("cycle-counts"),
		metrics: m,
	}
}

// ListCycleCounts returns the cycle counts with the given status
func (s *CycleCountApplicationService) ListCycleCounts(ctx context.Context, status string) ([]CycleCountTaskDTO, error) {
	key := status
	if key == "" {
		key = "all"
	}

	var dtos []CycleCountTaskDTO
	if s.cache.GetList(ctx, ResourceCycleCounts, key, &dtos) {
		return dtos, nil
	}

	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list cycle counts")
		return nil, toAppError("cycle count", err)
	}

	matched := domain.FilterCycleCounts(tasks, status)
	dtos = make([]CycleCountTaskDTO, 0, len(matched))
	for _, task := range matched {
		dtos = append(dtos, *ToCycleCountTaskDTO(task))
	}

	s.cache.SetList(ctx, ResourceCycleCounts, key, dtos)
	return dtos, nil
}

// GetCycleCount retrieves a cycle count by ID
func (s *CycleCountApplicationService) GetCycleCount(ctx context.Context, taskID string) (*CycleCountTaskDTO, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, toAppError("cycle count", err)
	}
	return ToCycleCountTaskDTO(task), nil
}

// ListCycleCountItems returns the items of a cycle count
func (s *CycleCountApplicationService) ListCycleCountItems(ctx context.Context, taskID string) ([]CycleCountItemDTO, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, toAppError("cycle count", err)
	}
	return ToCycleCountTaskDTO(task).Items, nil
}

// CreateCycleCount schedules a new cycle count
func (s *CycleCountApplicationService) CreateCycleCount(ctx context.Context, cmd CreateCycleCountCommand) (*CycleCountTaskDTO, error) {
	items := make([]domain.CycleCountItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, domain.CycleCountItem{
			LocationID:       in.LocationID,
			SKU:              in.SKU,
			ProductName:      in.ProductName,
			ExpectedQuantity: in.ExpectedQuantity,
		})
	}

	task, err := domain.NewCycleCountTask(cmd.Name, domain.CountingMethod(cmd.CountingMethod), cmd.ScheduledDate, items, cmd.Notes)
	if err != nil {
		return nil, toAppError("cycle count", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to create cycle count", "name", cmd.Name)
		return nil, toAppError("cycle count", err)
	}

	s.afterMutation(ctx, task, "created", nil)
	return ToCycleCountTaskDTO(task), nil
}

// UpdateCycleCountStatus starts, completes or cancels a cycle count
func (s *CycleCountApplicationService) UpdateCycleCountStatus(ctx context.Context, cmd UpdateCycleCountStatusCommand) (*CycleCountTaskDTO, error) {
	task, err := s.repo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, toAppError("cycle count", err)
	}

	switch domain.CycleCountStatus(cmd.Status) {
	case domain.CycleCountStatusInProgress:
		assignee := cmd.AssignedTo
		if assignee == "" {
			assignee = cmd.Actor
		}
		err = task.Start(assignee)
	case domain.CycleCountStatusCompleted:
		err = task.Complete()
	case domain.CycleCountStatusCancelled:
		err = task.Cancel()
	default:
		return nil, errors.ErrValidation("status must be one of in_progress, completed, cancelled").
			WithDetail("status", cmd.Status)
	}
	if err != nil {
		return nil, toAppError("cycle count", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save cycle count", "taskId", cmd.TaskID)
		return nil, toAppError("cycle count", err)
	}

	if s.metrics != nil && task.Status == domain.CycleCountStatusCompleted {
		s.metrics.RecordCycleCount("completed")
	}
	s.afterMutation(ctx, task, string(task.Status), nil)
	return ToCycleCountTaskDTO(task), nil
}

// RecordCount records the counted quantity of one item
func (s *CycleCountApplicationService) RecordCount(ctx context.Context, cmd RecordCountCommand) (*CycleCountItemDTO, error) {
	if cmd.ActualQuantity < 0 {
		return nil, errors.ErrValidation("actualQuantity must not be negative")
	}

	task, err := s.repo.FindByItemID(ctx, cmd.ItemID)
	if err != nil {
		return nil, toAppError("cycle count item", err)
	}

	item, err := task.RecordCount(cmd.ItemID, cmd.ActualQuantity, cmd.CountedBy, cmd.Notes)
	if err != nil {
		return nil, toAppError("cycle count", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save count", "itemId", cmd.ItemID)
		return nil, toAppError("cycle count", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCycleCount(string(item.Status))
	}
	s.afterMutation(ctx, task, "counted", map[string]any{
		"itemId":      item.ID,
		"sku":         item.SKU,
		"discrepancy": *item.Discrepancy,
		"itemStatus":  string(item.Status),
	})

	dto := ToCycleCountItemDTO(*item)
	return &dto, nil
}

// ApplyAdjustments approves the discrepancies of a completed count
func (s *CycleCountApplicationService) ApplyAdjustments(ctx context.Context, cmd ApplyAdjustmentsCommand) ([]CycleCountItemDTO, error) {
	task, err := s.repo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, toAppError("cycle count", err)
	}

	adjusted, err := task.ApplyAdjustments(cmd.ApprovedBy, cmd.Reason)
	if err != nil {
		return nil, toAppError("cycle count", err)
	}

	dtos := make([]CycleCountItemDTO, 0, len(adjusted))
	for _, item := range adjusted {
		dtos = append(dtos, ToCycleCountItemDTO(item))
	}
	if len(adjusted) == 0 {
		return dtos, nil
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save adjustments", "taskId", cmd.TaskID)
		return nil, toAppError("cycle count", err)
	}

	if s.metrics != nil {
		s.metrics.RecordCycleCount("adjusted")
	}
	s.afterMutation(ctx, task, "adjusted", map[string]any{"adjustedItems": len(adjusted)})
	return dtos, nil
}

func (s *CycleCountApplicationService) afterMutation(ctx context.Context, task *domain.CycleCountTask, action string, data map[string]any) {
	s.cache.Invalidate(ctx, ResourceCycleCounts)
	if data == nil {
		data = map[string]any{}
	}
	data["status"] = string(task.Status)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "inventory.cycle-count." + action,
		EntityType: "cycleCountTask",
		EntityID:   task.ID,
		Action:     action,
		UserID:     logging.UserIDFromContext(ctx),
		Data:       data,
	})
}
