package application

import (
	"context"
	"strings"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cache"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// PickingConfig controls scan handling
type PickingConfig struct {
	// ScanSimulation fabricates matching scans when a pick carries none
	ScanSimulation bool
}

// PickingApplicationService handles picking use cases
type PickingApplicationService struct {
	repo         domain.PickTaskRepository
	orders       domain.OrderRepository
	cache        *cache.QueryCache
	orchestrator PickingOrchestrator
	config       PickingConfig
	logger       *logging.Logger
	metrics      *metrics.Metrics
}

// NewPickingApplicationService creates a new PickingApplicationService.
// cache, orchestrator and m may be nil.
func NewPickingApplicationService(
	repo domain.PickTaskRepository,
	orders domain.OrderRepository,
	queryCache *cache.QueryCache,
	orchestrator PickingOrchestrator,
	config PickingConfig,
	logger *logging.Logger,
	m *metrics.Metrics,
) *PickingApplicationService {
	return &PickingApplicationService{
		repo:         repo,
		orders:       orders,
		cache:        queryCache,
		orchestrator: orchestrator,
		config:       config,
		logger:       logger.WithComponent("picking"),
		metrics:      m,
	}
}

// ListPickTasks returns the pick tasks matching the filter
func (s *PickingApplicationService) ListPickTasks(ctx context.Context, filter domain.TaskFilter) ([]PickTaskDTO, error) {
	var dtos []PickTaskDTO
	if s.cache.GetList(ctx, ResourcePickTasks, filter.Key(), &dtos) {
		return dtos, nil
	}

	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list pick tasks")
		return nil, toAppError("pick task", err)
	}

	matched := domain.FilterPickTasks(tasks, filter)
	dtos = make([]PickTaskDTO, 0, len(matched))
	for _, task := range matched {
		dtos = append(dtos, *ToPickTaskDTO(task))
	}

	s.cache.SetList(ctx, ResourcePickTasks, filter.Key(), dtos)
	return dtos, nil
}

// GetPickTask retrieves a pick task by ID
func (s *PickingApplicationService) GetPickTask(ctx context.Context, taskID string) (*PickTaskDTO, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, toAppError("pick task", err)
	}
	return ToPickTaskDTO(task), nil
}

// ListPickTaskItems returns the items of one task, or of every task when
// taskID is empty
func (s *PickingApplicationService) ListPickTaskItems(ctx context.Context, taskID string) ([]PickTaskItemDTO, error) {
	var dtos []PickTaskItemDTO
	if s.cache.GetList(ctx, ResourcePickTaskItems, taskID, &dtos) {
		return dtos, nil
	}

	var tasks []*domain.PickTask
	if taskID != "" {
		task, err := s.repo.FindByID(ctx, taskID)
		if err != nil {
			return nil, toAppError("pick task", err)
		}
		tasks = []*domain.PickTask{task}
	} else {
		all, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, toAppError("pick task", err)
		}
		tasks = all
	}

	dtos = make([]PickTaskItemDTO, 0)
	for _, task := range tasks {
		for _, item := range task.Items {
			dtos = append(dtos, ToPickTaskItemDTO(item))
		}
	}

	s.cache.SetList(ctx, ResourcePickTaskItems, taskID, dtos)
	return dtos, nil
}

// CreatePickTask creates a new pick task
func (s *PickingApplicationService) CreatePickTask(ctx context.Context, cmd CreatePickTaskCommand) (*PickTaskDTO, error) {
	items := make([]domain.PickTaskItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, domain.PickTaskItem{
			OrderItemID:  in.OrderItemID,
			SKU:          in.SKU,
			ProductName:  in.ProductName,
			Quantity:     in.Quantity,
			LocationID:   in.LocationID,
			LocationName: in.LocationName,
		})
	}

	task, err := domain.NewPickTask("", cmd.CustomerOrderID, domain.TaskPriority(cmd.Priority), cmd.DueDate, items)
	if err != nil {
		return nil, toAppError("pick task", err)
	}
	task.BatchID = cmd.BatchID

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to create pick task", "customerOrderId", cmd.CustomerOrderID)
		return nil, toAppError("pick task", err)
	}

	s.afterMutation(ctx, task, "created")
	return ToPickTaskDTO(task), nil
}

// CreatePickTaskForOrder builds a pick task from the lines of an order. An
// open task that already exists for the order is returned unchanged.
func (s *PickingApplicationService) CreatePickTaskForOrder(ctx context.Context, orderID string) (*PickTaskDTO, error) {
	existing, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, toAppError("pick task", err)
	}
	for _, task := range existing {
		if task.Status != domain.PickTaskStatusCancelled {
			return ToPickTaskDTO(task), nil
		}
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, toAppError("order", err)
	}

	items := make([]domain.PickTaskItem, 0, len(order.Items))
	for _, line := range order.Items {
		location := line.LocationID
		if location == "" {
			location = "UNASSIGNED"
		}
		items = append(items, domain.PickTaskItem{
			OrderItemID:  line.ID,
			SKU:          line.SKU,
			ProductName:  line.ProductName,
			Quantity:     line.Quantity,
			LocationID:   location,
			LocationName: location,
		})
	}

	priority := order.Priority.TaskPriority()
	task, err := domain.NewPickTask("", order.ID, priority, time.Now().UTC().Add(pickWindow(priority)), items)
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to create pick task for order", "orderId", orderID)
		return nil, toAppError("pick task", err)
	}

	s.afterMutation(ctx, task, "created")
	return ToPickTaskDTO(task), nil
}

func pickWindow(p domain.TaskPriority) time.Duration {
	switch p {
	case domain.TaskPriorityUrgent:
		return 2 * time.Hour
	case domain.TaskPriorityHigh:
		return 8 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// UpdatePickTaskStatus starts, completes or cancels a pick task
func (s *PickingApplicationService) UpdatePickTaskStatus(ctx context.Context, cmd UpdatePickTaskStatusCommand) (*PickTaskDTO, error) {
	task, err := s.repo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	switch domain.PickTaskStatus(cmd.Status) {
	case domain.PickTaskStatusInProgress:
		assignee := cmd.AssignedTo
		if assignee == "" {
			assignee = cmd.Actor
		}
		err = task.Start(assignee)
	case domain.PickTaskStatusCompleted:
		err = task.Complete()
	case domain.PickTaskStatusCancelled:
		err = task.Cancel()
	default:
		return nil, errors.ErrValidation("status must be one of in_progress, completed, cancelled").
			WithDetail("status", cmd.Status)
	}
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save pick task", "taskId", cmd.TaskID)
		return nil, toAppError("pick task", err)
	}

	s.afterMutation(ctx, task, string(task.Status))
	s.notifyWorkflow(ctx, task)
	return ToPickTaskDTO(task), nil
}

// CompletePickItem picks an item after scan verification, or marks it
// unavailable when the picked quantity is zero
func (s *PickingApplicationService) CompletePickItem(ctx context.Context, cmd CompletePickItemCommand) (*PickTaskItemDTO, error) {
	if cmd.PickedQuantity == 0 {
		return s.MarkItemUnavailable(ctx, MarkItemUnavailableCommand{ItemID: cmd.ItemID, Notes: cmd.Notes})
	}

	task, err := s.repo.FindByItemID(ctx, cmd.ItemID)
	if err != nil {
		return nil, toAppError("pick task item", err)
	}
	current, err := task.Item(cmd.ItemID)
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	if cmd.LocationID != "" && !strings.EqualFold(cmd.LocationID, current.LocationID) {
		s.recordScanMismatch("location")
		return nil, toAppError("pick task", domain.ErrScanMismatch)
	}

	verification, err := s.verification(*current, cmd.ItemCode, cmd.LocationCode, false)
	if err != nil {
		return nil, toAppError("pick task", err)
	}
	if !verification.Verified {
		s.recordVerificationMismatch(verification)
	}

	item, err := task.PickItem(cmd.ItemID, cmd.PickedQuantity, verification, cmd.Notes)
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save picked item", "itemId", cmd.ItemID)
		return nil, toAppError("pick task", err)
	}

	if s.metrics != nil {
		s.metrics.RecordItemPicked(item.Partial)
	}
	s.cache.Invalidate(ctx, ResourcePickTasks, ResourcePickTaskItems)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "pick.item.picked",
		EntityType: "pickTaskItem",
		EntityID:   item.ID,
		Action:     "picked",
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"pickTaskId": task.ID, "sku": item.SKU},
		Data:       map[string]any{"pickedQuantity": cmd.PickedQuantity, "partial": item.Partial},
	})

	dto := ToPickTaskItemDTO(*item)
	return &dto, nil
}

// MarkItemUnavailable records that a pick item could not be found
func (s *PickingApplicationService) MarkItemUnavailable(ctx context.Context, cmd MarkItemUnavailableCommand) (*PickTaskItemDTO, error) {
	task, err := s.repo.FindByItemID(ctx, cmd.ItemID)
	if err != nil {
		return nil, toAppError("pick task item", err)
	}

	item, err := task.MarkItemUnavailable(cmd.ItemID, cmd.Notes)
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save unavailable item", "itemId", cmd.ItemID)
		return nil, toAppError("pick task", err)
	}

	if s.metrics != nil {
		s.metrics.RecordItemUnavailable()
	}
	s.cache.Invalidate(ctx, ResourcePickTasks, ResourcePickTaskItems)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "pick.item.unavailable",
		EntityType: "pickTaskItem",
		EntityID:   item.ID,
		Action:     "unavailable",
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"pickTaskId": task.ID, "sku": item.SKU},
	})

	dto := ToPickTaskItemDTO(*item)
	return &dto, nil
}

// VerifyScan checks scans against an item without changing it
func (s *PickingApplicationService) VerifyScan(ctx context.Context, cmd VerifyScanCommand) (*ScanVerificationDTO, error) {
	task, err := s.repo.FindByItemID(ctx, cmd.ItemID)
	if err != nil {
		return nil, toAppError("pick task item", err)
	}
	item, err := task.Item(cmd.ItemID)
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	verification, err := s.verification(*item, cmd.ItemCode, cmd.LocationCode, cmd.Simulate)
	if err != nil {
		return nil, toAppError("pick task", err)
	}
	if !verification.Verified {
		s.recordVerificationMismatch(verification)
	}

	simulated := cmd.Simulate || (cmd.ItemCode == "" && cmd.LocationCode == "")
	return ToScanVerificationDTO(item.ID, verification, simulated), nil
}

// verification uses real scans when any code is supplied and falls back to
// simulation when it is enabled
func (s *PickingApplicationService) verification(item domain.PickTaskItem, itemCode, locationCode string, simulate bool) (domain.ScanVerification, error) {
	hasScans := strings.TrimSpace(itemCode) != "" || strings.TrimSpace(locationCode) != ""
	if hasScans && !simulate {
		return domain.VerifyScans(item, itemCode, locationCode), nil
	}
	if !s.config.ScanSimulation {
		return domain.ScanVerification{}, domain.ErrScanRequired
	}
	return domain.SimulateScans(item), nil
}

func (s *PickingApplicationService) recordVerificationMismatch(v domain.ScanVerification) {
	if !v.ItemScan.MatchesExpected {
		s.recordScanMismatch("item")
	}
	if !v.LocationScan.MatchesExpected {
		s.recordScanMismatch("location")
	}
}

func (s *PickingApplicationService) recordScanMismatch(scan string) {
	if s.metrics != nil {
		s.metrics.RecordScanMismatch(scan)
	}
}

func (s *PickingApplicationService) afterMutation(ctx context.Context, task *domain.PickTask, action string) {
	if s.metrics != nil {
		s.metrics.RecordPickTaskTransition(string(task.Status))
	}
	s.cache.Invalidate(ctx, ResourcePickTasks, ResourcePickTaskItems)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "pick.task." + action,
		EntityType: "pickTask",
		EntityID:   task.ID,
		Action:     action,
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"customerOrderId": task.CustomerOrderID},
		Data:       map[string]any{"status": string(task.Status), "assignedTo": task.AssignedTo},
	})
}

// notifyWorkflow signals the order's picking workflow; failures are logged
func (s *PickingApplicationService) notifyWorkflow(ctx context.Context, task *domain.PickTask) {
	if s.orchestrator == nil {
		return
	}

	var err error
	switch task.Status {
	case domain.PickTaskStatusCompleted:
		err = s.orchestrator.PickTaskCompleted(ctx, task.CustomerOrderID, task.ID)
	case domain.PickTaskStatusCancelled:
		err = s.orchestrator.PickTaskCancelled(ctx, task.CustomerOrderID, task.ID)
	default:
		return
	}
	if err != nil {
		s.logger.WithError(err).Warn("Failed to signal picking workflow",
			"pickTaskId", task.ID, "customerOrderId", task.CustomerOrderID)
	}
}
