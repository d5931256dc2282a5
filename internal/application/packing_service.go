package application

import (
	"context"
	stderrors "errors"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cache"
	"github.com/wms-platform/warehouse-ops/pkg/errors"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// PackingApplicationService handles packing use cases
type PackingApplicationService struct {
	repo      domain.PackTaskRepository
	pickTasks domain.PickTaskRepository
	cache     *cache.QueryCache
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewPackingApplicationService creates a new PackingApplicationService
func NewPackingApplicationService(
	repo domain.PackTaskRepository,
	pickTasks domain.PickTaskRepository,
	queryCache *cache.QueryCache,
	logger *logging.Logger,
	m *metrics.Metrics,
) *PackingApplicationService {
	return &PackingApplicationService{
		repo:      repo,
		pickTasks: pickTasks,
		cache:     queryCache,
		logger:    logger.WithComponent("packing"),
		metrics:   m,
	}
}

// ListPackTasks returns the pack tasks matching the filter
func (s *PackingApplicationService) ListPackTasks(ctx context.Context, filter domain.TaskFilter) ([]PackTaskDTO, error) {
	var dtos []PackTaskDTO
	if s.cache.GetList(ctx, ResourcePackTasks, filter.Key(), &dtos) {
		return dtos, nil
	}

	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list pack tasks")
		return nil, toAppError("pack task", err)
	}

	matched := domain.FilterPackTasks(tasks, filter)
	dtos = make([]PackTaskDTO, 0, len(matched))
	for _, task := range matched {
		dtos = append(dtos, *ToPackTaskDTO(task))
	}

	s.cache.SetList(ctx, ResourcePackTasks, filter.Key(), dtos)
	return dtos, nil
}

// GetPackTask retrieves a pack task by ID
func (s *PackingApplicationService) GetPackTask(ctx context.Context, taskID string) (*PackTaskDTO, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, toAppError("pack task", err)
	}
	return ToPackTaskDTO(task), nil
}

// ListPackTaskItems returns the items of a pack task
func (s *PackingApplicationService) ListPackTaskItems(ctx context.Context, taskID string) ([]PackTaskItemDTO, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, toAppError("pack task", err)
	}
	return ToPackTaskDTO(task).Items, nil
}

// ListPackages returns the packages of a pack task
func (s *PackingApplicationService) ListPackages(ctx context.Context, taskID string) ([]PackageDTO, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return nil, toAppError("pack task", err)
	}
	return ToPackTaskDTO(task).Packages, nil
}

// CreatePackTask creates a new pack task
func (s *PackingApplicationService) CreatePackTask(ctx context.Context, cmd CreatePackTaskCommand) (*PackTaskDTO, error) {
	items := make([]domain.PackTaskItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		items = append(items, domain.PackTaskItem{
			SKU:         in.SKU,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
		})
	}

	task, err := domain.NewPackTask("", cmd.CustomerOrderID, cmd.PickTaskID, domain.TaskPriority(cmd.Priority), items)
	if err != nil {
		return nil, toAppError("pack task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to create pack task", "customerOrderId", cmd.CustomerOrderID)
		return nil, toAppError("pack task", err)
	}

	s.afterMutation(ctx, task, "created")
	return ToPackTaskDTO(task), nil
}

// CreatePackTaskFromPickTask builds a pack task from the picked lines of a
// completed pick task. An existing pack task for the pick task is returned
// unchanged.
func (s *PackingApplicationService) CreatePackTaskFromPickTask(ctx context.Context, pickTaskID string) (*PackTaskDTO, error) {
	existing, err := s.repo.FindByPickTaskID(ctx, pickTaskID)
	if err == nil {
		return ToPackTaskDTO(existing), nil
	}
	if !stderrors.Is(err, domain.ErrNotFound) {
		return nil, toAppError("pack task", err)
	}

	pick, err := s.pickTasks.FindByID(ctx, pickTaskID)
	if err != nil {
		return nil, toAppError("pick task", err)
	}

	task, err := domain.NewPackTaskFromPickTask(pick)
	if err != nil {
		return nil, toAppError("pack task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to create pack task from pick task", "pickTaskId", pickTaskID)
		return nil, toAppError("pack task", err)
	}

	s.afterMutation(ctx, task, "created")
	return ToPackTaskDTO(task), nil
}

// UpdatePackTaskStatus starts, completes or cancels a pack task
func (s *PackingApplicationService) UpdatePackTaskStatus(ctx context.Context, cmd UpdatePackTaskStatusCommand) (*PackTaskDTO, error) {
	task, err := s.repo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, toAppError("pack task", err)
	}

	switch domain.PackTaskStatus(cmd.Status) {
	case domain.PackTaskStatusInProgress:
		assignee := cmd.AssignedTo
		if assignee == "" {
			assignee = cmd.Actor
		}
		err = task.Start(assignee)
	case domain.PackTaskStatusCompleted:
		err = task.Complete()
	case domain.PackTaskStatusCancelled:
		err = task.Cancel()
	default:
		return nil, errors.ErrValidation("status must be one of in_progress, completed, cancelled").
			WithDetail("status", cmd.Status)
	}
	if err != nil {
		return nil, toAppError("pack task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save pack task", "taskId", cmd.TaskID)
		return nil, toAppError("pack task", err)
	}

	s.afterMutation(ctx, task, string(task.Status))
	return ToPackTaskDTO(task), nil
}

// CreatePackage adds a package to a pack task
func (s *PackingApplicationService) CreatePackage(ctx context.Context, cmd CreatePackageCommand) (*PackageDTO, error) {
	task, err := s.repo.FindByID(ctx, cmd.PackTaskID)
	if err != nil {
		return nil, toAppError("pack task", err)
	}

	pkg, err := task.AddPackage(domain.PackageSpec{
		PackageType:   domain.PackageType(cmd.PackageType),
		Length:        cmd.Length,
		Width:         cmd.Width,
		Height:        cmd.Height,
		DimensionUnit: cmd.DimensionUnit,
		Weight:        cmd.Weight,
		WeightUnit:    cmd.WeightUnit,
	})
	if err != nil {
		return nil, toAppError("pack task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save package", "packTaskId", cmd.PackTaskID)
		return nil, toAppError("pack task", err)
	}

	if s.metrics != nil {
		s.metrics.RecordPackageCreated(string(pkg.PackageType))
	}
	s.cache.Invalidate(ctx, ResourcePackTasks)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "pack.package.created",
		EntityType: "package",
		EntityID:   pkg.ID,
		Action:     "created",
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"packTaskId": task.ID},
		Data:       map[string]any{"packageType": string(pkg.PackageType), "weight": pkg.Weight},
	})

	dto := ToPackageDTO(*pkg)
	return &dto, nil
}

// PackItem places a pack item into a package
func (s *PackingApplicationService) PackItem(ctx context.Context, cmd PackItemCommand) (*PackTaskItemDTO, error) {
	task, err := s.repo.FindByItemID(ctx, cmd.ItemID)
	if err != nil {
		return nil, toAppError("pack task item", err)
	}

	item, err := task.PackItem(cmd.ItemID, cmd.PackageID, cmd.Quantity)
	if err != nil {
		return nil, toAppError("pack task", err)
	}

	if err := s.repo.Save(ctx, task); err != nil {
		s.logger.WithError(err).Error("Failed to save packed item", "itemId", cmd.ItemID)
		return nil, toAppError("pack task", err)
	}

	s.cache.Invalidate(ctx, ResourcePackTasks)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "pack.item.packed",
		EntityType: "packTaskItem",
		EntityID:   item.ID,
		Action:     "packed",
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"packTaskId": task.ID, "packageId": item.PackageID},
		Data:       map[string]any{"packedQuantity": item.PackedQuantity},
	})

	dto := ToPackTaskItemDTO(*item)
	return &dto, nil
}

func (s *PackingApplicationService) afterMutation(ctx context.Context, task *domain.PackTask, action string) {
	if s.metrics != nil {
		s.metrics.RecordPackTaskTransition(string(task.Status))
	}
	s.cache.Invalidate(ctx, ResourcePackTasks)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "pack.task." + action,
		EntityType: "packTask",
		EntityID:   task.ID,
		Action:     action,
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"customerOrderId": task.CustomerOrderID, "pickTaskId": task.PickTaskID},
		Data:       map[string]any{"status": string(task.Status)},
	})
}
