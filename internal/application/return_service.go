package application

import (
	"context"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cache"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// ReturnApplicationService handles return request use cases
type ReturnApplicationService struct {
	repo    domain.ReturnRequestRepository
	orders  domain.OrderRepository
	tx      domain.Transactor
	cache   *cache.QueryCache
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// NewReturnApplicationService creates a new ReturnApplicationService
func NewReturnApplicationService(
	repo domain.ReturnRequestRepository,
	orders domain.OrderRepository,
	tx domain.Transactor,
	queryCache *cache.QueryCache,
	logger *logging.Logger,
	m *metrics.Metrics,
) *ReturnApplicationService {
	return &ReturnApplicationService{
		repo:    repo,
		orders:  orders,
		tx:      tx,
		cache:   queryCache,
		logger:  logger.WithComponent("returns"),
		metrics: m,
	}
}

// ListReturns returns the return requests matching the filter
func (s *ReturnApplicationService) ListReturns(ctx context.Context, filter domain.ReturnFilter) ([]ReturnRequestDTO, error) {
	var dtos []ReturnRequestDTO
	if s.cache.GetList(ctx, ResourceReturns, filter.Key(), &dtos) {
		return dtos, nil
	}

	returns, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list return requests")
		return nil, toAppError("return request", err)
	}

	matched := domain.FilterReturns(returns, filter)
	dtos = make([]ReturnRequestDTO, 0, len(matched))
	for _, ret := range matched {
		dtos = append(dtos, *ToReturnRequestDTO(ret))
	}

	s.cache.SetList(ctx, ResourceReturns, filter.Key(), dtos)
	return dtos, nil
}

// GetReturn retrieves a return request by ID
func (s *ReturnApplicationService) GetReturn(ctx context.Context, returnID string) (*ReturnRequestDTO, error) {
	ret, err := s.repo.FindByID(ctx, returnID)
	if err != nil {
		return nil, toAppError("return request", err)
	}
	return ToReturnRequestDTO(ret), nil
}

// CreateReturn requests a return for a shipped or delivered order
func (s *ReturnApplicationService) CreateReturn(ctx context.Context, cmd CreateReturnCommand) (*ReturnRequestDTO, error) {
	order, err := s.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, toAppError("order", err)
	}

	prior, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, toAppError("return request", err)
	}

	lines := make([]domain.ReturnLine, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		lines = append(lines, domain.ReturnLine{
			OrderItemID: in.OrderItemID,
			Quantity:    in.Quantity,
			Condition:   in.Condition,
		})
	}

	ret, err := domain.NewReturnRequest(
		order,
		cmd.Reason,
		domain.ReturnMethod(cmd.ReturnMethod),
		domain.ResolutionType(cmd.ResolutionType),
		lines,
		cmd.Notes,
		prior...,
	)
	if err != nil {
		return nil, toAppError("order", err)
	}

	if err := s.repo.Save(ctx, ret); err != nil {
		s.logger.WithError(err).Error("Failed to create return request", "orderId", cmd.OrderID)
		return nil, toAppError("return request", err)
	}

	s.afterMutation(ctx, ret, "requested")
	return ToReturnRequestDTO(ret), nil
}

// UpdateReturnStatus moves a return along its lifecycle. Processing a
// return marks its order returned in the same transaction.
func (s *ReturnApplicationService) UpdateReturnStatus(ctx context.Context, cmd UpdateReturnStatusCommand) (*ReturnRequestDTO, error) {
	var ret *domain.ReturnRequest
	orderChanged := false

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		ret, err = s.repo.FindByID(ctx, cmd.ReturnID)
		if err != nil {
			return err
		}
		if err := ret.TransitionTo(domain.ReturnStatus(cmd.Status), cmd.Notes); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, ret); err != nil {
			return err
		}

		if ret.Status != domain.ReturnStatusProcessed {
			return nil
		}
		order, err := s.orders.FindByID(ctx, ret.OrderID)
		if err != nil {
			return err
		}
		if order.Status == domain.OrderStatusReturned {
			return nil
		}
		if err := order.TransitionTo(domain.OrderStatusReturned); err != nil {
			return err
		}
		orderChanged = true
		return s.orders.Save(ctx, order)
	})
	if err != nil {
		s.logger.WithError(err).Warn("Failed to update return request", "returnId", cmd.ReturnID, "status", cmd.Status)
		return nil, toAppError("return request", err)
	}

	s.afterMutation(ctx, ret, string(ret.Status))
	if orderChanged {
		s.cache.Invalidate(ctx, ResourceOrders)
		if s.metrics != nil {
			s.metrics.RecordOrderTransition(string(domain.OrderStatusReturned))
		}
	}
	return ToReturnRequestDTO(ret), nil
}

func (s *ReturnApplicationService) afterMutation(ctx context.Context, ret *domain.ReturnRequest, action string) {
	if s.metrics != nil {
		s.metrics.RecordReturnTransition(string(ret.Status))
	}
	s.cache.Invalidate(ctx, ResourceReturns)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "return." + action,
		EntityType: "returnRequest",
		EntityID:   ret.ID,
		Action:     action,
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"orderId": ret.OrderID},
		Data:       map[string]any{"status": string(ret.Status), "resolutionType": string(ret.ResolutionType)},
	})
}
