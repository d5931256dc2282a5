package application

import (
	"context"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cache"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
)

// OrderApplicationService handles order use cases
type OrderApplicationService struct {
	repo         domain.OrderRepository
	cache        *cache.QueryCache
	orchestrator PickingOrchestrator
	logger       *logging.Logger
	metrics      *metrics.Metrics
}

// NewOrderApplicationService creates a new OrderApplicationService
func NewOrderApplicationService(
	repo domain.OrderRepository,
	queryCache *cache.QueryCache,
	orchestrator PickingOrchestrator,
	logger *logging.Logger,
	m *metrics.Metrics,
) *OrderApplicationService {
	return &OrderApplicationService{
		repo:         repo,
		cache:        queryCache,
		orchestrator: orchestrator,
		logger:       logger.WithComponent("orders"),
		metrics:      m,
	}
}

// ListOrders returns the orders matching the filter
func (s *OrderApplicationService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]OrderDTO, error) {
	var dtos []OrderDTO
	if s.cache.GetList(ctx, ResourceOrders, filter.Key(), &dtos) {
		return dtos, nil
	}

	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list orders")
		return nil, toAppError("order", err)
	}

	matched := domain.FilterOrders(orders, filter)
	dtos = make([]OrderDTO, 0, len(matched))
	for _, order := range matched {
		dtos = append(dtos, *ToOrderDTO(order))
	}

	s.cache.SetList(ctx, ResourceOrders, filter.Key(), dtos)
	return dtos, nil
}

// GetOrder retrieves an order by ID
func (s *OrderApplicationService) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, toAppError("order", err)
	}
	return ToOrderDTO(order), nil
}

// ListOrderItems returns the lines of an order
func (s *OrderApplicationService) ListOrderItems(ctx context.Context, orderID string) ([]OrderItemDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, toAppError("order", err)
	}
	return ToOrderDTO(order).Items, nil
}

// CreateOrder creates a pending order
func (s *OrderApplicationService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderDTO, error) {
	order, err := domain.NewOrder(
		cmd.OrderNumber,
		cmd.CustomerName,
		domain.CustomerType(cmd.CustomerType),
		cmd.CustomerLocation,
		domain.OrderPriority(cmd.Priority),
		toOrderItems(cmd.Items),
	)
	if err != nil {
		return nil, toAppError("order", err)
	}
	order.CustomerEmail = cmd.CustomerEmail
	order.Notes = cmd.Notes
	order.ShippingAddress = toAddress(cmd.ShippingAddress)

	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to create order", "orderNumber", cmd.OrderNumber)
		return nil, toAppError("order", err)
	}

	s.afterMutation(ctx, order, "created")
	return ToOrderDTO(order), nil
}

// UpdateOrder applies detail changes, replaces items and transitions the
// status in that order. Entering processing starts the picking workflow.
func (s *OrderApplicationService) UpdateOrder(ctx context.Context, cmd UpdateOrderCommand) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, cmd.OrderID)
	if err != nil {
		return nil, toAppError("order", err)
	}

	details := domain.OrderDetails{
		CustomerName:     cmd.CustomerName,
		CustomerEmail:    cmd.CustomerEmail,
		CustomerLocation: cmd.CustomerLocation,
		Notes:            cmd.Notes,
		ShippingAddress:  toAddress(cmd.ShippingAddress),
	}
	if cmd.Priority != nil {
		p := domain.OrderPriority(*cmd.Priority)
		details.Priority = &p
	}
	if cmd.PaymentStatus != nil {
		ps := domain.PaymentStatus(*cmd.PaymentStatus)
		details.PaymentStatus = &ps
	}
	if err := order.UpdateDetails(details); err != nil {
		return nil, toAppError("order", err)
	}

	if cmd.Items != nil {
		if err := order.ReplaceItems(toOrderItems(cmd.Items)); err != nil {
			return nil, toAppError("order", err)
		}
	}

	previous := order.Status
	if cmd.Status != "" && domain.OrderStatus(cmd.Status) != order.Status {
		if err := order.TransitionTo(domain.OrderStatus(cmd.Status)); err != nil {
			return nil, toAppError("order", err)
		}
	}

	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to save order", "orderId", cmd.OrderID)
		return nil, toAppError("order", err)
	}

	s.afterMutation(ctx, order, "updated")

	if previous != domain.OrderStatusProcessing && order.Status == domain.OrderStatusProcessing {
		s.startPicking(ctx, order)
	}

	return ToOrderDTO(order), nil
}

// DeleteOrder removes a pending or cancelled order
func (s *OrderApplicationService) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return toAppError("order", err)
	}

	if err := order.MarkDeleted(); err != nil {
		return toAppError("order", err)
	}

	if err := s.repo.Delete(ctx, order); err != nil {
		s.logger.WithError(err).Error("Failed to delete order", "orderId", orderID)
		return toAppError("order", err)
	}

	s.cache.Invalidate(ctx, ResourceOrders)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "order.deleted",
		EntityType: "order",
		EntityID:   order.ID,
		Action:     "deleted",
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"orderNumber": order.OrderNumber},
	})
	return nil
}

func (s *OrderApplicationService) startPicking(ctx context.Context, order *domain.Order) {
	if s.orchestrator == nil {
		return
	}
	if err := s.orchestrator.StartPicking(ctx, order.ID); err != nil {
		s.logger.WithError(err).Warn("Failed to start picking workflow", "orderId", order.ID)
	}
}

func (s *OrderApplicationService) afterMutation(ctx context.Context, order *domain.Order, action string) {
	if s.metrics != nil {
		s.metrics.RecordOrderTransition(string(order.Status))
	}
	s.cache.Invalidate(ctx, ResourceOrders)
	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "order." + action,
		EntityType: "order",
		EntityID:   order.ID,
		Action:     action,
		UserID:     logging.UserIDFromContext(ctx),
		RelatedIDs: map[string]string{"orderNumber": order.OrderNumber},
		Data: map[string]any{
			"status":     string(order.Status),
			"totalValue": order.TotalValue.StringFixed(2),
		},
	})
}

func toOrderItems(inputs []OrderItemInput) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.OrderItem{
			SKU:         in.SKU,
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LocationID:  in.LocationID,
		})
	}
	return items
}
