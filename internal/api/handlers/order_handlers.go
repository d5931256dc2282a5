package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

// OrderHandlers contains handlers for orders and return requests
type OrderHandlers struct {
	orders  OrderService
	returns ReturnService
	logger  *logging.Logger
}

// NewOrderHandlers creates a new OrderHandlers
func NewOrderHandlers(orders OrderService, returns ReturnService, logger *logging.Logger) *OrderHandlers {
	return &OrderHandlers{
		orders:  orders,
		returns: returns,
		logger:  logger,
	}
}

// RegisterRoutes registers order and return routes on the /api group
func (h *OrderHandlers) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.POST("", h.CreateOrder)
		orders.GET("/:orderId", h.GetOrder)
		orders.PATCH("/:orderId", h.UpdateOrder)
		orders.DELETE("/:orderId", middleware.RequireRole(managerRoles...), h.DeleteOrder)
		orders.GET("/:orderId/items", h.ListOrderItems)
	}

	returns := router.Group("/return-requests")
	{
		returns.GET("", h.ListReturns)
		returns.POST("", h.CreateReturn)
		returns.GET("/:returnId", h.GetReturn)
		returns.PATCH("/:returnId", h.UpdateReturn)
	}
}

type addressRequest struct {
	Street     string `json:"street" binding:"safe_string"`
	City       string `json:"city" binding:"safe_string"`
	State      string `json:"state" binding:"safe_string"`
	PostalCode string `json:"postalCode" binding:"safe_string"`
	Country    string `json:"country" binding:"safe_string"`
}

type orderItemRequest struct {
	SKU         string          `json:"sku" binding:"required,sku"`
	ProductName string          `json:"productName" binding:"safe_string"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LocationID  string          `json:"locationId" binding:"omitempty,safe_string"`
}

type createOrderRequest struct {
	OrderNumber      string             `json:"orderNumber" binding:"omitempty,safe_string"`
	CustomerName     string             `json:"customerName" binding:"required,safe_string"`
	CustomerType     string             `json:"customerType" binding:"omitempty,oneof=retail wholesale business"`
	CustomerLocation string             `json:"customerLocation" binding:"safe_string"`
	CustomerEmail    string             `json:"customerEmail" binding:"omitempty,email"`
	Priority         string             `json:"priority" binding:"omitempty,order_priority"`
	Notes            string             `json:"notes" binding:"safe_string"`
	ShippingAddress  *addressRequest    `json:"shippingAddress"`
	Items            []orderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type updateOrderRequest struct {
	Status           string             `json:"status"`
	CustomerName     *string            `json:"customerName" binding:"omitempty,safe_string"`
	CustomerEmail    *string            `json:"customerEmail" binding:"omitempty,email"`
	CustomerLocation *string            `json:"customerLocation" binding:"omitempty,safe_string"`
	Priority         *string            `json:"priority" binding:"omitempty,order_priority"`
	PaymentStatus    *string            `json:"paymentStatus" binding:"omitempty,oneof=pending paid refunded failed"`
	Notes            *string            `json:"notes" binding:"omitempty,safe_string"`
	ShippingAddress  *addressRequest    `json:"shippingAddress"`
	Items            []orderItemRequest `json:"items" binding:"omitempty,dive"`
}

type returnLineRequest struct {
	OrderItemID string `json:"orderItemId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	Condition   string `json:"condition" binding:"safe_string"`
}

type createReturnRequest struct {
	OrderID        string              `json:"orderId" binding:"required"`
	Reason         string              `json:"reason" binding:"safe_string"`
	ReturnMethod   string              `json:"returnMethod" binding:"omitempty,oneof=pickup drop_off mail"`
	ResolutionType string              `json:"resolutionType" binding:"omitempty,oneof=refund replacement store_credit"`
	Notes          string              `json:"notes" binding:"safe_string"`
	Items          []returnLineRequest `json:"items" binding:"required,min=1,dive"`
}

type updateReturnRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes" binding:"safe_string"`
}

func (a *addressRequest) toDTO() *application.AddressDTO {
	if a == nil {
		return nil
	}
	return &application.AddressDTO{
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func toOrderItemInputs(items []orderItemRequest) []application.OrderItemInput {
	if items == nil {
		return nil
	}
	inputs := make([]application.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, application.OrderItemInput{
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LocationID:  item.LocationID,
		})
	}
	return inputs
}

// ListOrders handles GET /orders?status=&q=
func (h *OrderHandlers) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context(), domain.OrderFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CreateOrder handles order creation
func (h *OrderHandlers) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if !bind(c, h.logger, &req) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), application.CreateOrderCommand{
		OrderNumber:      req.OrderNumber,
		CustomerName:     req.CustomerName,
		CustomerType:     req.CustomerType,
		CustomerLocation: req.CustomerLocation,
		CustomerEmail:    req.CustomerEmail,
		Priority:         req.Priority,
		Notes:            req.Notes,
		ShippingAddress:  req.ShippingAddress.toDTO(),
		Items:            toOrderItemInputs(req.Items),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetOrder handles getting an order by ID
func (h *OrderHandlers) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	middleware.Annotate(c, map[string]any{
		"order.id": orderID,
	})

	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// UpdateOrder handles PATCH /orders/:orderId
func (h *OrderHandlers) UpdateOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	var req updateOrderRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"order.id":     orderID,
		"order.status": req.Status,
	})

	order, err := h.orders.UpdateOrder(c.Request.Context(), application.UpdateOrderCommand{
		OrderID:          orderID,
		Status:           req.Status,
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerLocation: req.CustomerLocation,
		Priority:         req.Priority,
		PaymentStatus:    req.PaymentStatus,
		Notes:            req.Notes,
		ShippingAddress:  req.ShippingAddress.toDTO(),
		Items:            toOrderItemInputs(req.Items),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder handles deleting a pending or cancelled order
func (h *OrderHandlers) DeleteOrder(c *gin.Context) {
	if err := h.orders.DeleteOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListOrderItems handles GET /orders/:orderId/items
func (h *OrderHandlers) ListOrderItems(c *gin.Context) {
	items, err := h.orders.ListOrderItems(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ListReturns handles GET /return-requests?status=&orderId=
func (h *OrderHandlers) ListReturns(c *gin.Context) {
	returns, err := h.returns.ListReturns(c.Request.Context(), domain.ReturnFilter{
		Status:  c.Query("status"),
		OrderID: c.Query("orderId"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, returns)
}

// CreateReturn handles return request creation
func (h *OrderHandlers) CreateReturn(c *gin.Context) {
	var req createReturnRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"order.id": req.OrderID,
	})

	cmd := application.CreateReturnCommand{
		OrderID:        req.OrderID,
		Reason:         req.Reason,
		ReturnMethod:   req.ReturnMethod,
		ResolutionType: req.ResolutionType,
		Notes:          req.Notes,
		Items:          make([]application.ReturnLineInput, 0, len(req.Items)),
	}
	for _, line := range req.Items {
		cmd.Items = append(cmd.Items, application.ReturnLineInput{
			OrderItemID: line.OrderItemID,
			Quantity:    line.Quantity,
			Condition:   line.Condition,
		})
	}

	ret, err := h.returns.CreateReturn(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, ret)
}

// GetReturn handles getting a return request by ID
func (h *OrderHandlers) GetReturn(c *gin.Context) {
	ret, err := h.returns.GetReturn(c.Request.Context(), c.Param("returnId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ret)
}

// UpdateReturn handles PATCH /return-requests/:returnId
func (h *OrderHandlers) UpdateReturn(c *gin.Context) {
	returnID := c.Param("returnId")

	var req updateReturnRequest
	if !bind(c, h.logger, &req) {
		return
	}

	ret, err := h.returns.UpdateReturnStatus(c.Request.Context(), application.UpdateReturnStatusCommand{
		ReturnID: returnID,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ret)
}
