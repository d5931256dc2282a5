package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

// PickingHandlers contains handlers for pick tasks and pick task items
type PickingHandlers struct {
	service PickingService
	logger  *logging.Logger
}

// NewPickingHandlers creates a new PickingHandlers
func NewPickingHandlers(service PickingService, logger *logging.Logger) *PickingHandlers {
	return &PickingHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers picking routes on the /api/warehouse group
func (h *PickingHandlers) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/pick-tasks")
	{
		tasks.GET("", h.ListPickTasks)
		tasks.POST("", h.CreatePickTask)
		tasks.GET("/:taskId", h.GetPickTask)
		tasks.PATCH("/:taskId", h.UpdatePickTask)
	}

	items := router.Group("/pick-task-items")
	{
		items.GET("", h.ListPickTaskItems)
		items.PUT("/:itemId/complete", h.CompletePickItem)
		items.PUT("/:itemId/unavailable", h.MarkItemUnavailable)
		items.POST("/:itemId/scan-verification", h.VerifyScan)
	}
}

type createPickTaskRequest struct {
	CustomerOrderID string                      `json:"customerOrderId" binding:"required,safe_string"`
	BatchID         string                      `json:"batchId" binding:"omitempty,safe_string"`
	Priority        string                      `json:"priority" binding:"omitempty,task_priority"`
	DueDate         *time.Time                  `json:"dueDate"`
	Items           []createPickTaskItemRequest `json:"items" binding:"required,min=1,dive"`
}

type createPickTaskItemRequest struct {
	OrderItemID  string `json:"orderItemId"`
	SKU          string `json:"sku" binding:"required,sku"`
	ProductName  string `json:"productName" binding:"safe_string"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	LocationID   string `json:"locationId" binding:"required,safe_string"`
	LocationName string `json:"locationName" binding:"safe_string"`
}

type updatePickTaskRequest struct {
	Status     string `json:"status" binding:"required"`
	AssignedTo string `json:"assignedTo" binding:"omitempty,safe_string"`
}

type completePickItemRequest struct {
	PickedQuantity *int   `json:"pickedQuantity" binding:"required,gte=0"`
	LocationID     string `json:"locationId" binding:"omitempty,safe_string"`
	ItemCode       string `json:"itemCode" binding:"omitempty,safe_string"`
	LocationCode   string `json:"locationCode" binding:"omitempty,safe_string"`
	Notes          string `json:"notes" binding:"omitempty,safe_string"`
}

type unavailableRequest struct {
	Notes string `json:"notes" binding:"omitempty,safe_string"`
}

type scanVerificationRequest struct {
	Simulate     bool   `json:"simulate"`
	ItemCode     string `json:"itemCode" binding:"omitempty,safe_string"`
	LocationCode string `json:"locationCode" binding:"omitempty,safe_string"`
}

// ListPickTasks handles GET /pick-tasks?status=&priority=&q=
func (h *PickingHandlers) ListPickTasks(c *gin.Context) {
	filter := domain.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Query:    c.Query("q"),
	}
	middleware.Annotate(c, map[string]any{
		"filter.status":   filter.Status,
		"filter.priority": filter.Priority,
	})

	tasks, err := h.service.ListPickTasks(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreatePickTask handles pick task creation
func (h *PickingHandlers) CreatePickTask(c *gin.Context) {
	var req createPickTaskRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"order.id":   req.CustomerOrderID,
		"task.items": len(req.Items),
	})

	cmd := application.CreatePickTaskCommand{
		CustomerOrderID: req.CustomerOrderID,
		BatchID:         req.BatchID,
		Priority:        req.Priority,
		Items:           make([]application.PickTaskItemInput, 0, len(req.Items)),
	}
	if req.DueDate != nil {
		cmd.DueDate = *req.DueDate
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, application.PickTaskItemInput{
			OrderItemID:  item.OrderItemID,
			SKU:          item.SKU,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			LocationID:   item.LocationID,
			LocationName: item.LocationName,
		})
	}

	task, err := h.service.CreatePickTask(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetPickTask handles getting a pick task by ID
func (h *PickingHandlers) GetPickTask(c *gin.Context) {
	taskID := c.Param("taskId")
	middleware.Annotate(c, map[string]any{
		"task.id": taskID,
	})

	task, err := h.service.GetPickTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdatePickTask handles PATCH /pick-tasks/:taskId, which starts, completes
// or cancels a task
func (h *PickingHandlers) UpdatePickTask(c *gin.Context) {
	taskID := c.Param("taskId")

	var req updatePickTaskRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"task.id":     taskID,
		"task.status": req.Status,
	})

	task, err := h.service.UpdatePickTaskStatus(c.Request.Context(), application.UpdatePickTaskStatusCommand{
		TaskID:     taskID,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
		Actor:      actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListPickTaskItems handles GET /pick-task-items?taskId=
func (h *PickingHandlers) ListPickTaskItems(c *gin.Context) {
	taskID := c.Query("taskId")
	middleware.Annotate(c, map[string]any{
		"task.id": taskID,
	})

	items, err := h.service.ListPickTaskItems(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// CompletePickItem handles PUT /pick-task-items/:itemId/complete. A zero
// pickedQuantity marks the item unavailable.
func (h *PickingHandlers) CompletePickItem(c *gin.Context) {
	itemID := c.Param("itemId")

	var req completePickItemRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"item.id":     itemID,
		"picked.qty":  *req.PickedQuantity,
		"location.id": req.LocationID,
	})

	item, err := h.service.CompletePickItem(c.Request.Context(), application.CompletePickItemCommand{
		ItemID:         itemID,
		PickedQuantity: *req.PickedQuantity,
		LocationID:     req.LocationID,
		ItemCode:       req.ItemCode,
		LocationCode:   req.LocationCode,
		Notes:          req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// MarkItemUnavailable handles PUT /pick-task-items/:itemId/unavailable
func (h *PickingHandlers) MarkItemUnavailable(c *gin.Context) {
	itemID := c.Param("itemId")

	var req unavailableRequest
	if c.Request.ContentLength > 0 && !bind(c, h.logger, &req) {
		return
	}

	item, err := h.service.MarkItemUnavailable(c.Request.Context(), application.MarkItemUnavailableCommand{
		ItemID: itemID,
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// VerifyScan handles POST /pick-task-items/:itemId/scan-verification
func (h *PickingHandlers) VerifyScan(c *gin.Context) {
	itemID := c.Param("itemId")

	var req scanVerificationRequest
	if c.Request.ContentLength > 0 && !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"item.id":       itemID,
		"scan.simulate": req.Simulate,
	})

	result, err := h.service.VerifyScan(c.Request.Context(), application.VerifyScanCommand{
		ItemID:       itemID,
		Simulate:     req.Simulate,
		ItemCode:     req.ItemCode,
		LocationCode: req.LocationCode,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
