package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

// CycleCountHandlers contains handlers for cycle count tasks and items
type CycleCountHandlers struct {
	service CycleCountService
	logger  *logging.Logger
}

// NewCycleCountHandlers creates a new CycleCountHandlers
func NewCycleCountHandlers(service CycleCountService, logger *logging.Logger) *CycleCountHandlers {
	return &CycleCountHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers cycle count routes on the /api/warehouse group
func (h *CycleCountHandlers) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/cycle-count-tasks")
	{
		tasks.GET("", h.ListCycleCounts)
		tasks.POST("", h.CreateCycleCount)
		tasks.GET("/:taskId", h.GetCycleCount)
		tasks.PATCH("/:taskId", h.UpdateCycleCount)
		tasks.GET("/:taskId/items", h.ListCycleCountItems)
		tasks.POST("/:taskId/apply-adjustments", middleware.RequireRole(managerRoles...), h.ApplyAdjustments)
	}

	router.PUT("/cycle-count-items/:itemId", h.RecordCount)
}

type cycleCountItemRequest struct {
	LocationID       string `json:"locationId" binding:"required,safe_string"`
	SKU              string `json:"sku" binding:"required,sku"`
	ProductName      string `json:"productName" binding:"safe_string"`
	ExpectedQuantity int    `json:"expectedQuantity" binding:"gte=0"`
}

type createCycleCountRequest struct {
	Name           string                  `json:"name" binding:"required,safe_string"`
	CountingMethod string                  `json:"countingMethod" binding:"omitempty,oneof=full abc random zone"`
	ScheduledDate  *time.Time              `json:"scheduledDate"`
	Notes          string                  `json:"notes" binding:"safe_string"`
	Items          []cycleCountItemRequest `json:"items" binding:"required,min=1,dive"`
}

type updateCycleCountRequest struct {
	Status     string `json:"status" binding:"required"`
	AssignedTo string `json:"assignedTo" binding:"omitempty,safe_string"`
}

type recordCountRequest struct {
	ActualQuantity *int   `json:"actualQuantity" binding:"required"`
	Notes          string `json:"notes" binding:"safe_string"`
}

type applyAdjustmentsRequest struct {
	Reason string `json:"reason" binding:"required,safe_string"`
}

// ListCycleCounts handles GET /cycle-count-tasks?status=
func (h *CycleCountHandlers) ListCycleCounts(c *gin.Context) {
	tasks, err := h.service.ListCycleCounts(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreateCycleCount handles cycle count creation
func (h *CycleCountHandlers) CreateCycleCount(c *gin.Context) {
	var req createCycleCountRequest
	if !bind(c, h.logger, &req) {
		return
	}

	cmd := application.CreateCycleCountCommand{
		Name:           req.Name,
		CountingMethod: req.CountingMethod,
		Notes:          req.Notes,
		Items:          make([]application.CycleCountItemInput, 0, len(req.Items)),
	}
	if req.ScheduledDate != nil {
		cmd.ScheduledDate = *req.ScheduledDate
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, application.CycleCountItemInput{
			LocationID:       item.LocationID,
			SKU:              item.SKU,
			ProductName:      item.ProductName,
			ExpectedQuantity: item.ExpectedQuantity,
		})
	}

	task, err := h.service.CreateCycleCount(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetCycleCount handles getting a cycle count by ID
func (h *CycleCountHandlers) GetCycleCount(c *gin.Context) {
	task, err := h.service.GetCycleCount(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateCycleCount handles PATCH /cycle-count-tasks/:taskId
func (h *CycleCountHandlers) UpdateCycleCount(c *gin.Context) {
	taskID := c.Param("taskId")

	var req updateCycleCountRequest
	if !bind(c, h.logger, &req) {
		return
	}

	task, err := h.service.UpdateCycleCountStatus(c.Request.Context(), application.UpdateCycleCountStatusCommand{
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

// ListCycleCountItems handles GET /cycle-count-tasks/:taskId/items
func (h *CycleCountHandlers) ListCycleCountItems(c *gin.Context) {
	items, err := h.service.ListCycleCountItems(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// RecordCount handles PUT /cycle-count-items/:itemId
func (h *CycleCountHandlers) RecordCount(c *gin.Context) {
	itemID := c.Param("itemId")

	var req recordCountRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"item.id":      itemID,
		"count.actual": *req.ActualQuantity,
	})

	item, err := h.service.RecordCount(c.Request.Context(), application.RecordCountCommand{
		ItemID:         itemID,
		ActualQuantity: *req.ActualQuantity,
		Notes:          req.Notes,
		CountedBy:      actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ApplyAdjustments handles POST /cycle-count-tasks/:taskId/apply-adjustments
func (h *CycleCountHandlers) ApplyAdjustments(c *gin.Context) {
	var req applyAdjustmentsRequest
	if !bind(c, h.logger, &req) {
		return
	}

	items, err := h.service.ApplyAdjustments(c.Request.Context(), application.ApplyAdjustmentsCommand{
		TaskID:     c.Param("taskId"),
		Reason:     req.Reason,
		ApprovedBy: actor(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
