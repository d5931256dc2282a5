package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

// PackingHandlers contains handlers for pack tasks, their items and packages
type PackingHandlers struct {
	service PackingService
	logger  *logging.Logger
}

// NewPackingHandlers creates a new PackingHandlers
func NewPackingHandlers(service PackingService, logger *logging.Logger) *PackingHandlers {
	return &PackingHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers packing routes on the /api/warehouse group
func (h *PackingHandlers) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/packing-tasks")
	{
		tasks.GET("", h.ListPackTasks)
		tasks.POST("", h.CreatePackTask)
		tasks.GET("/:taskId", h.GetPackTask)
		tasks.PATCH("/:taskId", h.UpdatePackTask)
		tasks.GET("/:taskId/items", h.ListPackTaskItems)
		tasks.GET("/:taskId/packages", h.ListPackages)
		tasks.POST("/:taskId/packages", h.CreatePackage)
	}

	router.PUT("/packing-task-items/:itemId/pack", h.PackItem)
}

type createPackTaskRequest struct {
	CustomerOrderID string                      `json:"customerOrderId" binding:"required,safe_string"`
	PickTaskID      string                      `json:"pickTaskId" binding:"omitempty,safe_string"`
	Priority        string                      `json:"priority" binding:"omitempty,task_priority"`
	Items           []createPackTaskItemRequest `json:"items" binding:"required,min=1,dive"`
}

type createPackTaskItemRequest struct {
	SKU         string `json:"sku" binding:"required,sku"`
	ProductName string `json:"productName" binding:"safe_string"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

type updatePackTaskRequest struct {
	Status     string `json:"status" binding:"required"`
	AssignedTo string `json:"assignedTo" binding:"omitempty,safe_string"`
}

type createPackageRequest struct {
	PackageType   string  `json:"packageType" binding:"required,oneof=box envelope pallet tube custom"`
	Length        float64 `json:"length" binding:"required,gt=0"`
	Width         float64 `json:"width" binding:"required,gt=0"`
	Height        float64 `json:"height" binding:"required,gt=0"`
	DimensionUnit string  `json:"dimensionUnit" binding:"omitempty,oneof=cm in"`
	Weight        float64 `json:"weight" binding:"required,gte=0.1"`
	WeightUnit    string  `json:"weightUnit" binding:"omitempty,oneof=kg lb"`
}

type packItemRequest struct {
	PackageID string `json:"packageId" binding:"required,safe_string"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// ListPackTasks handles GET /packing-tasks?status=&priority=&q=
func (h *PackingHandlers) ListPackTasks(c *gin.Context) {
	tasks, err := h.service.ListPackTasks(c.Request.Context(), domain.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Query:    c.Query("q"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// CreatePackTask handles pack task creation
func (h *PackingHandlers) CreatePackTask(c *gin.Context) {
	var req createPackTaskRequest
	if !bind(c, h.logger, &req) {
		return
	}

	cmd := application.CreatePackTaskCommand{
		CustomerOrderID: req.CustomerOrderID,
		PickTaskID:      req.PickTaskID,
		Priority:        req.Priority,
		Items:           make([]application.PackTaskItemInput, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, application.PackTaskItemInput{
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		})
	}

	task, err := h.service.CreatePackTask(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetPackTask handles getting a pack task by ID
func (h *PackingHandlers) GetPackTask(c *gin.Context) {
	taskID := c.Param("taskId")
	middleware.Annotate(c, map[string]any{
		"task.id": taskID,
	})

	task, err := h.service.GetPackTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdatePackTask handles PATCH /packing-tasks/:taskId
func (h *PackingHandlers) UpdatePackTask(c *gin.Context) {
	taskID := c.Param("taskId")

	var req updatePackTaskRequest
	if !bind(c, h.logger, &req) {
		return
	}

	task, err := h.service.UpdatePackTaskStatus(c.Request.Context(), application.UpdatePackTaskStatusCommand{
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

// ListPackTaskItems handles GET /packing-tasks/:taskId/items
func (h *PackingHandlers) ListPackTaskItems(c *gin.Context) {
	items, err := h.service.ListPackTaskItems(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// ListPackages handles GET /packing-tasks/:taskId/packages
func (h *PackingHandlers) ListPackages(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}

// CreatePackage handles POST /packing-tasks/:taskId/packages
func (h *PackingHandlers) CreatePackage(c *gin.Context) {
	taskID := c.Param("taskId")

	var req createPackageRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"task.id":      taskID,
		"package.type": req.PackageType,
	})

	pkg, err := h.service.CreatePackage(c.Request.Context(), application.CreatePackageCommand{
		PackTaskID:    taskID,
		PackageType:   req.PackageType,
		Length:        req.Length,
		Width:         req.Width,
		Height:        req.Height,
		DimensionUnit: req.DimensionUnit,
		Weight:        req.Weight,
		WeightUnit:    req.WeightUnit,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// PackItem handles PUT /packing-task-items/:itemId/pack
func (h *PackingHandlers) PackItem(c *gin.Context) {
	itemID := c.Param("itemId")

	var req packItemRequest
	if !bind(c, h.logger, &req) {
		return
	}

	middleware.Annotate(c, map[string]any{
		"item.id":    itemID,
		"package.id": req.PackageID,
	})

	item, err := h.service.PackItem(c.Request.Context(), application.PackItemCommand{
		ItemID:    itemID,
		PackageID: req.PackageID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
