package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// DashboardHandlers serves the inventory, security, sustainability,
// multi-modal and weather dashboards
type DashboardHandlers struct {
	service DashboardService
	logger  *logging.Logger
}

// NewDashboardHandlers creates a new DashboardHandlers
func NewDashboardHandlers(service DashboardService, logger *logging.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers dashboard routes on the /api group
func (h *DashboardHandlers) RegisterRoutes(router *gin.RouterGroup) {
	inventory := router.Group("/inventory")
	{
		inventory.GET("", h.Inventory)
		inventory.GET("/alerts", serve(h, h.service.InventoryAlerts))
	}

	security := router.Group("/security")
	{
		security.GET("/alerts", serve(h, h.service.SecurityAlerts))
		security.GET("/compliance", serve(h, h.service.SecurityCompliance))
	}

	sustainability := router.Group("/sustainability")
	{
		sustainability.GET("/metrics", serve(h, h.service.SustainabilityMetrics))
		sustainability.GET("/recommendations", serve(h, h.service.SustainabilityRecommendations))
	}

	multiModal := router.Group("/multi-modal")
	{
		multiModal.GET("/routes", serve(h, h.service.Routes))
		multiModal.GET("/segments", h.Segments)
	}

	weather := router.Group("/weather")
	{
		weather.GET("/events", serve(h, h.service.WeatherEvents))
		weather.GET("/metrics", serve(h, h.service.WeatherImpact))
		weather.GET("/alternative-routes", serve(h, h.service.AlternativeRoutes))
	}
}

// serve adapts a parameterless read to a gin handler
func serve[T any](h *DashboardHandlers, read func(ctx context.Context) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := read(c.Request.Context())
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// Segments handles GET /multi-modal/segments?routeId=
func (h *DashboardHandlers) Segments(c *gin.Context) {
	segments, err := h.service.Segments(c.Request.Context(), c.Query("routeId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, segments)
}

// Inventory handles GET /inventory?category=&q=
func (h *DashboardHandlers) Inventory(c *gin.Context) {
	items, err := h.service.Inventory(c.Request.Context(), c.Query("category"), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
