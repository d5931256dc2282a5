// Package api assembles the warehouse HTTP API.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/internal/api/handlers"
	"github.com/wms-platform/warehouse-ops/pkg/idempotency"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/metrics"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

// LoginPath is reachable without a bearer token
const LoginPath = "/api/auth/login"

// RouterConfig selects the cross-cutting middleware of the router. Nil
// fields disable the corresponding concern.
type RouterConfig struct {
	ServiceName      string
	Logger           *logging.Logger
	Metrics          *metrics.Metrics
	Tracing          bool
	CORSOrigins      []string
	TokenValidator   middleware.TokenValidator
	RequestValidator middleware.RequestValidator
	Idempotency      *idempotency.Options
	Ready            func() error
}

// Handlers groups the route handlers
type Handlers struct {
	Picking     *handlers.PickingHandlers
	Packing     *handlers.PackingHandlers
	Orders      *handlers.OrderHandlers
	CycleCounts *handlers.CycleCountHandlers
	Accounts    *handlers.AccountHandlers
	Dashboards  *handlers.DashboardHandlers
}

// NewRouter builds the gin engine serving the operational endpoints and
// every /api route
func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	router := gin.New()

	middleware.Setup(router, middleware.Options{
		Service:        cfg.ServiceName,
		Logger:         cfg.Logger,
		Metrics:        cfg.Metrics,
		Tracing:        cfg.Tracing,
		AllowedOrigins: cfg.CORSOrigins,
		Ready:          cfg.Ready,
	})

	api := router.Group("/api")
	if cfg.TokenValidator != nil {
		api.Use(middleware.BearerAuth(cfg.TokenValidator, LoginPath))
	}
	api.Use(middleware.OpenAPIValidation(cfg.RequestValidator))
	if cfg.Idempotency != nil {
		api.Use(idempotency.Middleware(cfg.Idempotency))
	}

	warehouse := api.Group("/warehouse")
	h.Picking.RegisterRoutes(warehouse)
	h.Packing.RegisterRoutes(warehouse)
	h.CycleCounts.RegisterRoutes(warehouse)

	h.Orders.RegisterRoutes(api)
	h.Accounts.RegisterRoutes(api)
	h.Dashboards.RegisterRoutes(api)

	return router
}
