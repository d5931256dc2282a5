package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/warehouse-ops/internal/application"
	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
	"github.com/wms-platform/warehouse-ops/pkg/middleware"
)

// managerRoles may apply inventory adjustments and delete orders
var managerRoles = []string{string(domain.RoleAdmin), string(domain.RoleWarehouseManager)}

// PickingService is the picking use-case surface the handlers depend on
type PickingService interface {
	ListPickTasks(ctx context.Context, filter domain.TaskFilter) ([]application.PickTaskDTO, error)
	GetPickTask(ctx context.Context, taskID string) (*application.PickTaskDTO, error)
	ListPickTaskItems(ctx context.Context, taskID string) ([]application.PickTaskItemDTO, error)
	CreatePickTask(ctx context.Context, cmd application.CreatePickTaskCommand) (*application.PickTaskDTO, error)
	UpdatePickTaskStatus(ctx context.Context, cmd application.UpdatePickTaskStatusCommand) (*application.PickTaskDTO, error)
	CompletePickItem(ctx context.Context, cmd application.CompletePickItemCommand) (*application.PickTaskItemDTO, error)
	MarkItemUnavailable(ctx context.Context, cmd application.MarkItemUnavailableCommand) (*application.PickTaskItemDTO, error)
	VerifyScan(ctx context.Context, cmd application.VerifyScanCommand) (*application.ScanVerificationDTO, error)
}

// PackingService is the packing use-case surface
type PackingService interface {
	ListPackTasks(ctx context.Context, filter domain.TaskFilter) ([]application.PackTaskDTO, error)
	GetPackTask(ctx context.Context, taskID string) (*application.PackTaskDTO, error)
	ListPackTaskItems(ctx context.Context, taskID string) ([]application.PackTaskItemDTO, error)
	ListPackages(ctx context.Context, taskID string) ([]application.PackageDTO, error)
	CreatePackTask(ctx context.Context, cmd application.CreatePackTaskCommand) (*application.PackTaskDTO, error)
	UpdatePackTaskStatus(ctx context.Context, cmd application.UpdatePackTaskStatusCommand) (*application.PackTaskDTO, error)
	CreatePackage(ctx context.Context, cmd application.CreatePackageCommand) (*application.PackageDTO, error)
	PackItem(ctx context.Context, cmd application.PackItemCommand) (*application.PackTaskItemDTO, error)
}

// OrderService is the order use-case surface
type OrderService interface {
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]application.OrderDTO, error)
	GetOrder(ctx context.Context, orderID string) (*application.OrderDTO, error)
	ListOrderItems(ctx context.Context, orderID string) ([]application.OrderItemDTO, error)
	CreateOrder(ctx context.Context, cmd application.CreateOrderCommand) (*application.OrderDTO, error)
	UpdateOrder(ctx context.Context, cmd application.UpdateOrderCommand) (*application.OrderDTO, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

// ReturnService is the return request use-case surface
type ReturnService interface {
	ListReturns(ctx context.Context, filter domain.ReturnFilter) ([]application.ReturnRequestDTO, error)
	GetReturn(ctx context.Context, returnID string) (*application.ReturnRequestDTO, error)
	CreateReturn(ctx context.Context, cmd application.CreateReturnCommand) (*application.ReturnRequestDTO, error)
	UpdateReturnStatus(ctx context.Context, cmd application.UpdateReturnStatusCommand) (*application.ReturnRequestDTO, error)
}

// CycleCountService is the cycle count use-case surface
type CycleCountService interface {
	ListCycleCounts(ctx context.Context, status string) ([]application.CycleCountTaskDTO, error)
	GetCycleCount(ctx context.Context, taskID string) (*application.CycleCountTaskDTO, error)
	ListCycleCountItems(ctx context.Context, taskID string) ([]application.CycleCountItemDTO, error)
	CreateCycleCount(ctx context.Context, cmd application.CreateCycleCountCommand) (*application.CycleCountTaskDTO, error)
	UpdateCycleCountStatus(ctx context.Context, cmd application.UpdateCycleCountStatusCommand) (*application.CycleCountTaskDTO, error)
	RecordCount(ctx context.Context, cmd application.RecordCountCommand) (*application.CycleCountItemDTO, error)
	ApplyAdjustments(ctx context.Context, cmd application.ApplyAdjustmentsCommand) ([]application.CycleCountItemDTO, error)
}

// AuthService is the login surface
type AuthService interface {
	Login(ctx context.Context, cmd application.LoginCommand) (*application.LoginResultDTO, error)
	Me(ctx context.Context, username string) (*application.UserDTO, error)
}

// SettingsService reads and patches user settings
type SettingsService interface {
	GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error)
	UpdateSettings(ctx context.Context, userID string, patch domain.SettingsPatch) (*domain.UserSettings, error)
}

// DashboardService serves the read-only dashboards
type DashboardService interface {
	SecurityAlerts(ctx context.Context) ([]domain.SecurityAlert, error)
	SecurityCompliance(ctx context.Context) ([]domain.SecurityCompliance, error)
	SustainabilityMetrics(ctx context.Context) (*domain.SustainabilityMetrics, error)
	SustainabilityRecommendations(ctx context.Context) ([]domain.SustainabilityRecommendation, error)
	Routes(ctx context.Context) ([]domain.MultiModalRoute, error)
	Segments(ctx context.Context, routeID string) ([]domain.TransportSegment, error)
	WeatherEvents(ctx context.Context) ([]domain.WeatherEvent, error)
	WeatherImpact(ctx context.Context) (domain.WeatherImpactMetrics, error)
	AlternativeRoutes(ctx context.Context) ([]domain.AlternativeRoute, error)
	Inventory(ctx context.Context, category, q string) ([]domain.InventoryItem, error)
	InventoryAlerts(ctx context.Context) ([]domain.InventoryAlert, error)
}

// anonymousUser owns settings when authentication is disabled
const anonymousUser = "anonymous"

// actor returns the authenticated username, or "" when auth is disabled
func actor(c *gin.Context) string {
	if p := middleware.GetPrincipal(c); p != nil {
		return p.Username
	}
	return ""
}

func respondError(c *gin.Context, logger *logging.Logger, err error) {
	middleware.RespondError(c, logger, err)
}

// bind decodes and validates the request body, answering the request itself
// when it fails
func bind(c *gin.Context, logger *logging.Logger, req any) bool {
	if appErr := middleware.BindAndValidate(c, req); appErr != nil {
		middleware.RespondError(c, logger, appErr)
		return false
	}
	return true
}
