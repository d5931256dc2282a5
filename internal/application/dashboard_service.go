package application

import (
	"context"
	"time"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/logging"
)

// DashboardApplicationService serves the read-only dashboard models
type DashboardApplicationService struct {
	repo   domain.DashboardRepository
	now    func() time.Time
	logger *logging.Logger
}

// NewDashboardApplicationService creates a new DashboardApplicationService
func NewDashboardApplicationService(repo domain.DashboardRepository, logger *logging.Logger) *DashboardApplicationService {
	return &DashboardApplicationService{
		repo:   repo,
		now:    time.Now,
		logger: logger.WithComponent("dashboard"),
	}
}

func (s *DashboardApplicationService) SecurityAlerts(ctx context.Context) ([]domain.SecurityAlert, error) {
	alerts, err := s.repo.SecurityAlerts(ctx)
	if err != nil {
		return nil, toAppError("security alerts", err)
	}
	return nonNil(alerts), nil
}

func (s *DashboardApplicationService) SecurityCompliance(ctx context.Context) ([]domain.SecurityCompliance, error) {
	records, err := s.repo.SecurityCompliance(ctx)
	if err != nil {
		return nil, toAppError("security compliance", err)
	}
	return nonNil(records), nil
}

func (s *DashboardApplicationService) SustainabilityMetrics(ctx context.Context) (*domain.SustainabilityMetrics, error) {
	m, err := s.repo.SustainabilityMetrics(ctx)
	if err != nil {
		return nil, toAppError("sustainability metrics", err)
	}
	return m, nil
}

func (s *DashboardApplicationService) SustainabilityRecommendations(ctx context.Context) ([]domain.SustainabilityRecommendation, error) {
	recs, err := s.repo.SustainabilityRecommendations(ctx)
	if err != nil {
		return nil, toAppError("sustainability recommendations", err)
	}
	return nonNil(recs), nil
}

func (s *DashboardApplicationService) Routes(ctx context.Context) ([]domain.MultiModalRoute, error) {
	routes, err := s.repo.Routes(ctx)
	if err != nil {
		return nil, toAppError("routes", err)
	}
	return nonNil(routes), nil
}

// Segments flattens the transport segments of every route, or of one route
// when routeID is set
func (s *DashboardApplicationService) Segments(ctx context.Context, routeID string) ([]domain.TransportSegment, error) {
	routes, err := s.repo.Routes(ctx)
	if err != nil {
		return nil, toAppError("routes", err)
	}

	segments := make([]domain.TransportSegment, 0)
	for _, route := range routes {
		if routeID != "" && route.ID != routeID {
			continue
		}
		for _, seg := range route.TransportModes {
			if seg.RouteID == "" {
				seg.RouteID = route.ID
			}
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

func (s *DashboardApplicationService) WeatherEvents(ctx context.Context) ([]domain.WeatherEvent, error) {
	events, err := s.repo.WeatherEvents(ctx)
	if err != nil {
		return nil, toAppError("weather events", err)
	}
	return nonNil(events), nil
}

// WeatherImpact summarizes the weather events active now
func (s *DashboardApplicationService) WeatherImpact(ctx context.Context) (domain.WeatherImpactMetrics, error) {
	events, err := s.repo.WeatherEvents(ctx)
	if err != nil {
		return domain.WeatherImpactMetrics{}, toAppError("weather events", err)
	}
	return domain.SummarizeWeather(events, s.now()), nil
}

func (s *DashboardApplicationService) AlternativeRoutes(ctx context.Context) ([]domain.AlternativeRoute, error) {
	routes, err := s.repo.AlternativeRoutes(ctx)
	if err != nil {
		return nil, toAppError("alternative routes", err)
	}
	return nonNil(routes), nil
}

// Inventory returns the stock positions matching category and query
func (s *DashboardApplicationService) Inventory(ctx context.Context, category, q string) ([]domain.InventoryItem, error) {
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return nil, toAppError("inventory", err)
	}
	return domain.FilterInventory(items, category, q), nil
}

// InventoryAlerts returns the items at or below their reorder level
func (s *DashboardApplicationService) InventoryAlerts(ctx context.Context) ([]domain.InventoryAlert, error) {
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return nil, toAppError("inventory", err)
	}
	alerts := domain.LowStockAlerts(items)
	if len(alerts) > 0 {
		s.logger.WithContext(ctx).Debug("Low stock detected", "items", len(alerts))
	}
	return alerts, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
