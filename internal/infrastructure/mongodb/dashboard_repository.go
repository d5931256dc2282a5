package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/warehouse-ops/internal/domain"
)

const (
	collSecurityAlerts    = "security_alerts"
	collCompliance        = "security_compliance"
	collSustainability    = "sustainability_metrics"
	collRecommendations   = "sustainability_recommendations"
	collRoutes            = "multimodal_routes"
	collWeatherEvents     = "weather_events"
	collAlternativeRoutes = "alternative_routes"
	collInventory         = "inventory_items"
)

// DashboardRepository reads the dashboard collections
type DashboardRepository struct {
	*store
}

func newDashboardRepository(s *store) *DashboardRepository {
	return &DashboardRepository{store: s}
}

func (r *DashboardRepository) coll(name string) *mongo.Collection {
	return r.db.Collection(name)
}

func (r *DashboardRepository) SecurityAlerts(ctx context.Context) ([]domain.SecurityAlert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	return findMany[domain.SecurityAlert](ctx, r.store, r.coll(collSecurityAlerts), bson.M{}, opts)
}

func (r *DashboardRepository) SecurityCompliance(ctx context.Context) ([]domain.SecurityCompliance, error) {
	return findMany[domain.SecurityCompliance](ctx, r.store, r.coll(collCompliance), bson.M{})
}

func (r *DashboardRepository) SustainabilityMetrics(ctx context.Context) (*domain.SustainabilityMetrics, error) {
	return findOne[domain.SustainabilityMetrics](ctx, r.store, r.coll(collSustainability), bson.M{})
}

func (r *DashboardRepository) SustainabilityRecommendations(ctx context.Context) ([]domain.SustainabilityRecommendation, error) {
	return findMany[domain.SustainabilityRecommendation](ctx, r.store, r.coll(collRecommendations), bson.M{})
}

func (r *DashboardRepository) Routes(ctx context.Context) ([]domain.MultiModalRoute, error) {
	return findMany[domain.MultiModalRoute](ctx, r.store, r.coll(collRoutes), bson.M{})
}

func (r *DashboardRepository) WeatherEvents(ctx context.Context) ([]domain.WeatherEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	return findMany[domain.WeatherEvent](ctx, r.store, r.coll(collWeatherEvents), bson.M{}, opts)
}

func (r *DashboardRepository) AlternativeRoutes(ctx context.Context) ([]domain.AlternativeRoute, error) {
	return findMany[domain.AlternativeRoute](ctx, r.store, r.coll(collAlternativeRoutes), bson.M{})
}

func (r *DashboardRepository) Inventory(ctx context.Context) ([]domain.InventoryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sku", Value: 1}})
	return findMany[domain.InventoryItem](ctx, r.store, r.coll(collInventory), bson.M{}, opts)
}

// Replace swaps every dashboard collection for the given data atomically
func (r *DashboardRepository) Replace(ctx context.Context, data domain.DashboardData) error {
	var sustainability []domain.SustainabilityMetrics
	if data.Sustainability != nil {
		sustainability = append(sustainability, *data.Sustainability)
	}

	sets := []struct {
		name string
		docs []interface{}
	}{
		{collSecurityAlerts, docs(data.SecurityAlerts)},
		{collCompliance, docs(data.Compliance)},
		{collSustainability, docs(sustainability)},
		{collRecommendations, docs(data.Recommendations)},
		{collRoutes, docs(data.Routes)},
		{collWeatherEvents, docs(data.WeatherEvents)},
		{collAlternativeRoutes, docs(data.AlternativeRoutes)},
		{collInventory, docs(data.Inventory)},
	}

	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, set := range sets {
			coll := r.coll(set.name)
			err := r.instr.Observe(ctx, set.name, "replace", func(ctx context.Context) error {
				if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
					return err
				}
				if len(set.docs) == 0 {
					return nil
				}
				_, err := coll.InsertMany(ctx, set.docs)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to replace %s: %w", set.name, err)
			}
		}
		return nil
	})
}

func docs[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i := range items {
		out[i] = items[i]
	}
	return out
}
