package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure"
)

type CycleCountRepository struct {
	*store
	collection *mongo.Collection
}

func newCycleCountRepository(s *store) *CycleCountRepository {
	return &CycleCountRepository{store: s, collection: s.db.Collection("cycle_count_tasks")}
}

func (r *CycleCountRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "items.id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledDate", Value: 1}}},
	})
}

func (r *CycleCountRepository) Save(ctx context.Context, task *domain.CycleCountTask) error {
	rows, err := infrastructure.OutboxEvents(ctx, r.eventFactory, infrastructure.AggregateCycleCount, task.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := task.Version, task.UpdatedAt
	task.Version = prev + 1
	task.UpdatedAt = time.Now().UTC()

	if err := r.save(ctx, r.collection, task.ID, prev, task, rows); err != nil {
		task.Version, task.UpdatedAt = prev, prevUpdated
		return err
	}

	task.ClearDomainEvents()
	return nil
}

func (r *CycleCountRepository) FindByID(ctx context.Context, id string) (*domain.CycleCountTask, error) {
	return findOne[domain.CycleCountTask](ctx, r.store, r.collection, bson.M{"_id": id})
}

func (r *CycleCountRepository) FindByItemID(ctx context.Context, itemID string) (*domain.CycleCountTask, error) {
	return findOne[domain.CycleCountTask](ctx, r.store, r.collection, bson.M{"items.id": itemID})
}

// FindAll returns cycle counts by scheduled date, soonest first
func (r *CycleCountRepository) FindAll(ctx context.Context) ([]*domain.CycleCountTask, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})
	return findMany[*domain.CycleCountTask](ctx, r.store, r.collection, bson.M{}, opts)
}
