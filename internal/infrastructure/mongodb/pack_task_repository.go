package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure"
)

type PackTaskRepository struct {
	*store
	collection *mongo.Collection
}

func newPackTaskRepository(s *store) *PackTaskRepository {
	return &PackTaskRepository{store: s, collection: s.db.Collection("pack_tasks")}
}

func (r *PackTaskRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "items.id", Value: 1}}},
		{Keys: bson.D{{Key: "pickTaskId", Value: 1}}},
		{Keys: bson.D{{Key: "customerOrderId", Value: 1}}},
	})
}

// Save persists a pack task with its domain events in a single transaction
func (r *PackTaskRepository) Save(ctx context.Context, task *domain.PackTask) error {
	rows, err := infrastructure.OutboxEvents(ctx, r.eventFactory, infrastructure.AggregatePackTask, task.DomainEvents())
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

func (r *PackTaskRepository) FindByID(ctx context.Context, id string) (*domain.PackTask, error) {
	return findOne[domain.PackTask](ctx, r.store, r.collection, bson.M{"_id": id})
}

func (r *PackTaskRepository) FindByItemID(ctx context.Context, itemID string) (*domain.PackTask, error) {
	return findOne[domain.PackTask](ctx, r.store, r.collection, bson.M{"items.id": itemID})
}

func (r *PackTaskRepository) FindByPickTaskID(ctx context.Context, pickTaskID string) (*domain.PackTask, error) {
	return findOne[domain.PackTask](ctx, r.store, r.collection, bson.M{"pickTaskId": pickTaskID})
}

func (r *PackTaskRepository) FindAll(ctx context.Context) ([]*domain.PackTask, error) {
	return findMany[*domain.PackTask](ctx, r.store, r.collection, bson.M{}, newestFirst())
}
