package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure"
)

type PickTaskRepository struct {
	*store
	collection *mongo.Collection
}

func newPickTaskRepository(s *store) *PickTaskRepository {
	return &PickTaskRepository{store: s, collection: s.db.Collection("pick_tasks")}
}

func (r *PickTaskRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "items.id", Value: 1}}},
		{Keys: bson.D{{Key: "customerOrderId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "dueDate", Value: 1}}},
	})
}

// Save persists a pick task with its domain events in a single transaction
func (r *PickTaskRepository) Save(ctx context.Context, task *domain.PickTask) error {
	rows, err := infrastructure.OutboxEvents(ctx, r.eventFactory, infrastructure.AggregatePickTask, task.DomainEvents())
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

func (r *PickTaskRepository) FindByID(ctx context.Context, id string) (*domain.PickTask, error) {
	return findOne[domain.PickTask](ctx, r.store, r.collection, bson.M{"_id": id})
}

func (r *PickTaskRepository) FindByItemID(ctx context.Context, itemID string) (*domain.PickTask, error) {
	return findOne[domain.PickTask](ctx, r.store, r.collection, bson.M{"items.id": itemID})
}

func (r *PickTaskRepository) FindByOrderID(ctx context.Context, orderID string) ([]*domain.PickTask, error) {
	return findMany[*domain.PickTask](ctx, r.store, r.collection, bson.M{"customerOrderId": orderID}, newestFirst())
}

func (r *PickTaskRepository) FindAll(ctx context.Context) ([]*domain.PickTask, error) {
	return findMany[*domain.PickTask](ctx, r.store, r.collection, bson.M{}, newestFirst())
}

// CountOverdue counts open tasks whose due date has passed
func (r *PickTaskRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":  bson.M{"$in": []domain.PickTaskStatus{domain.PickTaskStatusPending, domain.PickTaskStatusInProgress}},
		"dueDate": bson.M{"$lt": now},
	}

	var count int64
	err := r.instr.Observe(ctx, r.collection.Name(), "count", func(ctx context.Context) error {
		var err error
		count, err = r.collection.CountDocuments(ctx, filter)
		return err
	})
	return count, err
}
