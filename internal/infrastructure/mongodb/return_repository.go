package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure"
)

type ReturnRequestRepository struct {
	*store
	collection *mongo.Collection
}

func newReturnRequestRepository(s *store) *ReturnRequestRepository {
	return &ReturnRequestRepository{store: s, collection: s.db.Collection("return_requests")}
}

func (r *ReturnRequestRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
}

func (r *ReturnRequestRepository) Save(ctx context.Context, ret *domain.ReturnRequest) error {
	rows, err := infrastructure.OutboxEvents(ctx, r.eventFactory, infrastructure.AggregateReturnRequest, ret.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := ret.Version, ret.UpdatedAt
	ret.Version = prev + 1
	ret.UpdatedAt = time.Now().UTC()

	if err := r.save(ctx, r.collection, ret.ID, prev, ret, rows); err != nil {
		ret.Version, ret.UpdatedAt = prev, prevUpdated
		return err
	}

	ret.ClearDomainEvents()
	return nil
}

func (r *ReturnRequestRepository) FindByID(ctx context.Context, id string) (*domain.ReturnRequest, error) {
	return findOne[domain.ReturnRequest](ctx, r.store, r.collection, bson.M{"_id": id})
}

func (r *ReturnRequestRepository) FindAll(ctx context.Context) ([]*domain.ReturnRequest, error) {
	return findMany[*domain.ReturnRequest](ctx, r.store, r.collection, bson.M{}, newestFirst())
}
