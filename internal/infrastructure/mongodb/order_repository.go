package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/internal/infrastructure"
)

type OrderRepository struct {
	*store
	collection *mongo.Collection
}

func newOrderRepository(s *store) *OrderRepository {
	return &OrderRepository{store: s, collection: s.db.Collection("orders")}
}

func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	return ensureIndexes(ctx, r.collection, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
}

// Save persists an order with its domain events in a single transaction
func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	rows, err := infrastructure.OutboxEvents(ctx, r.eventFactory, infrastructure.AggregateOrder, order.DomainEvents())
	if err != nil {
		return err
	}

	prev, prevUpdated := order.Version, order.UpdatedAt
	order.Version = prev + 1
	order.UpdatedAt = time.Now().UTC()

	if err := r.save(ctx, r.collection, order.ID, prev, order, rows); err != nil {
		order.Version, order.UpdatedAt = prev, prevUpdated
		return err
	}

	order.ClearDomainEvents()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return findOne[domain.Order](ctx, r.store, r.collection, bson.M{"_id": id})
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return findMany[*domain.Order](ctx, r.store, r.collection, bson.M{}, newestFirst())
}

// Delete removes the order at its loaded version and records its events
func (r *OrderRepository) Delete(ctx context.Context, order *domain.Order) error {
	rows, err := infrastructure.OutboxEvents(ctx, r.eventFactory, infrastructure.AggregateOrder, order.DomainEvents())
	if err != nil {
		return err
	}

	err = r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		err := r.instr.Observe(ctx, r.collection.Name(), "delete", func(ctx context.Context) error {
			res, err := r.collection.DeleteOne(ctx, bson.M{"_id": order.ID, "version": order.Version})
			if err != nil {
				return err
			}
			if res.DeletedCount == 0 {
				return domain.ErrConcurrentModification
			}
			return nil
		})
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := r.outbox.Append(ctx, rows...); err != nil {
				return fmt.Errorf("failed to save outbox events: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.ClearDomainEvents()
	return nil
}
