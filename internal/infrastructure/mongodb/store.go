package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/warehouse-ops/internal/domain"
	"github.com/wms-platform/warehouse-ops/pkg/cloudevents"
	pkgmongo "github.com/wms-platform/warehouse-ops/pkg/mongodb"
	"github.com/wms-platform/warehouse-ops/pkg/outbox"
	outboxMongo "github.com/wms-platform/warehouse-ops/pkg/outbox/mongodb"
)

// store carries what every repository needs to persist an aggregate
// together with its outbox rows
type store struct {
	db           *mongo.Database
	tx           *Transactor
	outbox       *outboxMongo.Store
	eventFactory *cloudevents.EventFactory
	instr        *pkgmongo.Instrumentation
}

// save writes doc guarded by its previous version and appends rows in the
// same transaction. A previous version of zero means the document is new.
func (s *store) save(ctx context.Context, coll *mongo.Collection, id string, prevVersion int64, doc interface{}, rows []*outbox.Message) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		err := s.instr.Observe(ctx, coll.Name(), "save", func(ctx context.Context) error {
			if prevVersion == 0 {
				_, err := coll.InsertOne(ctx, doc)
				if pkgmongo.IsDuplicateKey(err) {
					return domain.ErrConcurrentModification
				}
				return err
			}

			res, err := coll.ReplaceOne(ctx, bson.M{"_id": id, "version": prevVersion}, doc)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return domain.ErrConcurrentModification
			}
			return nil
		})
		if err != nil {
			return err
		}

		if len(rows) > 0 {
			if err := s.outbox.Append(ctx, rows...); err != nil {
				return fmt.Errorf("failed to save outbox events: %w", err)
			}
		}
		return nil
	})
}

// upsert replaces the document with the given id, inserting it when absent
func (s *store) upsert(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	return s.instr.Observe(ctx, coll.Name(), "upsert", func(ctx context.Context) error {
		_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
		return err
	})
}

func findOne[T any](ctx context.Context, s *store, coll *mongo.Collection, filter interface{}) (*T, error) {
	var out T
	err := s.instr.Observe(ctx, coll.Name(), "find_one", func(ctx context.Context) error {
		return coll.FindOne(ctx, filter).Decode(&out)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, s *store, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	out := make([]T, 0)
	err := s.instr.Observe(ctx, coll.Name(), "find", func(ctx context.Context) error {
		cursor, err := coll.Find(ctx, filter, opts...)
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)
		return cursor.All(ctx, &out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", coll.Name(), err)
	}
	return nil
}
