// Package mongodb keeps the outbox in a MongoDB collection.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wms-platform/warehouse-ops/pkg/outbox"
)

const collectionName = "outbox_events"

// Store implements outbox.Store. A mongo.SessionContext passed to Append
// enlists the insert in the caller's transaction.
type Store struct {
	messages *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{messages: db.Collection(collectionName)}
}

func (s *Store) Append(ctx context.Context, msgs ...*outbox.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	docs := make([]any, len(msgs))
	for i, m := range msgs {
		docs[i] = m
	}
	if _, err := s.messages.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to append outbox messages: %w", err)
	}
	return nil
}

func (s *Store) find(ctx context.Context, filter bson.M, limit int) ([]*outbox.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var msgs []*outbox.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *Store) Pending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	msgs, err := s.find(ctx, bson.M{
		"publishedAt": bson.M{"$exists": false},
		"$expr":       bson.M{"$lt": bson.A{"$attempts", "$maxAttempts"}},
	}, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending outbox messages: %w", err)
	}
	return msgs, nil
}

func (s *Store) ForAggregate(ctx context.Context, aggregateID string) ([]*outbox.Message, error) {
	msgs, err := s.find(ctx, bson.M{"aggregateId": aggregateID}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load outbox messages of %s: %w", aggregateID, err)
	}
	return msgs, nil
}

func (s *Store) update(ctx context.Context, id string, update bson.M) error {
	result, err := s.messages.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return outbox.ErrUnknownMessage
	}
	return nil
}

func (s *Store) MarkPublished(ctx context.Context, id string) error {
	return s.update(ctx, id, bson.M{"$set": bson.M{"publishedAt": time.Now().UTC()}})
}

func (s *Store) RecordFailure(ctx context.Context, id, reason string) error {
	return s.update(ctx, id, bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"lastError": reason},
	})
}

func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	result, err := s.messages.DeleteMany(ctx, bson.M{
		"publishedAt": bson.M{"$lt": time.Now().UTC().Add(-olderThan)},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune outbox: %w", err)
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates the indexes behind Pending, ForAggregate and Prune
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.messages.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "publishedAt", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("published_created"),
		},
		{
			Keys:    bson.D{{Key: "aggregateId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("aggregate_created"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create outbox indexes: %w", err)
	}
	return nil
}
