package idempotency

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "idempotency_records"

// MongoStore keeps records in MongoDB. A TTL index expires them.
type MongoStore struct {
	records *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{records: db.Collection(collectionName)}
}

// Reserve upserts with $setOnInsert only, so a held record comes back
// unchanged and the unique index settles concurrent inserts
func (s *MongoStore) Reserve(ctx context.Context, rec *Record) (*Record, bool, error) {
	doc, err := bson.Marshal(rec)
	if err != nil {
		return nil, false, err
	}

	var held Record
	err = s.records.FindOneAndUpdate(ctx,
		bson.M{"service": rec.Service, "key": rec.Key},
		bson.M{"$setOnInsert": bson.Raw(doc)},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before),
	).Decode(&held)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return rec, true, nil
	case mongo.IsDuplicateKeyError(err):
		return s.held(ctx, rec.Service, rec.Key)
	case err != nil:
		return nil, false, err
	}
	return &held, false, nil
}

func (s *MongoStore) held(ctx context.Context, service, key string) (*Record, bool, error) {
	var held Record
	if err := s.records.FindOne(ctx, bson.M{"service": service, "key": key}).Decode(&held); err != nil {
		return nil, false, err
	}
	return &held, false, nil
}

func (s *MongoStore) Complete(ctx context.Context, id string, resp Response) error {
	result, err := s.records.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"response": resp, "completedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Release(ctx context.Context, id string) error {
	_, err := s.records.DeleteOne(ctx, bson.M{"_id": id, "completedAt": bson.M{"$exists": false}})
	return err
}

func (s *MongoStore) Purge(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.records.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates the per-service key constraint and the TTL index
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.records.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "service", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("service_key_unique"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_ttl"),
		},
	})
	return err
}
