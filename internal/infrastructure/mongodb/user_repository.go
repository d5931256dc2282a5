package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wms-platform/warehouse-ops/internal/domain"
)

type UserRepository struct {
	*store
	collection *mongo.Collection
}

func newUserRepository(s *store) *UserRepository {
	return &UserRepository{store: s, collection: s.db.Collection("users")}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return r.upsert(ctx, r.collection, user.Username, user)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.store, r.collection, bson.M{"_id": username})
}

type SettingsRepository struct {
	*store
	collection *mongo.Collection
}

func newSettingsRepository(s *store) *SettingsRepository {
	return &SettingsRepository{store: s, collection: s.db.Collection("user_settings")}
}

func (r *SettingsRepository) Save(ctx context.Context, settings *domain.UserSettings) error {
	return r.upsert(ctx, r.collection, settings.UserID, settings)
}

func (r *SettingsRepository) FindByUserID(ctx context.Context, userID string) (*domain.UserSettings, error) {
	return findOne[domain.UserSettings](ctx, r.store, r.collection, bson.M{"_id": userID})
}
