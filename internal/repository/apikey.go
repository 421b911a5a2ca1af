package repository

import (
	"context"
	"time"

	"datarw/internal/config"
	"datarw/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IAPIKeyRepository defines API key persistence
type IAPIKeyRepository interface {
	Create(ctx context.Context, key *model.APIKey) (*model.APIKey, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.APIKey, error)
	FindByOrgID(ctx context.Context, orgID primitive.ObjectID) ([]*model.APIKey, error)
	FindActive(ctx context.Context) ([]*model.APIKey, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	UpdateLastUsed(ctx context.Context, id primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, filter interface{}) (int64, error)
}

// APIKeyRepository implements API key persistence
type APIKeyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewAPIKeyRepository(cfg *config.Config, db *mongo.Database) IAPIKeyRepository {
	return &APIKeyRepository{cfg: cfg, collection: db.Collection("apikeys")}
}

func (r *APIKeyRepository) Create(ctx context.Context, key *model.APIKey) (*model.APIKey, error) {
	res, err := r.collection.InsertOne(ctx, key)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		key.ID = oid
	}
	return key, nil
}

func (r *APIKeyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.APIKey, error) {
	var key *model.APIKey
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&key)
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepository) FindByOrgID(ctx context.Context, orgID primitive.ObjectID) ([]*model.APIKey, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"orgId": orgID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var keys []*model.APIKey
	if err := cursor.All(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *APIKeyRepository) FindActive(ctx context.Context) ([]*model.APIKey, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var keys []*model.APIKey
	if err := cursor.All(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *APIKeyRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastUsedAt": time.Now()}})
	return err
}

func (r *APIKeyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *APIKeyRepository) Count(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return r.collection.CountDocuments(ctx, filter)
}
