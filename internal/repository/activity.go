package repository

import (
	"context"
	"time"

	"datarw/internal/config"
	"datarw/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IActivityRepository defines activity persistence
type IActivityRepository interface {
	Create(ctx context.Context, a *model.Activity) (*model.Activity, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Activity, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Activity, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByStatus(ctx context.Context, projectID primitive.ObjectID) (map[string]int64, error)
}

// ActivityRepository implements activity persistence
type ActivityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewActivityRepository(cfg *config.Config, db *mongo.Database) IActivityRepository {
	return &ActivityRepository{cfg: cfg, collection: db.Collection("activities")}
}

func (r *ActivityRepository) Create(ctx context.Context, a *model.Activity) (*model.Activity, error) {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, a)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return a, nil
}

func (r *ActivityRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Activity, error) {
	var a *model.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (r *ActivityRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Activity, error) {
	opts := options.Find().SetSort(bson.M{"plannedStart": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []*model.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *ActivityRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *ActivityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CountByStatus groups a project's activities by status
func (r *ActivityRepository) CountByStatus(ctx context.Context, projectID primitive.ObjectID) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"projectId": projectID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
