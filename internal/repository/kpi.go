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

// IKPIRepository defines KPI persistence
type IKPIRepository interface {
	Create(ctx context.Context, k *model.KPI) (*model.KPI, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.KPI, error)
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.KPI, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	AppendMeasurement(ctx context.Context, id primitive.ObjectID, m model.KPIMeasurement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// KPIRepository implements KPI persistence
type KPIRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewKPIRepository(cfg *config.Config, db *mongo.Database) IKPIRepository {
	return &KPIRepository{cfg: cfg, collection: db.Collection("kpis")}
}

func (r *KPIRepository) Create(ctx context.Context, k *model.KPI) (*model.KPI, error) {
	now := time.Now()
	k.CreatedAt = now
	k.UpdatedAt = now
	if k.Measurements == nil {
		k.Measurements = []model.KPIMeasurement{}
	}
	res, err := r.collection.InsertOne(ctx, k)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		k.ID = oid
	}
	return k, nil
}

func (r *KPIRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.KPI, error) {
	var k *model.KPI
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&k)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return k, nil
}

func (r *KPIRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.KPI, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var kpis []*model.KPI
	if err := cursor.All(ctx, &kpis); err != nil {
		return nil, err
	}
	return kpis, nil
}

func (r *KPIRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

// AppendMeasurement pushes a data point and moves the current value in one update
func (r *KPIRepository) AppendMeasurement(ctx context.Context, id primitive.ObjectID, m model.KPIMeasurement) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"measurements": m},
		"$set":  bson.M{"current": m.Value, "updatedAt": time.Now()},
	})
	return err
}

func (r *KPIRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
