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

// ISurveyRepository defines survey persistence
type ISurveyRepository interface {
	Create(ctx context.Context, s *model.Survey) (*model.Survey, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Survey, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Survey, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error)
	IncResponseCount(ctx context.Context, id primitive.ObjectID) error
}

// SurveyRepository implements survey persistence
type SurveyRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewSurveyRepository(cfg *config.Config, db *mongo.Database) ISurveyRepository {
	return &SurveyRepository{cfg: cfg, collection: db.Collection("surveys")}
}

func (r *SurveyRepository) Create(ctx context.Context, s *model.Survey) (*model.Survey, error) {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Questions == nil {
		s.Questions = []model.Question{}
	}
	res, err := r.collection.InsertOne(ctx, s)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return s, nil
}

func (r *SurveyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Survey, error) {
	var s *model.Survey
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *SurveyRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.Survey, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"orgId": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var surveys []*model.Survey
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *SurveyRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *SurveyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *SurveyRepository) CountByOrg(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"orgId": orgID})
}

func (r *SurveyRepository) IncResponseCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"responseCount": 1}})
	return err
}
