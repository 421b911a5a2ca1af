package repository

import (
	"context"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ISurveyResponseRepository defines survey response persistence
type ISurveyResponseRepository interface {
	generic.BaseRepository[*model.SurveyResponse]
	FindBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]*model.SurveyResponse, error)
	CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error)
}

// SurveyResponseRepository implements survey response persistence
type SurveyResponseRepository struct {
	*generic.MongoBaseRepository[*model.SurveyResponse]
	cfg *config.Config
}

func NewSurveyResponseRepository(cfg *config.Config, db *mongo.Database) ISurveyResponseRepository {
	return &SurveyResponseRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.SurveyResponse](db.Collection("survey_responses")),
		cfg:                 cfg,
	}
}

func (r *SurveyResponseRepository) FindBySurvey(ctx context.Context, surveyID primitive.ObjectID) ([]*model.SurveyResponse, error) {
	opts := options.Find().SetSort(bson.M{"submittedAt": -1})
	return r.Find(ctx, bson.M{"surveyId": surveyID}, opts)
}

func (r *SurveyResponseRepository) CountBySurvey(ctx context.Context, surveyID primitive.ObjectID) (int64, error) {
	return r.Count(ctx, bson.M{"surveyId": surveyID})
}
