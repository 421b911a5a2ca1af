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

// IBudgetRepository defines budget item persistence
type IBudgetRepository interface {
	generic.BaseRepository[*model.BudgetItem]
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.BudgetItem, error)
	FindByActivity(ctx context.Context, activityID primitive.ObjectID) ([]*model.BudgetItem, error)
	SumPlannedByCategory(ctx context.Context, projectID primitive.ObjectID) (map[string]float64, error)
}

// BudgetRepository implements budget item persistence
type BudgetRepository struct {
	*generic.MongoBaseRepository[*model.BudgetItem]
	cfg *config.Config
}

func NewBudgetRepository(cfg *config.Config, db *mongo.Database) IBudgetRepository {
	return &BudgetRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.BudgetItem](db.Collection("budget_items")),
		cfg:                 cfg,
	}
}

func (r *BudgetRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.BudgetItem, error) {
	opts := options.Find().SetSort(bson.M{"category": 1})
	return r.Find(ctx, bson.M{"projectId": projectID}, opts)
}

func (r *BudgetRepository) FindByActivity(ctx context.Context, activityID primitive.ObjectID) ([]*model.BudgetItem, error) {
	return r.Find(ctx, bson.M{"activityId": activityID})
}

// SumPlannedByCategory totals planned amounts per category for a project
func (r *BudgetRepository) SumPlannedByCategory(ctx context.Context, projectID primitive.ObjectID) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"projectId": projectID}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "total": bson.M{"$sum": "$plannedAmount"}}}},
	}
	return sumByCategory(ctx, r.Collection, pipeline)
}

// sumByCategory runs a category/total grouping pipeline and decodes it into a map
func sumByCategory(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (map[string]float64, error) {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Category string  `bson:"_id"`
		Total    float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.Category] = row.Total
	}
	return totals, nil
}
