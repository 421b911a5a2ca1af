package repository

import (
	"context"
	"time"

	"datarw/internal/config"
	"datarw/internal/model"
	"datarw/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IExpenseRepository defines expense persistence
type IExpenseRepository interface {
	generic.BaseRepository[*model.Expense]
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Expense, error)
	SumActualByCategory(ctx context.Context, projectID primitive.ObjectID) (map[string]float64, error)
	SumByProject(ctx context.Context, projectID primitive.ObjectID) (float64, error)
	SumByBudgetItems(ctx context.Context, itemIDs []primitive.ObjectID) (float64, error)
	EarliestSpend(ctx context.Context, projectID primitive.ObjectID) (time.Time, error)
}

// ExpenseRepository implements expense persistence
type ExpenseRepository struct {
	*generic.MongoBaseRepository[*model.Expense]
	cfg *config.Config
}

func NewExpenseRepository(cfg *config.Config, db *mongo.Database) IExpenseRepository {
	return &ExpenseRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.Expense](db.Collection("expenses")),
		cfg:                 cfg,
	}
}

func (r *ExpenseRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Expense, error) {
	opts := options.Find().SetSort(bson.M{"spentAt": -1})
	return r.Find(ctx, bson.M{"projectId": projectID}, opts)
}

// SumActualByCategory totals recorded spend per category for a project
func (r *ExpenseRepository) SumActualByCategory(ctx context.Context, projectID primitive.ObjectID) (map[string]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"projectId": projectID}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "total": bson.M{"$sum": "$amount"}}}},
	}
	return sumByCategory(ctx, r.Collection, pipeline)
}

// SumByProject totals all spend for a project
func (r *ExpenseRepository) SumByProject(ctx context.Context, projectID primitive.ObjectID) (float64, error) {
	return r.sumTotal(ctx, bson.M{"projectId": projectID})
}

// SumByBudgetItems totals spend against a set of budget lines
func (r *ExpenseRepository) SumByBudgetItems(ctx context.Context, itemIDs []primitive.ObjectID) (float64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	return r.sumTotal(ctx, bson.M{"budgetItemId": bson.M{"$in": itemIDs}})
}

func (r *ExpenseRepository) sumTotal(ctx context.Context, match bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// EarliestSpend returns the first recorded expense date, used as the start
// of the burn-rate window when the project has no explicit start date.
func (r *ExpenseRepository) EarliestSpend(ctx context.Context, projectID primitive.ObjectID) (time.Time, error) {
	opts := options.FindOne().SetSort(bson.M{"spentAt": 1})
	var e model.Expense
	err := r.Collection.FindOne(ctx, bson.M{"projectId": projectID}, opts).Decode(&e)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return e.SpentAt, nil
}
