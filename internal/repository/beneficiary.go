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

// IBeneficiaryRepository defines beneficiary persistence
type IBeneficiaryRepository interface {
	generic.BaseRepository[*model.Beneficiary]
	FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Beneficiary, error)
	Demographics(ctx context.Context, projectID primitive.ObjectID) (*model.Demographics, error)
}

// BeneficiaryRepository implements beneficiary persistence on top of the
// generic Mongo base repository.
type BeneficiaryRepository struct {
	*generic.MongoBaseRepository[*model.Beneficiary]
	cfg *config.Config
}

func NewBeneficiaryRepository(cfg *config.Config, db *mongo.Database) IBeneficiaryRepository {
	return &BeneficiaryRepository{
		MongoBaseRepository: generic.NewBaseRepository[*model.Beneficiary](db.Collection("beneficiaries")),
		cfg:                 cfg,
	}
}

func (r *BeneficiaryRepository) FindByProject(ctx context.Context, projectID primitive.ObjectID) ([]*model.Beneficiary, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	return r.Find(ctx, bson.M{"projectId": projectID}, opts)
}

// Demographics buckets a project's beneficiaries by gender, age group and
// location with a single $facet aggregation.
func (r *BeneficiaryRepository) Demographics(ctx context.Context, projectID primitive.ObjectID) (*model.Demographics, error) {
	groupBy := func(field string) mongo.Pipeline {
		return mongo.Pipeline{
			{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"projectId": projectID}}},
		{{Key: "$facet", Value: bson.M{
			"byGender":   groupBy("gender"),
			"byAgeGroup": groupBy("ageGroup"),
			"byLocation": groupBy("location"),
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	type bucket struct {
		Key   string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	var results []struct {
		ByGender   []bucket `bson:"byGender"`
		ByAgeGroup []bucket `bson:"byAgeGroup"`
		ByLocation []bucket `bson:"byLocation"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	demo := &model.Demographics{
		ByGender:   map[string]int64{},
		ByAgeGroup: map[string]int64{},
		ByLocation: map[string]int64{},
	}
	if len(results) == 0 {
		return demo, nil
	}

	for _, b := range results[0].ByGender {
		demo.ByGender[b.Key] = b.Count
		demo.Total += b.Count
	}
	for _, b := range results[0].ByAgeGroup {
		demo.ByAgeGroup[b.Key] = b.Count
	}
	for _, b := range results[0].ByLocation {
		demo.ByLocation[b.Key] = b.Count
	}
	return demo, nil
}
