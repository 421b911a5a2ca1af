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

// IPaymentRepository defines payment transaction persistence
type IPaymentRepository interface {
	Create(ctx context.Context, tx *model.PaymentTransaction) (*model.PaymentTransaction, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.PaymentTransaction, error)
	FindByGatewayRef(ctx context.Context, ref string) (*model.PaymentTransaction, error)
	FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.PaymentTransaction, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
}

// PaymentRepository implements payment transaction persistence
type PaymentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewPaymentRepository(cfg *config.Config, db *mongo.Database) IPaymentRepository {
	return &PaymentRepository{cfg: cfg, collection: db.Collection("payment_transactions")}
}

func (r *PaymentRepository) Create(ctx context.Context, tx *model.PaymentTransaction) (*model.PaymentTransaction, error) {
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, tx)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid
	}
	return tx, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.PaymentTransaction, error) {
	var tx *model.PaymentTransaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}

func (r *PaymentRepository) FindByGatewayRef(ctx context.Context, ref string) (*model.PaymentTransaction, error) {
	var tx *model.PaymentTransaction
	err := r.collection.FindOne(ctx, bson.M{"gatewayRef": ref}).Decode(&tx)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}

func (r *PaymentRepository) FindByOrg(ctx context.Context, orgID primitive.ObjectID) ([]*model.PaymentTransaction, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"orgId": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []*model.PaymentTransaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *PaymentRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}
