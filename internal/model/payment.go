package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment transaction status values
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// PaymentTransaction records one subscription checkout through the gateway
type PaymentTransaction struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID         primitive.ObjectID `bson:"orgId" json:"orgId"`
	Plan          Plan               `bson:"plan" json:"plan"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Status        string             `bson:"status" json:"status"`
	GatewayRef    string             `bson:"gatewayRef" json:"gatewayRef"`
	FailureReason string             `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	InitiatedBy   primitive.ObjectID `bson:"initiatedBy" json:"initiatedBy"`
	SettledAt     *time.Time         `bson:"settledAt,omitempty" json:"settledAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CheckoutRequest starts a plan upgrade
type CheckoutRequest struct {
	Plan Plan `json:"plan" binding:"required"`
}

// WebhookPayload is the gateway's settlement callback body
type WebhookPayload struct {
	GatewayRef    string `json:"gatewayRef" binding:"required"`
	Status        string `json:"status" binding:"required"`
	FailureReason string `json:"failureReason"`
}
