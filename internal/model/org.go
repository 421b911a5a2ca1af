package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Organization struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	OwnerID      primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Plan         Plan               `bson:"plan" json:"plan"`
	Usage        OrgUsage           `bson:"usage" json:"usage"`
	Subscription Subscription       `bson:"subscription" json:"subscription"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrgUsage holds the plan-limit counters, reconciled periodically from
// collection counts by the usage monitor.
type OrgUsage struct {
	Users    int64 `bson:"users" json:"users"`
	Projects int64 `bson:"projects" json:"projects"`
	Surveys  int64 `bson:"surveys" json:"surveys"`
}

// Subscription tracks the paid window for non-basic plans
type Subscription struct {
	Status    string    `bson:"status" json:"status"` // active, past_due, none
	RenewsAt  time.Time `bson:"renewsAt,omitempty" json:"renewsAt,omitempty"`
	StartedAt time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
}

// OrgUsageReport pairs live counts with the plan's caps for GET /orgs/me/usage
type OrgUsageReport struct {
	Plan  Plan     `json:"plan"`
	Spec  PlanSpec `json:"limits"`
	Usage OrgUsage `json:"usage"`
}
