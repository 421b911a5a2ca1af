package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Beneficiary struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID     primitive.ObjectID `bson:"orgId" json:"orgId"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	Name      string             `bson:"name" json:"name"`
	Gender    string             `bson:"gender" json:"gender"`
	AgeGroup  string             `bson:"ageGroup" json:"ageGroup"`
	Location  string             `bson:"location" json:"location"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GetID implements generic.Entity
func (b *Beneficiary) GetID() primitive.ObjectID { return b.ID }

// SetID implements generic.Entity
func (b *Beneficiary) SetID(id primitive.ObjectID) { b.ID = id }

// Demographics buckets a project's beneficiaries along the three
// dimensions the dashboards chart.
type Demographics struct {
	Total      int64            `json:"total"`
	ByGender   map[string]int64 `json:"byGender"`
	ByAgeGroup map[string]int64 `json:"byAgeGroup"`
	ByLocation map[string]int64 `json:"byLocation"`
}
