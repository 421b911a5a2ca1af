package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// KPI direction values
const (
	KPIDirectionIncrease = "increase"
	KPIDirectionDecrease = "decrease"
)

type KPI struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID     primitive.ObjectID `bson:"orgId" json:"orgId"`
	ProjectID primitive.ObjectID `bson:"projectId" json:"projectId"`
	Name      string             `bson:"name" json:"name"`
	Unit      string             `bson:"unit" json:"unit"`
	Direction string             `bson:"direction" json:"direction"`
	Baseline  float64            `bson:"baseline" json:"baseline"`
	Target    float64            `bson:"target" json:"target"`
	Current   float64            `bson:"current" json:"current"`

	Measurements []KPIMeasurement `bson:"measurements" json:"measurements"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// KPIMeasurement is one recorded data point in a KPI's history
type KPIMeasurement struct {
	Value      float64            `bson:"value" json:"value"`
	Note       string             `bson:"note,omitempty" json:"note,omitempty"`
	RecordedAt time.Time          `bson:"recordedAt" json:"recordedAt"`
	RecordedBy primitive.ObjectID `bson:"recordedBy" json:"recordedBy"`
}

// Attainment returns progress from baseline toward target as a percentage,
// clamped to [0, 200]. Direction-aware: a decrease KPI attains as the value
// falls below the baseline.
func (k *KPI) Attainment() float64 {
	span := k.Target - k.Baseline
	if span == 0 {
		return 0
	}
	pct := (k.Current - k.Baseline) / span * 100
	if pct < 0 {
		return 0
	}
	if pct > 200 {
		return 200
	}
	return pct
}

// KPISummaryEntry is one row of a project KPI summary
type KPISummaryEntry struct {
	KPIID      string  `json:"kpiId"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Baseline   float64 `json:"baseline"`
	Target     float64 `json:"target"`
	Current    float64 `json:"current"`
	Attainment float64 `json:"attainment"`
}

// KPISummary rolls up a project's KPIs
type KPISummary struct {
	ProjectID         string            `json:"projectId"`
	KPIs              []KPISummaryEntry `json:"kpis"`
	AverageAttainment float64           `json:"averageAttainment"`
}
