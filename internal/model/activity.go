package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity status values
const (
	ActivityPlanned    = "planned"
	ActivityInProgress = "in_progress"
	ActivityCompleted  = "completed"
	ActivityDelayed    = "delayed"
)

type Activity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID        primitive.ObjectID `bson:"orgId" json:"orgId"`
	ProjectID    primitive.ObjectID `bson:"projectId" json:"projectId"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Status       string             `bson:"status" json:"status"`
	PlannedStart time.Time          `bson:"plannedStart" json:"plannedStart"`
	PlannedEnd   time.Time          `bson:"plannedEnd" json:"plannedEnd"`
	ActualStart  *time.Time         `bson:"actualStart,omitempty" json:"actualStart,omitempty"`
	ActualEnd    *time.Time         `bson:"actualEnd,omitempty" json:"actualEnd,omitempty"`

	PlannedOutput float64 `bson:"plannedOutput" json:"plannedOutput"`
	ActualOutput  float64 `bson:"actualOutput" json:"actualOutput"`
	OutputUnit    string  `bson:"outputUnit" json:"outputUnit"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidActivityStatus reports whether s is a known activity status
func ValidActivityStatus(s string) bool {
	switch s {
	case ActivityPlanned, ActivityInProgress, ActivityCompleted, ActivityDelayed:
		return true
	}
	return false
}

// ActivityVariance compares planned vs actual schedule, output and budget
// for a single activity.
type ActivityVariance struct {
	ActivityID string `json:"activityId"`
	Name       string `json:"name"`
	Status     string `json:"status"`

	// Schedule: positive days mean the activity is running late
	ScheduleVarianceDays int  `json:"scheduleVarianceDays"`
	ScheduleSlipped      bool `json:"scheduleSlipped"`

	// Output: actual minus planned
	OutputVariance    float64 `json:"outputVariance"`
	OutputVariancePct float64 `json:"outputVariancePct"`
	OutputUnit        string  `json:"outputUnit"`

	// Budget lines attached to this activity
	BudgetPlanned     float64 `json:"budgetPlanned"`
	BudgetSpent       float64 `json:"budgetSpent"`
	BudgetVariance    float64 `json:"budgetVariance"`
	BudgetVariancePct float64 `json:"budgetVariancePct"`
}
