package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project status values
const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on_hold"
)

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID       primitive.ObjectID `bson:"orgId" json:"orgId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	TotalBudget float64            `bson:"totalBudget" json:"totalBudget"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidProjectStatus reports whether s is a known project status
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// ProjectDashboard aggregates a project's headline numbers
type ProjectDashboard struct {
	Project           *Project         `json:"project"`
	ActivityByStatus  map[string]int64 `json:"activityByStatus"`
	KPIAttainment     float64          `json:"kpiAttainment"`
	BudgetPlanned     float64          `json:"budgetPlanned"`
	BudgetSpent       float64          `json:"budgetSpent"`
	BudgetUtilization float64          `json:"budgetUtilization"`
	BeneficiaryCount  int64            `json:"beneficiaryCount"`
}
