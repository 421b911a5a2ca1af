package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BudgetItem is one planned spending line of a project, optionally tied
// to an activity.
type BudgetItem struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID         primitive.ObjectID `bson:"orgId" json:"orgId"`
	ProjectID     primitive.ObjectID `bson:"projectId" json:"projectId"`
	ActivityID    primitive.ObjectID `bson:"activityId,omitempty" json:"activityId,omitempty"`
	Category      string             `bson:"category" json:"category"`
	Description   string             `bson:"description" json:"description"`
	PlannedAmount float64            `bson:"plannedAmount" json:"plannedAmount"`
	PeriodStart   time.Time          `bson:"periodStart" json:"periodStart"`
	PeriodEnd     time.Time          `bson:"periodEnd" json:"periodEnd"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GetID implements generic.Entity
func (b *BudgetItem) GetID() primitive.ObjectID { return b.ID }

// SetID implements generic.Entity
func (b *BudgetItem) SetID(id primitive.ObjectID) { b.ID = id }

// Expense is an actual spend recorded against a budget item. Category is
// denormalized from the budget item at create time so the finance rollups
// stay single-collection aggregations.
type Expense struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID        primitive.ObjectID `bson:"orgId" json:"orgId"`
	ProjectID    primitive.ObjectID `bson:"projectId" json:"projectId"`
	BudgetItemID primitive.ObjectID `bson:"budgetItemId" json:"budgetItemId"`
	Category     string             `bson:"category" json:"category"`
	Description  string             `bson:"description" json:"description"`
	Amount       float64            `bson:"amount" json:"amount"`
	SpentAt      time.Time          `bson:"spentAt" json:"spentAt"`

	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GetID implements generic.Entity
func (e *Expense) GetID() primitive.ObjectID { return e.ID }

// SetID implements generic.Entity
func (e *Expense) SetID(id primitive.ObjectID) { e.ID = id }

// CategoryVariance is one row of a project finance summary
type CategoryVariance struct {
	Category    string  `json:"category"`
	Planned     float64 `json:"planned"`
	Actual      float64 `json:"actual"`
	Variance    float64 `json:"variance"` // planned - actual; negative means overrun
	VariancePct float64 `json:"variancePct"`
}

// FinanceSummary is the planned-vs-actual rollup for a project
type FinanceSummary struct {
	ProjectID      string             `json:"projectId"`
	Categories     []CategoryVariance `json:"categories"`
	TotalPlanned   float64            `json:"totalPlanned"`
	TotalActual    float64            `json:"totalActual"`
	TotalVariance  float64            `json:"totalVariance"`
	UtilizationPct float64            `json:"utilizationPct"`
}

// FinanceForecast projects spending to the end of the project period from
// the burn rate observed so far.
type FinanceForecast struct {
	ProjectID         string  `json:"projectId"`
	TotalBudget       float64 `json:"totalBudget"`
	CurrentSpend      float64 `json:"currentSpend"`
	DailyBurnRate     float64 `json:"dailyBurnRate"`
	DaysElapsed       int     `json:"daysElapsed"`
	DaysRemaining     int     `json:"daysRemaining"`
	ProjectedTotal    float64 `json:"projectedTotal"`
	ProjectedOverrun  float64 `json:"projectedOverrun"` // positive means over budget
	BudgetUsedPercent float64 `json:"budgetUsedPercent"`
}
