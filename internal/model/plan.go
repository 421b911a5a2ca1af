package model

// Plan identifies a subscription tier
type Plan string

const (
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Unlimited marks a plan dimension without a cap
const Unlimited = -1

// PlanSpec describes the limits and monthly price of a subscription tier
type PlanSpec struct {
	MaxUsers     int     `json:"maxUsers"`
	MaxProjects  int     `json:"maxProjects"`
	MaxSurveys   int     `json:"maxSurveys"`
	MonthlyPrice float64 `json:"monthlyPrice"`
}

// PlanTable maps each tier to its limits
var PlanTable = map[Plan]PlanSpec{
	PlanBasic:      {MaxUsers: 5, MaxProjects: 3, MaxSurveys: 10, MonthlyPrice: 0},
	PlanPro:        {MaxUsers: 25, MaxProjects: 20, MaxSurveys: 100, MonthlyPrice: 29},
	PlanEnterprise: {MaxUsers: Unlimited, MaxProjects: Unlimited, MaxSurveys: Unlimited, MonthlyPrice: 99},
}

// IsValid reports whether the plan is a known tier
func (p Plan) IsValid() bool {
	_, ok := PlanTable[p]
	return ok
}

// Spec returns the plan's limits; unknown plans fall back to basic
func (p Plan) Spec() PlanSpec {
	if spec, ok := PlanTable[p]; ok {
		return spec
	}
	return PlanTable[PlanBasic]
}

// Allows reports whether a dimension with the given cap admits one more entry
func Allows(cap int, current int64) bool {
	return cap == Unlimited || current < int64(cap)
}
