package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanSpec(t *testing.T) {
	assert.Equal(t, 5, PlanBasic.Spec().MaxUsers)
	assert.Equal(t, 0.0, PlanBasic.Spec().MonthlyPrice)
	assert.Equal(t, 100, PlanPro.Spec().MaxSurveys)
	assert.Equal(t, Unlimited, PlanEnterprise.Spec().MaxProjects)

	// Unknown tiers degrade to basic limits
	assert.Equal(t, PlanBasic.Spec(), Plan("gold").Spec())
}

func TestPlanIsValid(t *testing.T) {
	assert.True(t, PlanBasic.IsValid())
	assert.True(t, PlanEnterprise.IsValid())
	assert.False(t, Plan("gold").IsValid())
	assert.False(t, Plan("").IsValid())
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(3, 2))
	assert.False(t, Allows(3, 3))
	assert.False(t, Allows(0, 0))
	assert.True(t, Allows(Unlimited, 1_000_000))
}
