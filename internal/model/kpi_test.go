package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKPIAttainment(t *testing.T) {
	t.Run("increase halfway", func(t *testing.T) {
		k := &KPI{Direction: KPIDirectionIncrease, Baseline: 0, Target: 100, Current: 50}
		assert.Equal(t, 50.0, k.Attainment())
	})

	t.Run("decrease halfway", func(t *testing.T) {
		k := &KPI{Direction: KPIDirectionDecrease, Baseline: 40, Target: 20, Current: 30}
		assert.Equal(t, 50.0, k.Attainment())
	})

	t.Run("regression clamps to zero", func(t *testing.T) {
		k := &KPI{Direction: KPIDirectionIncrease, Baseline: 10, Target: 20, Current: 5}
		assert.Equal(t, 0.0, k.Attainment())
	})

	t.Run("overshoot clamps to 200", func(t *testing.T) {
		k := &KPI{Direction: KPIDirectionIncrease, Baseline: 0, Target: 10, Current: 50}
		assert.Equal(t, 200.0, k.Attainment())
	})

	t.Run("zero span", func(t *testing.T) {
		k := &KPI{Baseline: 10, Target: 10, Current: 10}
		assert.Equal(t, 0.0, k.Attainment())
	})
}
