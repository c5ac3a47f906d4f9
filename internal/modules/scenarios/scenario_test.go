package scenarios

import (
	"errors"
	"math"
	"testing"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrajectory_At(t *testing.T) {
	tr := Trajectory{1.0, 1.1, 1.2}

	assert.Equal(t, 1.0, tr.At(1, 9))
	assert.Equal(t, 1.2, tr.At(3, 9))
	assert.Equal(t, 1.2, tr.At(4, 9), "extends by repeating last value")
	assert.Equal(t, 1.2, tr.At(15, 9))
	assert.Equal(t, 1.0, tr.At(0, 9))
	assert.Equal(t, 9.0, Trajectory{}.At(5, 9), "empty uses fallback")
}

func TestTrajectory_Extend(t *testing.T) {
	tr := Trajectory{2, 3}
	ext := tr.Extend(5, 0)
	assert.Equal(t, Trajectory{2, 3, 3, 3, 3}, ext)
	assert.Equal(t, Trajectory{2, 3}, tr, "original untouched")

	assert.Equal(t, Trajectory{1, 1, 1}, Trajectory(nil).Extend(3, 1))
	assert.Equal(t, Trajectory{1, 2, 3}, Trajectory{1, 2, 3}.Extend(2, 0), "never truncates")
}

func TestGrowthTrajectory(t *testing.T) {
	tr := GrowthTrajectory(0.03, 15)
	require.Len(t, tr, 15)
	assert.Equal(t, 1.0, tr[0])
	assert.InDelta(t, math.Pow(1.03, 14), tr[14], 1e-12)

	assert.Empty(t, GrowthTrajectory(0.03, 0))
}

func TestLinearTrajectory(t *testing.T) {
	tr := LinearTrajectory(0.85, 1.25, 15)
	require.Len(t, tr, 15)
	assert.InDelta(t, 0.85, tr[0], 1e-12)
	assert.InDelta(t, 1.25, tr[14], 1e-12)
	assert.InDelta(t, 1.05, tr[7], 1e-12)

	assert.Equal(t, Trajectory{0.85}, LinearTrajectory(0.85, 1.25, 1))
}

func TestStepTrajectoryAndConstant(t *testing.T) {
	assert.Equal(t, Trajectory{25, 30, 35}, StepTrajectory(25, 5, 3))
	assert.Equal(t, Trajectory{0, 0}, Constant(0, 2))
}

func TestScenario_Accessors(t *testing.T) {
	s := &Scenario{
		ID:               "test",
		DieselPrice:      Trajectory{1.0, 1.5},
		ElectricityPrice: Trajectory{1.0, 1.2},
		BEVResidualValue: Trajectory{1.0, 1.3},
		CarbonPrice:      Trajectory{10, 20},
	}

	assert.Equal(t, 1.5, s.PriceMultiplier(domain.DrivetrainDiesel, 2))
	assert.Equal(t, 1.2, s.PriceMultiplier(domain.DrivetrainBEV, 9))
	assert.Equal(t, 1.0, s.EfficiencyMultiplier(domain.DrivetrainBEV, 3), "empty efficiency is neutral")
	assert.Equal(t, 1.0, s.MaintenanceMultiplier(3))
	assert.Equal(t, 1.0, s.BatteryPriceMultiplier(3))
	assert.Equal(t, 20.0, s.CarbonPriceAt(7))
	assert.Equal(t, 0.0, (&Scenario{}).CarbonPriceAt(1), "empty carbon price is zero")
	assert.Equal(t, 1.3, s.ResidualMultiplier(domain.DrivetrainBEV, 15))
	assert.Equal(t, 1.0, s.ResidualMultiplier(domain.DrivetrainDiesel, 15), "diesel residual unadjusted")
}

func TestScenario_PolicyActive(t *testing.T) {
	always := &Scenario{}
	assert.True(t, always.PolicyActive(1))
	assert.True(t, always.PolicyActive(15))

	phased := &Scenario{PolicyPhaseOutYear: 6}
	assert.True(t, phased.PolicyActive(5))
	assert.False(t, phased.PolicyActive(6))
}

func TestScenario_Extended(t *testing.T) {
	s := &Scenario{ID: "x", DieselPrice: Trajectory{1, 2}}
	ext := s.Extended(4)
	assert.Equal(t, Trajectory{1, 2, 2, 2}, ext.DieselPrice)
	assert.Equal(t, Trajectory{0, 0, 0, 0}, ext.CarbonPrice)
	assert.Equal(t, Trajectory{1, 1, 1, 1}, ext.Maintenance)
	assert.Len(t, s.DieselPrice, 2)
}

func TestScenario_Shifted(t *testing.T) {
	s := &Scenario{
		ID:                 "x",
		DieselPrice:        Trajectory{1, 2, 3, 4},
		CarbonPrice:        Trajectory{10, 20},
		PolicyPhaseOutYear: 3,
	}

	same := s.Shifted(0)
	assert.Same(t, s, same)

	two := s.Shifted(2)
	assert.Equal(t, Trajectory{3, 4}, two.DieselPrice)
	assert.Equal(t, 3.0, two.DieselPrice.At(1, 1))
	assert.Equal(t, Trajectory{20}, two.CarbonPrice)
	assert.Equal(t, 1, two.PolicyPhaseOutYear)
	assert.False(t, two.PolicyActive(1))
	assert.Equal(t, Trajectory{1, 2, 3, 4}, s.DieselPrice, "original untouched")

	never := &Scenario{ID: "y"}
	assert.Equal(t, 0, never.Shifted(5).PolicyPhaseOutYear)
	assert.Nil(t, never.Shifted(5).DieselPrice)
}

func TestScenario_Validate(t *testing.T) {
	assert.NoError(t, (&Scenario{ID: "ok"}).Validate())
	assert.True(t, domain.IsConfigurationError((&Scenario{}).Validate()))
	assert.True(t, domain.IsConfigurationError((&Scenario{ID: "bad", DieselPrice: Trajectory{1, -1}}).Validate()))
	assert.True(t, domain.IsConfigurationError((&Scenario{ID: "nan", CarbonPrice: Trajectory{math.NaN()}}).Validate()))
	assert.True(t, domain.IsConfigurationError((&Scenario{ID: "p", PolicyPhaseOutYear: -1}).Validate()))
}

func TestBuiltin(t *testing.T) {
	list := Builtin()
	require.Len(t, list, 4)

	for _, s := range list {
		assert.NoError(t, s.Validate(), s.ID)
	}

	baseline := list[0]
	assert.Equal(t, Baseline, baseline.ID)
	assert.InDelta(t, math.Pow(1.03, 14), baseline.PriceMultiplier(domain.DrivetrainDiesel, 15), 1e-12)
	assert.InDelta(t, math.Pow(1.02, 14), baseline.PriceMultiplier(domain.DrivetrainBEV, 15), 1e-12)
	assert.InDelta(t, math.Pow(0.93, 7), baseline.BatteryPriceMultiplier(8), 1e-12)
	assert.Equal(t, 0.0, baseline.CarbonPriceAt(10))
	assert.Equal(t, 1.0, baseline.EfficiencyMultiplier(domain.DrivetrainBEV, 10))
	assert.Equal(t, 1.0, baseline.EfficiencyMultiplier(domain.DrivetrainDiesel, 10))

	// fresh allocation on every call
	list[0].DieselPrice[0] = 99
	assert.Equal(t, 1.0, Builtin()[0].DieselPrice[0])
}

func TestRegistry(t *testing.T) {
	r := NewBuiltinRegistry()
	assert.Equal(t, []string{Baseline, CarbonTransition, OilCrisis, TechnologyBreakthrough}, r.IDs())

	s, err := r.Get(OilCrisis)
	require.NoError(t, err)
	assert.Equal(t, "Oil Crisis", s.Name)

	_, err = r.Get("missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, r.Register(&Scenario{ID: "custom"}))
	assert.Len(t, r.List(), 5)

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&Scenario{}))

	_, err = NewRegistry(&Scenario{ID: ""})
	assert.Error(t, err)
}
