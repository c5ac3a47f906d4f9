package tco

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/policy"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

func TestNewInputs_Scalars(t *testing.T) {
	in := buildInputs(t, "BEV001", baseline(t), domain.PurchaseFinanced, policy.Definitions{})

	assert.Equal(t, Key{VehicleID: "BEV001", ScenarioID: scenarios.Baseline, Method: domain.PurchaseFinanced}, in.Key())
	assert.InDelta(t, 176500*0.03, in.StampDuty(), 1e-9)
	assert.Zero(t, in.Rebate())
	assert.InDelta(t, 181795, in.InitialCost(), 1e-9)
	assert.InDelta(t, 181795*0.2, in.Financing().DownPayment, 1e-9)
	assert.Equal(t, domain.ValueResidual, in.Treatment())
	require.NotNil(t, in.Pair())
	assert.Equal(t, "DSL001", in.Pair().ID)

	summary := in.Summary()
	assert.Equal(t, 8, summary.BatteryReplacement)
	assert.Greater(t, summary.MonthlyPayment, 0.0)
	assert.Greater(t, summary.TotalFinancingCost, 0.0)
	assert.Equal(t, []costs.Category{
		costs.CategoryFuel, costs.CategoryMaintenance, costs.CategoryBattery,
		costs.CategoryCarbon, costs.CategoryPayloadPenalty, costs.CategoryChargingLabour,
	}, summary.Categories)
}

func TestNewInputs_Policies(t *testing.T) {
	standard, err := policy.Preset(policy.PresetStandard)
	require.NoError(t, err)

	in := buildInputs(t, "BEV001", baseline(t), domain.PurchaseFinanced, standard)
	assert.Equal(t, 20000.0, in.Rebate())
	assert.Zero(t, in.StampDuty(), "full exemption")
	assert.InDelta(t, 156500, in.InitialCost(), 1e-9)
	assert.InDelta(t, 0.04, in.Financing().Rate, 1e-12)

	diesel := buildInputs(t, "DSL001", baseline(t), domain.PurchaseFinanced, standard)
	assert.Zero(t, diesel.Rebate())
	assert.InDelta(t, 80000*0.03, diesel.StampDuty(), 1e-9)
}

func TestNewInputs_PhasedOutIncentives(t *testing.T) {
	standard, err := policy.Preset(policy.PresetStandard)
	require.NoError(t, err)

	phased := baseline(t).Shifted(0)
	copyOf := *phased
	copyOf.ID = "phased"
	copyOf.PolicyPhaseOutYear = 1

	in := buildInputs(t, "BEV001", &copyOf, domain.PurchaseFinanced, standard)
	assert.Zero(t, in.Rebate())
	assert.InDelta(t, 176500*0.03, in.StampDuty(), 1e-9)
	assert.InDelta(t, 0.06, in.Financing().Rate, 1e-12)
}

func TestNewInputs_Invalid(t *testing.T) {
	v := vehicle(t, "DSL001")
	c := costs.DefaultConstants()

	tests := []struct {
		name   string
		params InputParams
	}{
		{"nil scenario", InputParams{Vehicle: v, Method: domain.PurchaseOutright, Constants: c}},
		{"unknown method", InputParams{Vehicle: v, Scenario: baseline(t), Method: "lease", Constants: c}},
		{"invalid vehicle", InputParams{Vehicle: domain.VehicleSpec{ID: "X"}, Scenario: baseline(t), Method: domain.PurchaseOutright, Constants: c}},
		{"invalid constants", InputParams{Vehicle: v, Scenario: baseline(t), Method: domain.PurchaseOutright, Constants: costs.Constants{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Log = zerolog.Nop()
			_, err := NewInputs(tt.params)
			assert.True(t, domain.IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestInputs_Amount(t *testing.T) {
	in := buildInputs(t, "BEV001", baseline(t), domain.PurchaseOutright, policy.Definitions{})

	insurance, err := in.Amount(costs.CategoryInsurance, 3, costs.NoOverrides)
	require.NoError(t, err)
	assert.InDelta(t, 176500*0.035+2000, insurance, 1e-9)

	registration, err := in.Amount(costs.CategoryRegistration, 15, costs.NoOverrides)
	require.NoError(t, err)
	assert.Equal(t, 653.0, registration)

	battery, err := in.Amount(costs.CategoryBattery, 8, costs.NoOverrides)
	require.NoError(t, err)
	assert.Greater(t, battery, 0.0)

	_, err = in.Amount("tyres", 1, costs.NoOverrides)
	assert.True(t, domain.IsDomainError(err))
	_, err = in.Amount(costs.CategoryFuel, 16, costs.NoOverrides)
	assert.True(t, domain.IsDomainError(err))
}

func TestInputs_Emissions(t *testing.T) {
	diesel := buildInputs(t, "DSL001", baseline(t), domain.PurchaseOutright, policy.Definitions{})
	tonnes, err := diesel.Emissions(costs.NoOverrides)
	require.NoError(t, err)
	assert.InDelta(t, 0.28*23000*2.68*15/1000, tonnes, 1e-6)
}
