package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBEV() VehicleSpec {
	return VehicleSpec{
		ID:                 "BEV001",
		Name:               "Jac N75",
		Drivetrain:         DrivetrainBEV,
		WeightClass:        WeightClassLightRigid,
		ComparisonPairID:   "DSL001",
		Payload:            4.0,
		PurchasePrice:      176500,
		BatteryCapacityKWh: 100,
		KWhPerKm:           0.48,
		AnnualKm:           23000,
		AnnualRegistration: 653,
	}
}

func TestVehicleSpec_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(v *VehicleSpec)
		field  string
	}{
		{"valid", func(v *VehicleSpec) {}, ""},
		{"missing id", func(v *VehicleSpec) { v.ID = "" }, "id"},
		{"unknown drivetrain", func(v *VehicleSpec) { v.Drivetrain = "Hydrogen" }, "drivetrain"},
		{"unknown weight class", func(v *VehicleSpec) { v.WeightClass = "Van" }, "weight_class"},
		{"zero price", func(v *VehicleSpec) { v.PurchasePrice = 0 }, "purchase_price"},
		{"zero distance", func(v *VehicleSpec) { v.AnnualKm = 0 }, "annual_km"},
		{"zero efficiency", func(v *VehicleSpec) { v.KWhPerKm = 0 }, "efficiency"},
		{"no battery", func(v *VehicleSpec) { v.BatteryCapacityKWh = 0 }, "battery_capacity_kwh"},
		{"negative payload", func(v *VehicleSpec) { v.Payload = -1 }, "payload"},
		{"negative registration", func(v *VehicleSpec) { v.AnnualRegistration = -1 }, "annual_registration"},
		{"self pair", func(v *VehicleSpec) { v.ComparisonPairID = v.ID }, "comparison_pair_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validBEV()
			tt.modify(&v)

			err := v.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestVehicleSpec_Efficiency(t *testing.T) {
	bev := validBEV()
	assert.Equal(t, 0.48, bev.Efficiency())
	assert.True(t, bev.IsBEV())
	assert.True(t, bev.HasPair())

	diesel := VehicleSpec{Drivetrain: DrivetrainDiesel, LitresPerKm: 0.28, KWhPerKm: 9}
	assert.Equal(t, 0.28, diesel.Efficiency())
	assert.False(t, diesel.IsBEV())
	assert.False(t, diesel.HasPair())
}

func TestParsePurchaseMethod(t *testing.T) {
	m, err := ParsePurchaseMethod(" Financed ")
	require.NoError(t, err)
	assert.Equal(t, PurchaseFinanced, m)

	m, err = ParsePurchaseMethod("outright")
	require.NoError(t, err)
	assert.Equal(t, PurchaseOutright, m)

	_, err = ParsePurchaseMethod("lease")
	assert.True(t, IsConfigurationError(err))
}

func TestParseValueTreatment(t *testing.T) {
	v, err := ParseValueTreatment("DEPRECIATION")
	require.NoError(t, err)
	assert.Equal(t, ValueDepreciation, v)

	_, err = ParseValueTreatment("both")
	assert.True(t, IsConfigurationError(err))
}

func TestWeightClass_IsArticulated(t *testing.T) {
	assert.True(t, WeightClassArticulated.IsArticulated())
	assert.False(t, WeightClassLightRigid.IsArticulated())
	assert.False(t, WeightClassMediumRigid.IsArticulated())
}

func TestErrorClassification(t *testing.T) {
	cfgErr := fmt.Errorf("building inputs: %w", NewConfigurationError("mix", "proportions sum to %.2f", 0.9))
	domErr := fmt.Errorf("year 16: %w", NewDomainError("annual_amount", "year out of range"))

	assert.True(t, IsConfigurationError(cfgErr))
	assert.False(t, IsDomainError(cfgErr))
	assert.True(t, IsDomainError(domErr))
	assert.False(t, IsConfigurationError(domErr))

	assert.Equal(t, "configuration error: mix: proportions sum to 0.90", NewConfigurationError("mix", "proportions sum to %.2f", 0.9).Error())
	assert.Equal(t, "configuration error: bad", (&ConfigurationError{Message: "bad"}).Error())
	assert.Equal(t, "domain error: present_value: rate must be greater than -1", NewDomainError("present_value", "rate must be greater than -1").Error())
}
