// Package costs provides the per-category annual cost calculators of the ownership model.
package costs

import (
	"math"

	"github.com/aristath/fleetcost/internal/domain"
)

const mixTolerance = 1e-6

// ChargingSources holds one value per charging source (share, price or emission factor)
type ChargingSources struct {
	Retail  float64 `json:"retail"`
	Offpeak float64 `json:"offpeak"`
	Solar   float64 `json:"solar"`
	Public  float64 `json:"public"`
}

// Sum adds the four sources
func (s ChargingSources) Sum() float64 {
	return s.Retail + s.Offpeak + s.Solar + s.Public
}

// Blend weights other by the receiver's shares
func (s ChargingSources) Blend(other ChargingSources) float64 {
	return s.Retail*other.Retail + s.Offpeak*other.Offpeak + s.Solar*other.Solar + s.Public*other.Public
}

// ClassRates holds one rate for rigid trucks and one for articulated trucks
type ClassRates struct {
	Rigid       float64 `json:"rigid"`
	Articulated float64 `json:"articulated"`
}

// For returns the rate of the weight class
func (r ClassRates) For(w domain.WeightClass) float64 {
	if w.IsArticulated() {
		return r.Articulated
	}
	return r.Rigid
}

// DrivetrainRates holds one value per drivetrain
type DrivetrainRates struct {
	BEV    float64 `json:"bev"`
	Diesel float64 `json:"diesel"`
}

// For returns the value of the drivetrain
func (r DrivetrainRates) For(d domain.Drivetrain) float64 {
	if d == domain.DrivetrainBEV {
		return r.BEV
	}
	return r.Diesel
}

// Constants is the global numeric table of the model. It is passed explicitly.
type Constants struct {
	DiscountRate float64 `json:"discount_rate"`
	Horizon      int     `json:"horizon"`

	InterestRate       float64 `json:"interest_rate"`
	FinancingTermYears int     `json:"financing_term_years"`
	PaymentsPerYear    int     `json:"payments_per_year"`
	DownPaymentRate    float64 `json:"down_payment_rate"`
	StampDutyRate      float64 `json:"stamp_duty_rate"`

	DepreciationFirstYear float64 `json:"depreciation_first_year"`
	DepreciationOngoing   float64 `json:"depreciation_ongoing"`

	DieselPrice     float64 `json:"diesel_price"`     // $/L
	DieselEmissions float64 `json:"diesel_emissions"` // kg CO2e/L

	ChargingPrices         ChargingSources `json:"charging_prices"`    // $/kWh
	ChargingEmissions      ChargingSources `json:"charging_emissions"` // kg CO2e/kWh
	RigidChargingMix       ChargingSources `json:"rigid_charging_mix"`
	ArticulatedChargingMix ChargingSources `json:"articulated_charging_mix"`

	BEVMaintenancePerKm    ClassRates      `json:"bev_maintenance_per_km"`
	DieselMaintenancePerKm ClassRates      `json:"diesel_maintenance_per_km"`
	InsuranceRate          DrivetrainRates `json:"insurance_rate"`
	OtherInsurance         float64         `json:"other_insurance"`

	BatteryReplacementCost float64 `json:"battery_replacement_cost"` // $/kWh
	BatteryRecycleValue    float64 `json:"battery_recycle_value"`    // $/kWh
	BatteryDegradation     float64 `json:"battery_degradation"`      // capacity lost per year
	BatteryEndOfLife       float64 `json:"battery_end_of_life"`      // remaining capacity share at replacement

	FreightRate        ClassRates `json:"freight_rate"` // $/t-km
	PayloadUtilisation float64    `json:"payload_utilisation"`

	HourlyWage           float64 `json:"hourly_wage"`
	PublicChargerPowerKW float64 `json:"public_charger_power_kw"`
}

// DefaultConstants returns the reference constant table
func DefaultConstants() Constants {
	return Constants{
		DiscountRate: 0.05,
		Horizon:      15,

		InterestRate:       0.06,
		FinancingTermYears: 5,
		PaymentsPerYear:    12,
		DownPaymentRate:    0.20,
		StampDutyRate:      0.03,

		DepreciationFirstYear: 0.20,
		DepreciationOngoing:   0.10,

		DieselPrice:     2.05,
		DieselEmissions: 2.68,

		ChargingPrices:         ChargingSources{Retail: 0.30, Offpeak: 0.15, Solar: 0.04, Public: 0.50},
		ChargingEmissions:      ChargingSources{Retail: 0.7, Offpeak: 0.7, Solar: 0.04, Public: 0.7},
		RigidChargingMix:       ChargingSources{Offpeak: 0.86, Public: 0.14},
		ArticulatedChargingMix: ChargingSources{Offpeak: 0.67, Public: 0.33},

		BEVMaintenancePerKm:    ClassRates{Rigid: 0.10, Articulated: 0.19},
		DieselMaintenancePerKm: ClassRates{Rigid: 0.18, Articulated: 0.28},
		InsuranceRate:          DrivetrainRates{BEV: 0.035, Diesel: 0.0315},
		OtherInsurance:         2000,

		BatteryReplacementCost: 130,
		BatteryRecycleValue:    13,
		BatteryDegradation:     0.025,
		BatteryEndOfLife:       0.80,

		FreightRate:        ClassRates{Rigid: 0.17, Articulated: 0.26},
		PayloadUtilisation: 0.85,

		HourlyWage:           47,
		PublicChargerPowerKW: 150,
	}
}

// ChargingMixFor returns the charging mix of the weight class
func (c Constants) ChargingMixFor(w domain.WeightClass) ChargingSources {
	if w.IsArticulated() {
		return c.ArticulatedChargingMix
	}
	return c.RigidChargingMix
}

// MaintenancePerKm returns the maintenance rate for a drivetrain and weight class
func (c Constants) MaintenancePerKm(d domain.Drivetrain, w domain.WeightClass) float64 {
	if d == domain.DrivetrainBEV {
		return c.BEVMaintenancePerKm.For(w)
	}
	return c.DieselMaintenancePerKm.For(w)
}

// Validate checks structural consistency of the table
func (c Constants) Validate() error {
	switch {
	case math.IsNaN(c.DiscountRate) || c.DiscountRate <= -1:
		return domain.NewConfigurationError("discount_rate", "must be greater than -1")
	case c.Horizon < 1:
		return domain.NewConfigurationError("horizon", "must be at least one year")
	case c.FinancingTermYears < 1:
		return domain.NewConfigurationError("financing_term_years", "loan term must be positive")
	case c.PaymentsPerYear < 1:
		return domain.NewConfigurationError("payments_per_year", "must be at least 1")
	case c.InterestRate < 0:
		return domain.NewConfigurationError("interest_rate", "cannot be negative")
	case c.DownPaymentRate < 0 || c.DownPaymentRate > 1:
		return domain.NewConfigurationError("down_payment_rate", "must be within [0, 1]")
	case c.DepreciationFirstYear < 0 || c.DepreciationFirstYear >= 1:
		return domain.NewConfigurationError("depreciation_first_year", "must be within [0, 1)")
	case c.DepreciationOngoing < 0 || c.DepreciationOngoing >= 1:
		return domain.NewConfigurationError("depreciation_ongoing", "must be within [0, 1)")
	case c.BatteryDegradation <= 0:
		return domain.NewConfigurationError("battery_degradation", "must be positive")
	case c.BatteryEndOfLife <= 0 || c.BatteryEndOfLife >= 1:
		return domain.NewConfigurationError("battery_end_of_life", "must be within (0, 1)")
	case c.PublicChargerPowerKW <= 0:
		return domain.NewConfigurationError("public_charger_power_kw", "must be positive")
	}
	if err := validateMix("rigid_charging_mix", c.RigidChargingMix); err != nil {
		return err
	}
	return validateMix("articulated_charging_mix", c.ArticulatedChargingMix)
}

func validateMix(field string, mix ChargingSources) error {
	if mix.Retail < 0 || mix.Offpeak < 0 || mix.Solar < 0 || mix.Public < 0 {
		return domain.NewConfigurationError(field, "proportions cannot be negative")
	}
	if sum := mix.Sum(); math.Abs(sum-1) > mixTolerance {
		return domain.NewConfigurationError(field, "proportions must sum to 1 (got %.6f)", sum)
	}
	return nil
}
