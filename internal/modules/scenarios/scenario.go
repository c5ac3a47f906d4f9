package scenarios

import (
	"math"

	"github.com/aristath/fleetcost/internal/domain"
)

// Scenario is an immutable named set of economic trajectories.
// Multiplier trajectories default to 1.0 and the carbon price to 0 when empty.
type Scenario struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	DieselPrice      Trajectory `json:"diesel_price"`
	ElectricityPrice Trajectory `json:"electricity_price"`
	BatteryPrice     Trajectory `json:"battery_price"`
	CarbonPrice      Trajectory `json:"carbon_price"` // $ per tonne CO2e
	BEVEfficiency    Trajectory `json:"bev_efficiency"`
	DieselEfficiency Trajectory `json:"diesel_efficiency"`
	Maintenance      Trajectory `json:"maintenance"`
	BEVResidualValue Trajectory `json:"bev_residual_value"`

	// PolicyPhaseOutYear is the first year incentives no longer apply; 0 means never
	PolicyPhaseOutYear int `json:"policy_phase_out_year,omitempty"`
}

// PriceMultiplier returns the energy price multiplier for the drivetrain
func (s *Scenario) PriceMultiplier(d domain.Drivetrain, year int) float64 {
	if d == domain.DrivetrainBEV {
		return s.ElectricityPrice.At(year, 1.0)
	}
	return s.DieselPrice.At(year, 1.0)
}

// EfficiencyMultiplier returns the consumption multiplier for the drivetrain
func (s *Scenario) EfficiencyMultiplier(d domain.Drivetrain, year int) float64 {
	if d == domain.DrivetrainBEV {
		return s.BEVEfficiency.At(year, 1.0)
	}
	return s.DieselEfficiency.At(year, 1.0)
}

// BatteryPriceMultiplier returns the battery cost multiplier for the year
func (s *Scenario) BatteryPriceMultiplier(year int) float64 {
	return s.BatteryPrice.At(year, 1.0)
}

// CarbonPriceAt returns the carbon price in $/tCO2e for the year
func (s *Scenario) CarbonPriceAt(year int) float64 {
	return s.CarbonPrice.At(year, 0)
}

// MaintenanceMultiplier returns the maintenance cost multiplier for the year
func (s *Scenario) MaintenanceMultiplier(year int) float64 {
	return s.Maintenance.At(year, 1.0)
}

// ResidualMultiplier returns the residual value multiplier. Only electric vehicles are adjusted.
func (s *Scenario) ResidualMultiplier(d domain.Drivetrain, year int) float64 {
	if d != domain.DrivetrainBEV {
		return 1.0
	}
	return s.BEVResidualValue.At(year, 1.0)
}

// PolicyActive reports whether incentives still apply in the year
func (s *Scenario) PolicyActive(year int) bool {
	if s.PolicyPhaseOutYear <= 0 {
		return true
	}
	return year < s.PolicyPhaseOutYear
}

// Extended returns a copy with every trajectory padded to the horizon
func (s *Scenario) Extended(horizon int) *Scenario {
	out := *s
	out.DieselPrice = s.DieselPrice.Extend(horizon, 1.0)
	out.ElectricityPrice = s.ElectricityPrice.Extend(horizon, 1.0)
	out.BatteryPrice = s.BatteryPrice.Extend(horizon, 1.0)
	out.CarbonPrice = s.CarbonPrice.Extend(horizon, 0)
	out.BEVEfficiency = s.BEVEfficiency.Extend(horizon, 1.0)
	out.DieselEfficiency = s.DieselEfficiency.Extend(horizon, 1.0)
	out.Maintenance = s.Maintenance.Extend(horizon, 1.0)
	out.BEVResidualValue = s.BEVResidualValue.Extend(horizon, 1.0)
	return &out
}

// Shifted returns a copy seen from a purchase made offset years later.
// Trajectories are advanced and the policy phase-out moves closer; a phase-out
// already passed applies from year 1.
func (s *Scenario) Shifted(offset int) *Scenario {
	if offset <= 0 {
		return s
	}
	out := *s
	out.DieselPrice = s.DieselPrice.Shift(offset)
	out.ElectricityPrice = s.ElectricityPrice.Shift(offset)
	out.BatteryPrice = s.BatteryPrice.Shift(offset)
	out.CarbonPrice = s.CarbonPrice.Shift(offset)
	out.BEVEfficiency = s.BEVEfficiency.Shift(offset)
	out.DieselEfficiency = s.DieselEfficiency.Shift(offset)
	out.Maintenance = s.Maintenance.Shift(offset)
	out.BEVResidualValue = s.BEVResidualValue.Shift(offset)
	if s.PolicyPhaseOutYear > 0 {
		out.PolicyPhaseOutYear = s.PolicyPhaseOutYear - offset
		if out.PolicyPhaseOutYear < 1 {
			out.PolicyPhaseOutYear = 1
		}
	}
	return &out
}

// Validate rejects scenarios that cannot produce finite costs
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return domain.NewConfigurationError("scenario.id", "scenario id is required")
	}
	checks := []struct {
		name string
		t    Trajectory
	}{
		{"diesel_price", s.DieselPrice},
		{"electricity_price", s.ElectricityPrice},
		{"battery_price", s.BatteryPrice},
		{"carbon_price", s.CarbonPrice},
		{"bev_efficiency", s.BEVEfficiency},
		{"diesel_efficiency", s.DieselEfficiency},
		{"maintenance", s.Maintenance},
		{"bev_residual_value", s.BEVResidualValue},
	}
	for _, c := range checks {
		for i, v := range c.t {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return domain.NewConfigurationError("scenario."+c.name,
					"scenario %s: year %d value %v must be a non-negative number", s.ID, i+1, v)
			}
		}
	}
	if s.PolicyPhaseOutYear < 0 {
		return domain.NewConfigurationError("scenario.policy_phase_out_year", "scenario %s: phase-out year cannot be negative", s.ID)
	}
	return nil
}
