package costs

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// ChargingLabourCalculator prices driver time spent at public chargers
type ChargingLabourCalculator struct {
	base
	fuel    *FuelCalculator
	powerKW float64
	wage    float64
}

// NewChargingLabourCalculator builds the labour calculator on top of the vehicle's fuel calculator
func NewChargingLabourCalculator(v domain.VehicleSpec, s *scenarios.Scenario, fuel *FuelCalculator, c Constants) (*ChargingLabourCalculator, error) {
	b, err := newBase(CategoryChargingLabour, v, s, c)
	if err != nil {
		return nil, err
	}
	if fuel == nil {
		return nil, domain.NewConfigurationError("charging_labour", "fuel calculator is required")
	}
	if c.PublicChargerPowerKW <= 0 {
		return nil, domain.NewConfigurationError("public_charger_power_kw", "must be positive")
	}
	return &ChargingLabourCalculator{base: b, fuel: fuel, powerKW: c.PublicChargerPowerKW, wage: c.HourlyWage}, nil
}

// Hours returns the hours spent at public chargers in the year
func (l *ChargingLabourCalculator) Hours(year int, o Overrides) (float64, error) {
	if err := l.checkYear(year); err != nil {
		return 0, err
	}
	if !l.vehicle.IsBEV() {
		return 0, nil
	}
	energy, err := l.fuel.Consumption(year, o)
	if err != nil {
		return 0, err
	}
	return energy * l.fuel.PublicShare() / l.powerKW, nil
}

// AnnualAmount implements Calculator
func (l *ChargingLabourCalculator) AnnualAmount(year int, o Overrides) (float64, error) {
	hours, err := l.Hours(year, o)
	if err != nil {
		return 0, err
	}
	return hours * l.wage, nil
}
