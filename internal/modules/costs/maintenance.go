package costs

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// MaintenanceCalculator prices servicing per kilometre driven
type MaintenanceCalculator struct {
	base
	ratePerKm float64
}

// NewMaintenanceCalculator builds the maintenance calculator for a vehicle
func NewMaintenanceCalculator(v domain.VehicleSpec, s *scenarios.Scenario, c Constants) (*MaintenanceCalculator, error) {
	b, err := newBase(CategoryMaintenance, v, s, c)
	if err != nil {
		return nil, err
	}
	rate := c.MaintenancePerKm(v.Drivetrain, v.WeightClass)
	if rate < 0 {
		return nil, domain.NewConfigurationError("maintenance_per_km", "rate cannot be negative")
	}
	return &MaintenanceCalculator{base: b, ratePerKm: rate}, nil
}

// AnnualAmount implements Calculator
func (m *MaintenanceCalculator) AnnualAmount(year int, o Overrides) (float64, error) {
	if err := m.checkYear(year); err != nil {
		return 0, err
	}
	km, err := annualKm(m.vehicle, o)
	if err != nil {
		return 0, err
	}
	rate := m.ratePerKm * o.Multiplier(MaintenanceCost)
	return km * rate * m.scenario.MaintenanceMultiplier(year), nil
}
