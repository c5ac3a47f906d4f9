package costs

import (
	"math"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/policy"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// CarbonCalculator prices diesel tailpipe emissions at the scenario's carbon
// price. A policy with carbon pricing enabled raises that price to its floor.
type CarbonCalculator struct {
	base
	fuel    *FuelCalculator
	enabled bool
	floor   float64
	kgPerL  float64
}

// NewCarbonCalculator builds the carbon cost calculator on top of the vehicle's fuel calculator
func NewCarbonCalculator(v domain.VehicleSpec, s *scenarios.Scenario, p policy.Set, fuel *FuelCalculator, c Constants) (*CarbonCalculator, error) {
	b, err := newBase(CategoryCarbon, v, s, c)
	if err != nil {
		return nil, err
	}
	if fuel == nil {
		return nil, domain.NewConfigurationError("carbon", "fuel calculator is required")
	}
	if p.CarbonPriceFloor < 0 {
		return nil, domain.NewConfigurationError("carbon_price_floor", "cannot be negative")
	}
	return &CarbonCalculator{
		base:    b,
		fuel:    fuel,
		enabled: !v.IsBEV(),
		floor:   policyFloor(p),
		kgPerL:  c.DieselEmissions,
	}, nil
}

// PriceAt returns the effective $/tCO2e for the year
func (c *CarbonCalculator) PriceAt(year int) float64 {
	if !c.enabled {
		return 0
	}
	return math.Max(c.scenario.CarbonPriceAt(year), c.floor)
}

// AnnualAmount implements Calculator
func (c *CarbonCalculator) AnnualAmount(year int, o Overrides) (float64, error) {
	if err := c.checkYear(year); err != nil {
		return 0, err
	}
	if !c.enabled {
		return 0, nil
	}
	price := c.PriceAt(year)
	if price == 0 {
		return 0, nil
	}
	litres, err := c.fuel.Consumption(year, o)
	if err != nil {
		return 0, err
	}
	return litres * c.kgPerL / 1000 * price, nil
}

func policyFloor(p policy.Set) float64 {
	if !p.CarbonPricing {
		return 0
	}
	return p.CarbonPriceFloor
}
