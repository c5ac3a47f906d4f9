package costs

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// FuelCalculator prices diesel or grid energy over the projection
type FuelCalculator struct {
	base
	price       float64 // $ per litre or blended $ per kWh
	emissions   float64 // kg CO2e per litre or per kWh
	publicShare float64
	priceKey    Key
}

// NewFuelCalculator builds the energy cost calculator for a vehicle
func NewFuelCalculator(v domain.VehicleSpec, s *scenarios.Scenario, c Constants) (*FuelCalculator, error) {
	b, err := newBase(CategoryFuel, v, s, c)
	if err != nil {
		return nil, err
	}
	f := &FuelCalculator{base: b}
	if v.IsBEV() {
		mix := c.ChargingMixFor(v.WeightClass)
		if err := validateMix("charging_mix", mix); err != nil {
			return nil, err
		}
		f.price = mix.Blend(c.ChargingPrices)
		f.emissions = mix.Blend(c.ChargingEmissions)
		f.publicShare = mix.Public
		f.priceKey = ElectricityPrice
		return f, nil
	}
	if c.DieselPrice < 0 {
		return nil, domain.NewConfigurationError("diesel_price", "cannot be negative")
	}
	f.price = c.DieselPrice
	f.emissions = c.DieselEmissions
	f.priceKey = FuelPrice
	return f, nil
}

// BasePrice returns the year-one energy price before scenario adjustment
func (f *FuelCalculator) BasePrice() float64 {
	return f.price
}

// PublicShare returns the fraction of energy drawn from public chargers
func (f *FuelCalculator) PublicShare() float64 {
	return f.publicShare
}

// Consumption returns litres (diesel) or kWh (BEV) used in the year
func (f *FuelCalculator) Consumption(year int, o Overrides) (float64, error) {
	if err := f.checkYear(year); err != nil {
		return 0, err
	}
	km, err := annualKm(f.vehicle, o)
	if err != nil {
		return 0, err
	}
	efficiency := f.vehicle.Efficiency()
	if f.vehicle.IsBEV() {
		efficiency *= o.Multiplier(ChargingEfficiency)
	}
	return efficiency * f.scenario.EfficiencyMultiplier(f.vehicle.Drivetrain, year) * km, nil
}

// AnnualAmount implements Calculator
func (f *FuelCalculator) AnnualAmount(year int, o Overrides) (float64, error) {
	units, err := f.Consumption(year, o)
	if err != nil {
		return 0, err
	}
	price := f.price * o.Multiplier(f.priceKey) * f.scenario.PriceMultiplier(f.vehicle.Drivetrain, year)
	return units * price, nil
}

// Emissions returns kg CO2e from the year's energy use
func (f *FuelCalculator) Emissions(year int, o Overrides) (float64, error) {
	units, err := f.Consumption(year, o)
	if err != nil {
		return 0, err
	}
	return units * f.emissions, nil
}
