package costs

import (
	"math"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// lifeEpsilon keeps float noise in the life estimate from pushing the replacement a year later
const lifeEpsilon = 1e-9

// BatteryCalculator prices the single mid-life battery replacement of an electric vehicle
type BatteryCalculator struct {
	base
	capacity      float64
	baseLife      float64
	costPerKWh    float64
	recyclePerKWh float64
}

// NewBatteryCalculator builds the replacement calculator.
// Diesel vehicles and zero-capacity packs never incur a replacement.
func NewBatteryCalculator(v domain.VehicleSpec, s *scenarios.Scenario, c Constants) (*BatteryCalculator, error) {
	b, err := newBase(CategoryBattery, v, s, c)
	if err != nil {
		return nil, err
	}
	if c.BatteryDegradation <= 0 {
		return nil, domain.NewConfigurationError("battery_degradation", "must be positive")
	}
	if c.BatteryEndOfLife <= 0 || c.BatteryEndOfLife >= 1 {
		return nil, domain.NewConfigurationError("battery_end_of_life", "must be within (0, 1)")
	}
	calc := &BatteryCalculator{
		base:          b,
		baseLife:      (1 - c.BatteryEndOfLife) / c.BatteryDegradation,
		costPerKWh:    c.BatteryReplacementCost,
		recyclePerKWh: c.BatteryRecycleValue,
	}
	if v.IsBEV() {
		calc.capacity = v.BatteryCapacityKWh
	}
	return calc, nil
}

// Life returns the expected pack life in years under o
func (b *BatteryCalculator) Life(o Overrides) float64 {
	return b.baseLife * o.Multiplier(BatteryLife)
}

// ReplacementYear returns the year of replacement, or 0 when none falls inside the horizon
func (b *BatteryCalculator) ReplacementYear(o Overrides) int {
	if b.capacity <= 0 {
		return 0
	}
	life := b.Life(o)
	if life <= 0 || math.IsNaN(life) {
		return 0
	}
	year := int(math.Ceil(life - lifeEpsilon))
	if year < 1 || year > b.horizon {
		return 0
	}
	return year
}

// AnnualAmount implements Calculator
func (b *BatteryCalculator) AnnualAmount(year int, o Overrides) (float64, error) {
	if err := b.checkYear(year); err != nil {
		return 0, err
	}
	if year != b.ReplacementYear(o) {
		return 0, nil
	}
	perKWh := b.costPerKWh*b.scenario.BatteryPriceMultiplier(year) - b.recyclePerKWh
	return b.capacity * math.Max(perKWh, 0), nil
}
