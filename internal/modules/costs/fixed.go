package costs

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// FixedCost is a level amount paid every year of the horizon
type FixedCost struct {
	base
	amount float64
}

// NewInsuranceCost prices insurance as a share of the purchase price plus other cover
func NewInsuranceCost(v domain.VehicleSpec, s *scenarios.Scenario, c Constants) (*FixedCost, error) {
	b, err := newBase(CategoryInsurance, v, s, c)
	if err != nil {
		return nil, err
	}
	return &FixedCost{base: b, amount: v.PurchasePrice*c.InsuranceRate.For(v.Drivetrain) + c.OtherInsurance}, nil
}

// NewRegistrationCost uses the vehicle's annual registration fee
func NewRegistrationCost(v domain.VehicleSpec, s *scenarios.Scenario, c Constants) (*FixedCost, error) {
	b, err := newBase(CategoryRegistration, v, s, c)
	if err != nil {
		return nil, err
	}
	return &FixedCost{base: b, amount: v.AnnualRegistration}, nil
}

// Amount returns the level annual amount
func (f *FixedCost) Amount() float64 {
	return f.amount
}

// AnnualAmount implements Calculator
func (f *FixedCost) AnnualAmount(year int, _ Overrides) (float64, error) {
	if err := f.checkYear(year); err != nil {
		return 0, err
	}
	return f.amount, nil
}
