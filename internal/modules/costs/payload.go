package costs

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// PayloadCalculator prices freight capacity lost against the comparison pair
type PayloadCalculator struct {
	base
	deficit     float64 // tonnes
	freightRate float64
	utilisation float64
}

// NewPayloadCalculator builds the payload penalty calculator. pair may be nil.
func NewPayloadCalculator(v domain.VehicleSpec, pair *domain.VehicleSpec, s *scenarios.Scenario, c Constants) (*PayloadCalculator, error) {
	b, err := newBase(CategoryPayloadPenalty, v, s, c)
	if err != nil {
		return nil, err
	}
	if c.PayloadUtilisation < 0 || c.PayloadUtilisation > 1 {
		return nil, domain.NewConfigurationError("payload_utilisation", "must be within [0, 1]")
	}
	calc := &PayloadCalculator{
		base:        b,
		freightRate: c.FreightRate.For(v.WeightClass),
		utilisation: c.PayloadUtilisation,
	}
	if pair != nil && pair.Payload > v.Payload {
		calc.deficit = pair.Payload - v.Payload
	}
	return calc, nil
}

// Deficit returns the payload shortfall in tonnes
func (p *PayloadCalculator) Deficit() float64 {
	return p.deficit
}

// AnnualAmount implements Calculator
func (p *PayloadCalculator) AnnualAmount(year int, o Overrides) (float64, error) {
	if err := p.checkYear(year); err != nil {
		return 0, err
	}
	if p.deficit == 0 {
		return 0, nil
	}
	km, err := annualKm(p.vehicle, o)
	if err != nil {
		return 0, err
	}
	return p.deficit * p.freightRate * km * p.utilisation, nil
}
