package costs

import (
	"math"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
	"github.com/aristath/fleetcost/pkg/formulas"
)

// ValueLoss models how the vehicle's value declines over the horizon
type ValueLoss struct {
	base
	initial   float64
	treatment domain.ValueTreatment
	first     float64
	ongoing   float64
}

// ValueSummary is the present-value effect of one value-loss treatment
type ValueSummary struct {
	Treatment domain.ValueTreatment `json:"treatment"`
	// Credit is subtracted from the total cost of ownership
	Credit float64 `json:"credit"`
	// ResidualValue is the discounted resale value; zero under depreciation treatment
	ResidualValue float64 `json:"residual_value"`
	// DepreciationCost is the discounted depreciation charge; zero under residual treatment
	DepreciationCost float64 `json:"depreciation_cost"`
}

// NewValueLoss builds the value schedule starting from the initial cost
func NewValueLoss(v domain.VehicleSpec, s *scenarios.Scenario, initialCost float64, treatment domain.ValueTreatment, c Constants) (*ValueLoss, error) {
	b, err := newBase("value", v, s, c)
	if err != nil {
		return nil, err
	}
	if initialCost < 0 || math.IsNaN(initialCost) {
		return nil, domain.NewConfigurationError("initial_cost", "cannot be negative")
	}
	if !treatment.Valid() {
		return nil, domain.NewConfigurationError("value_treatment", "unknown treatment %q", treatment)
	}
	return &ValueLoss{
		base:      b,
		initial:   initialCost,
		treatment: treatment,
		first:     c.DepreciationFirstYear,
		ongoing:   c.DepreciationOngoing,
	}, nil
}

// Treatment returns the configured treatment
func (v *ValueLoss) Treatment() domain.ValueTreatment {
	return v.treatment
}

// ResidualValue returns the value at the end of year, year 0 being the initial cost
func (v *ValueLoss) ResidualValue(year int, o Overrides) (float64, error) {
	if year == 0 {
		return v.initial, nil
	}
	if err := v.checkYear(year); err != nil {
		return 0, err
	}
	value := v.initial * (1 - v.first) * math.Pow(1-v.ongoing, float64(year-1))
	return value * v.scenario.ResidualMultiplier(v.vehicle.Drivetrain, year) * o.Multiplier(ResidualValue), nil
}

// Depreciation returns the value lost during the year
func (v *ValueLoss) Depreciation(year int, o Overrides) (float64, error) {
	if err := v.checkYear(year); err != nil {
		return 0, err
	}
	prev, err := v.ResidualValue(year-1, o)
	if err != nil {
		return 0, err
	}
	cur, err := v.ResidualValue(year, o)
	if err != nil {
		return 0, err
	}
	return prev - cur, nil
}

// Summarize computes the discounted effect of the configured treatment.
// Residual treatment credits the resale value at the horizon. Depreciation treatment
// credits the initial cost less the discounted yearly depreciation, so the total
// carries the depreciation charge in place of the purchase outlay.
func (v *ValueLoss) Summarize(rate float64, o Overrides) (ValueSummary, error) {
	summary := ValueSummary{Treatment: v.treatment}
	if v.treatment == domain.ValueResidual {
		residual, err := v.ResidualValue(v.horizon, o)
		if err != nil {
			return ValueSummary{}, err
		}
		pv, err := formulas.PresentValue(residual, rate, v.horizon)
		if err != nil {
			return ValueSummary{}, err
		}
		summary.ResidualValue = pv
		summary.Credit = pv
		return summary, nil
	}

	charges := make([]float64, v.horizon)
	for year := 1; year <= v.horizon; year++ {
		dep, err := v.Depreciation(year, o)
		if err != nil {
			return ValueSummary{}, err
		}
		charges[year-1] = dep
	}
	pv, err := formulas.NPVOfAnnualCashflows(charges, rate)
	if err != nil {
		return ValueSummary{}, err
	}
	summary.DepreciationCost = pv
	summary.Credit = v.initial - pv
	return summary, nil
}
