package tco

import (
	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/pkg/formulas"
)

// Aggregator reduces an input aggregate and an override set to a single result.
// It holds no per-call state; one instance serves every caller.
type Aggregator struct {
	strict bool
	log    zerolog.Logger
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithStrictOverrides rejects unknown override keys passed to CalculateRaw
func WithStrictOverrides() Option {
	return func(a *Aggregator) { a.strict = true }
}

// NewAggregator creates an aggregator
func NewAggregator(log zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{log: log.With().Str("component", "tco_aggregator").Logger()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Strict reports whether unknown override keys are rejected
func (a *Aggregator) Strict() bool {
	return a.strict
}

// ParseOverrides applies the aggregator's strictness to a wire map
func (a *Aggregator) ParseOverrides(raw map[string]float64) (costs.Overrides, error) {
	return costs.ParseOverrides(raw, a.strict)
}

// CalculateRaw parses raw overrides and calculates
func (a *Aggregator) CalculateRaw(in *Inputs, raw map[string]float64) (*Result, error) {
	o, err := a.ParseOverrides(raw)
	if err != nil {
		return nil, err
	}
	return a.Calculate(in, o)
}

func checkInputs(in *Inputs) error {
	if in == nil {
		return domain.NewDomainError("calculate", "input aggregate is nil")
	}
	if in.financing == nil || in.value == nil || in.registry == nil || in.insurance == nil || in.registration == nil || in.scenario == nil {
		return domain.NewDomainError("calculate", "input aggregate was not built with NewInputs")
	}
	return nil
}

// Calculate computes the discounted total cost of ownership under o.
// The aggregate is never modified, so concurrent calls with different overrides are safe.
func (a *Aggregator) Calculate(in *Inputs, o costs.Overrides) (*Result, error) {
	if err := checkInputs(in); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	rate := in.constants.DiscountRate
	horizon := in.constants.Horizon
	v := in.vehicle

	r := &Result{
		VehicleID:      v.ID,
		VehicleName:    v.Name,
		Drivetrain:     v.Drivetrain,
		ScenarioID:     in.scenario.ID,
		PurchaseMethod: in.method,
		ValueTreatment: in.treatment,
		Horizon:        horizon,
		UpfrontCost:    in.financing.DownPayment,
		FinancingCost:  in.financing.TotalInterest(),
	}

	purchase, err := in.financing.PresentValue(rate)
	if err != nil {
		return nil, err
	}
	r.PurchaseCost = purchase

	value, err := in.value.Summarize(rate, o)
	if err != nil {
		return nil, err
	}
	r.ResidualValue = value.ResidualValue
	r.DepreciationCost = value.DepreciationCost

	streams := 0.0
	for _, calc := range in.registry.All() {
		amounts, err := costs.Stream(calc, horizon, o)
		if err != nil {
			return nil, err
		}
		pv, err := formulas.NPVOfAnnualCashflows(amounts, rate)
		if err != nil {
			return nil, err
		}
		r.assign(calc.Category(), pv)
		streams += pv
	}

	if r.InsuranceCost, err = formulas.AnnuityPresentValue(in.insurance.Amount(), rate, horizon); err != nil {
		return nil, err
	}
	if r.RegistrationCost, err = formulas.AnnuityPresentValue(in.registration.Amount(), rate, horizon); err != nil {
		return nil, err
	}

	r.TotalCost = purchase + streams + r.InsuranceCost + r.RegistrationCost - value.Credit
	r.AnnualCost = r.TotalCost / float64(horizon)

	r.AnnualKm = v.AnnualKm
	if km, ok := o.Get(costs.AnnualKms); ok {
		r.AnnualKm = km
	}
	r.CostPerKm = r.AnnualCost / r.AnnualKm

	if r.EmissionsTonnes, err = in.Emissions(o); err != nil {
		return nil, err
	}
	r.BatteryReplacementYear = in.battery.ReplacementYear(o)

	a.log.Trace().
		Str("vehicle", v.ID).
		Str("scenario", in.scenario.ID).
		Int("overrides", o.Len()).
		Float64("total", r.TotalCost).
		Msg("Calculated total cost of ownership")

	return r, nil
}

// AnnualCashflows returns undiscounted cash out per year, year 0 being the purchase.
// Resale value is not included.
func (a *Aggregator) AnnualCashflows(in *Inputs, o costs.Overrides) ([]CashflowRow, error) {
	if err := checkInputs(in); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	horizon := in.constants.Horizon
	rows := make([]CashflowRow, 0, horizon+1)
	cumulative := in.financing.CashOutlay(0)
	rows = append(rows, CashflowRow{Year: 0, Purchase: cumulative, Total: cumulative, Cumulative: cumulative})

	calcs := append(in.registry.All(), in.insurance, in.registration)
	for year := 1; year <= horizon; year++ {
		row := CashflowRow{Year: year, Purchase: in.financing.CashOutlay(year)}
		for _, c := range calcs {
			amount, err := c.AnnualAmount(year, o)
			if err != nil {
				return nil, err
			}
			row.Operating += amount
		}
		row.Total = row.Purchase + row.Operating
		cumulative += row.Total
		row.Cumulative = cumulative
		rows = append(rows, row)
	}
	return rows, nil
}
