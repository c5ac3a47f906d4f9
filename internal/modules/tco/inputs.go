// Package tco aggregates per-category cost projections into a discounted total cost of ownership.
package tco

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/policy"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// Key identifies one cached input aggregate
type Key struct {
	VehicleID  string                `json:"vehicle_id"`
	ScenarioID string                `json:"scenario_id"`
	Method     domain.PurchaseMethod `json:"method"`
}

// InputParams is everything needed to build an input aggregate
type InputParams struct {
	Vehicle   domain.VehicleSpec
	Pair      *domain.VehicleSpec
	Scenario  *scenarios.Scenario
	Method    domain.PurchaseMethod
	Treatment domain.ValueTreatment
	Policy    policy.Set
	Constants costs.Constants
	// Extra calculators appended after the standard annual streams
	Extra []costs.Calculator
	Log   zerolog.Logger
}

// Inputs is the precomputed, read-only aggregate for one vehicle, scenario and
// purchase method. It has no mutators, so it is safe to share between goroutines.
type Inputs struct {
	vehicle   domain.VehicleSpec
	pair      *domain.VehicleSpec
	scenario  *scenarios.Scenario
	method    domain.PurchaseMethod
	treatment domain.ValueTreatment
	policy    policy.Set
	constants costs.Constants

	stampDuty   float64
	rebate      float64
	initialCost float64

	financing    *costs.Financing
	fuel         *costs.FuelCalculator
	battery      *costs.BatteryCalculator
	insurance    *costs.FixedCost
	registration *costs.FixedCost
	value        *costs.ValueLoss
	registry     *costs.Registry
}

// NewInputs validates the parameters and builds every calculator once
func NewInputs(p InputParams) (*Inputs, error) {
	if err := p.Vehicle.Validate(); err != nil {
		return nil, err
	}
	if p.Scenario == nil {
		return nil, domain.NewConfigurationError("scenario", "scenario is required")
	}
	if err := p.Scenario.Validate(); err != nil {
		return nil, err
	}
	if err := p.Constants.Validate(); err != nil {
		return nil, err
	}
	if !p.Method.Valid() {
		return nil, domain.NewConfigurationError("purchase_method", "unknown purchase method %q", p.Method)
	}
	if p.Treatment == "" {
		p.Treatment = domain.ValueResidual
	}

	set := p.Policy
	if set == (policy.Set{}) {
		set = policy.Neutral()
	}
	// incentives withdrawn by the scenario before the purchase year do not apply
	if !p.Scenario.PolicyActive(1) {
		set.Rebate = 0
		set.StampDutyMultiplier = 1
		set.RateAdjustment = 0
	}

	v := p.Vehicle
	in := &Inputs{
		vehicle:   v,
		pair:      p.Pair,
		scenario:  p.Scenario,
		method:    p.Method,
		treatment: p.Treatment,
		policy:    set,
		constants: p.Constants,
	}
	in.stampDuty = v.PurchasePrice * p.Constants.StampDutyRate * set.StampDutyMultiplier
	in.rebate = math.Min(set.Rebate, v.PurchasePrice)
	in.initialCost = v.PurchasePrice + in.stampDuty - in.rebate

	var err error
	if in.financing, err = costs.NewFinancing(p.Method, in.initialCost, set.RateAdjustment, p.Constants); err != nil {
		return nil, err
	}
	if in.value, err = costs.NewValueLoss(v, p.Scenario, in.initialCost, p.Treatment, p.Constants); err != nil {
		return nil, err
	}
	if in.insurance, err = costs.NewInsuranceCost(v, p.Scenario, p.Constants); err != nil {
		return nil, err
	}
	if in.registration, err = costs.NewRegistrationCost(v, p.Scenario, p.Constants); err != nil {
		return nil, err
	}
	if in.fuel, err = costs.NewFuelCalculator(v, p.Scenario, p.Constants); err != nil {
		return nil, err
	}
	maintenance, err := costs.NewMaintenanceCalculator(v, p.Scenario, p.Constants)
	if err != nil {
		return nil, err
	}
	if in.battery, err = costs.NewBatteryCalculator(v, p.Scenario, p.Constants); err != nil {
		return nil, err
	}
	carbon, err := costs.NewCarbonCalculator(v, p.Scenario, set, in.fuel, p.Constants)
	if err != nil {
		return nil, err
	}
	payload, err := costs.NewPayloadCalculator(v, p.Pair, p.Scenario, p.Constants)
	if err != nil {
		return nil, err
	}
	labour, err := costs.NewChargingLabourCalculator(v, p.Scenario, in.fuel, p.Constants)
	if err != nil {
		return nil, err
	}

	in.registry = costs.NewRegistry(p.Log)
	for _, c := range append([]costs.Calculator{in.fuel, maintenance, in.battery, carbon, payload, labour}, p.Extra...) {
		if err := in.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return in, nil
}

// Key returns the cache key of the aggregate
func (in *Inputs) Key() Key {
	return Key{VehicleID: in.vehicle.ID, ScenarioID: in.scenario.ID, Method: in.method}
}

// Vehicle returns the vehicle specification
func (in *Inputs) Vehicle() domain.VehicleSpec { return in.vehicle }

// Pair returns the comparison pair, nil when none
func (in *Inputs) Pair() *domain.VehicleSpec { return in.pair }

// Scenario returns the scenario
func (in *Inputs) Scenario() *scenarios.Scenario { return in.scenario }

// Method returns the purchase method
func (in *Inputs) Method() domain.PurchaseMethod { return in.method }

// Treatment returns the value-loss treatment
func (in *Inputs) Treatment() domain.ValueTreatment { return in.treatment }

// Policy returns the effective policy set
func (in *Inputs) Policy() policy.Set { return in.policy }

// Constants returns the constant table used
func (in *Inputs) Constants() costs.Constants { return in.constants }

// Horizon returns the projection length in years
func (in *Inputs) Horizon() int { return in.constants.Horizon }

// StampDuty returns the stamp duty paid at purchase
func (in *Inputs) StampDuty() float64 { return in.stampDuty }

// Rebate returns the purchase rebate received
func (in *Inputs) Rebate() float64 { return in.rebate }

// InitialCost returns price plus stamp duty less rebate
func (in *Inputs) InitialCost() float64 { return in.initialCost }

// Financing returns the purchase plan
func (in *Inputs) Financing() *costs.Financing { return in.financing }

// Calculators returns the annual-stream calculators in evaluation order
func (in *Inputs) Calculators() []costs.Calculator { return in.registry.All() }

// Amount returns the undiscounted amount of any category for a year under o
func (in *Inputs) Amount(category costs.Category, year int, o costs.Overrides) (float64, error) {
	switch category {
	case costs.CategoryInsurance:
		return in.insurance.AnnualAmount(year, o)
	case costs.CategoryRegistration:
		return in.registration.AnnualAmount(year, o)
	}
	c, ok := in.registry.Get(category)
	if !ok {
		return 0, domain.NewDomainError("amount", "unknown cost category %q", category)
	}
	return c.AnnualAmount(year, o)
}

// Emissions returns the tonnes of CO2e from energy use over the horizon
func (in *Inputs) Emissions(o costs.Overrides) (float64, error) {
	total := 0.0
	for year := 1; year <= in.Horizon(); year++ {
		kg, err := in.fuel.Emissions(year, o)
		if err != nil {
			return 0, err
		}
		total += kg
	}
	return total / 1000, nil
}

// Summary is the JSON view of the precomputed scalars
type Summary struct {
	Key                Key                   `json:"key"`
	Treatment          domain.ValueTreatment `json:"value_treatment"`
	Policy             policy.Set            `json:"policy"`
	StampDuty          float64               `json:"stamp_duty"`
	Rebate             float64               `json:"rebate"`
	InitialCost        float64               `json:"initial_cost"`
	DownPayment        float64               `json:"down_payment"`
	LoanAmount         float64               `json:"loan_amount"`
	FinancingRate      float64               `json:"financing_rate"`
	MonthlyPayment     float64               `json:"monthly_payment"`
	TotalFinancingCost float64               `json:"total_financing_cost"`
	BatteryReplacement int                   `json:"battery_replacement_year"`
	Categories         []costs.Category      `json:"categories"`
}

// Summary returns the precomputed scalars
func (in *Inputs) Summary() Summary {
	return Summary{
		Key:                in.Key(),
		Treatment:          in.treatment,
		Policy:             in.policy,
		StampDuty:          in.stampDuty,
		Rebate:             in.rebate,
		InitialCost:        in.initialCost,
		DownPayment:        in.financing.DownPayment,
		LoanAmount:         in.financing.LoanAmount,
		FinancingRate:      in.financing.Rate,
		MonthlyPayment:     in.financing.Payment(),
		TotalFinancingCost: in.financing.TotalInterest(),
		BatteryReplacement: in.battery.ReplacementYear(costs.NoOverrides),
		Categories:         in.registry.Categories(),
	}
}
