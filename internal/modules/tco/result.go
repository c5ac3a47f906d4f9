package tco

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
)

// Result is the discounted total cost of ownership with its breakdown.
// Every cost figure is a present value except FinancingCost, which is the
// undiscounted interest paid and is reported for information only.
type Result struct {
	VehicleID      string                `json:"vehicle_id"`
	VehicleName    string                `json:"vehicle_name"`
	Drivetrain     domain.Drivetrain     `json:"drivetrain"`
	ScenarioID     string                `json:"scenario_id"`
	PurchaseMethod domain.PurchaseMethod `json:"purchase_method"`
	ValueTreatment domain.ValueTreatment `json:"value_treatment"`
	Horizon        int                   `json:"horizon"`

	TotalCost  float64 `json:"total_cost"`
	AnnualCost float64 `json:"annual_cost"`
	CostPerKm  float64 `json:"cost_per_km"`
	AnnualKm   float64 `json:"annual_km"`

	PurchaseCost       float64 `json:"purchase_cost"`
	UpfrontCost        float64 `json:"upfront_cost"`
	FinancingCost      float64 `json:"financing_cost"`
	FuelCost           float64 `json:"fuel_cost"`
	MaintenanceCost    float64 `json:"maintenance_cost"`
	InsuranceCost      float64 `json:"insurance_cost"`
	RegistrationCost   float64 `json:"registration_cost"`
	BatteryCost        float64 `json:"battery_cost"`
	CarbonCost         float64 `json:"carbon_cost"`
	PayloadPenalty     float64 `json:"payload_penalty"`
	ChargingLabourCost float64 `json:"charging_labour_cost"`
	ResidualValue      float64 `json:"residual_value"`
	DepreciationCost   float64 `json:"depreciation_cost"`

	// Other holds calculators registered beyond the standard categories
	Other map[costs.Category]float64 `json:"other,omitempty"`

	EmissionsTonnes        float64 `json:"emissions_tonnes"`
	BatteryReplacementYear int     `json:"battery_replacement_year,omitempty"`
}

func (r *Result) assign(category costs.Category, pv float64) {
	switch category {
	case costs.CategoryFuel:
		r.FuelCost = pv
	case costs.CategoryMaintenance:
		r.MaintenanceCost = pv
	case costs.CategoryBattery:
		r.BatteryCost = pv
	case costs.CategoryCarbon:
		r.CarbonCost = pv
	case costs.CategoryPayloadPenalty:
		r.PayloadPenalty = pv
	case costs.CategoryChargingLabour:
		r.ChargingLabourCost = pv
	default:
		if r.Other == nil {
			r.Other = make(map[costs.Category]float64)
		}
		r.Other[category] = pv
	}
}

// CashflowRow is one year of undiscounted cash out
type CashflowRow struct {
	Year       int     `json:"year"`
	Purchase   float64 `json:"purchase"`
	Operating  float64 `json:"operating"`
	Total      float64 `json:"total"`
	Cumulative float64 `json:"cumulative"`
}
