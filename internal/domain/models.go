// Package domain provides the core vehicle and ownership types shared by the cost engine.
package domain

import "strings"

// Drivetrain represents the propulsion kind of a vehicle
type Drivetrain string

const (
	// DrivetrainBEV is a battery electric vehicle
	DrivetrainBEV Drivetrain = "BEV"
	// DrivetrainDiesel is an internal combustion diesel vehicle
	DrivetrainDiesel Drivetrain = "Diesel"
)

// Valid reports whether the drivetrain is one of the known kinds
func (d Drivetrain) Valid() bool {
	return d == DrivetrainBEV || d == DrivetrainDiesel
}

// WeightClass represents the regulatory size class of a truck
type WeightClass string

const (
	WeightClassLightRigid  WeightClass = "Light Rigid"
	WeightClassMediumRigid WeightClass = "Medium Rigid"
	WeightClassArticulated WeightClass = "Articulated"
)

// Valid reports whether the weight class is one of the known classes
func (w WeightClass) Valid() bool {
	switch w {
	case WeightClassLightRigid, WeightClassMediumRigid, WeightClassArticulated:
		return true
	}
	return false
}

// IsArticulated reports whether the class uses articulated rate tables.
// Light and medium rigid trucks share the rigid tables.
func (w WeightClass) IsArticulated() bool {
	return w == WeightClassArticulated
}

// PurchaseMethod represents how the vehicle is paid for
type PurchaseMethod string

const (
	PurchaseOutright PurchaseMethod = "outright"
	PurchaseFinanced PurchaseMethod = "financed"
)

// Valid reports whether the method is known
func (m PurchaseMethod) Valid() bool {
	return m == PurchaseOutright || m == PurchaseFinanced
}

// ParsePurchaseMethod parses a purchase method name (case-insensitive)
func ParsePurchaseMethod(s string) (PurchaseMethod, error) {
	switch PurchaseMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PurchaseOutright:
		return PurchaseOutright, nil
	case PurchaseFinanced:
		return PurchaseFinanced, nil
	}
	return "", NewConfigurationError("purchase_method", "unknown purchase method %q", s)
}

// ValueTreatment selects how loss of vehicle value enters the total cost
type ValueTreatment string

const (
	// ValueResidual subtracts the discounted residual value at the end of the horizon
	ValueResidual ValueTreatment = "residual"
	// ValueDepreciation subtracts the purchase cost less discounted yearly depreciation
	ValueDepreciation ValueTreatment = "depreciation"
)

// Valid reports whether the treatment is known
func (t ValueTreatment) Valid() bool {
	return t == ValueResidual || t == ValueDepreciation
}

// ParseValueTreatment parses a value treatment name (case-insensitive)
func ParseValueTreatment(s string) (ValueTreatment, error) {
	switch ValueTreatment(strings.ToLower(strings.TrimSpace(s))) {
	case ValueResidual:
		return ValueResidual, nil
	case ValueDepreciation:
		return ValueDepreciation, nil
	}
	return "", NewConfigurationError("value_treatment", "unknown value treatment %q", s)
}

// VehicleSpec is the static, immutable description of a catalog vehicle
type VehicleSpec struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Drivetrain         Drivetrain  `json:"drivetrain"`
	WeightClass        WeightClass `json:"weight_class"`
	ComparisonPairID   string      `json:"comparison_pair_id,omitempty"`
	Payload            float64     `json:"payload"` // tonnes
	PurchasePrice      float64     `json:"purchase_price"`
	RangeKm            float64     `json:"range_km"`
	BatteryCapacityKWh float64     `json:"battery_capacity_kwh"`
	KWhPerKm           float64     `json:"kwh_per_km"`
	LitresPerKm        float64     `json:"litres_per_km"`
	AnnualKm           float64     `json:"annual_km"`
	AnnualRegistration float64     `json:"annual_registration"`
}

// IsBEV reports whether the vehicle is battery electric
func (v VehicleSpec) IsBEV() bool {
	return v.Drivetrain == DrivetrainBEV
}

// HasPair reports whether the vehicle declares a comparison pair
func (v VehicleSpec) HasPair() bool {
	return v.ComparisonPairID != ""
}

// Efficiency returns kWh/km for electric vehicles and L/km for diesel
func (v VehicleSpec) Efficiency() float64 {
	if v.IsBEV() {
		return v.KWhPerKm
	}
	return v.LitresPerKm
}

// Validate checks the basic range and consistency rules of a vehicle
func (v VehicleSpec) Validate() error {
	switch {
	case v.ID == "":
		return NewConfigurationError("id", "vehicle id is required")
	case !v.Drivetrain.Valid():
		return NewConfigurationError("drivetrain", "vehicle %s: unknown drivetrain %q", v.ID, v.Drivetrain)
	case !v.WeightClass.Valid():
		return NewConfigurationError("weight_class", "vehicle %s: unknown weight class %q", v.ID, v.WeightClass)
	case v.PurchasePrice <= 0:
		return NewConfigurationError("purchase_price", "vehicle %s: purchase price must be positive", v.ID)
	case v.AnnualKm <= 0:
		return NewConfigurationError("annual_km", "vehicle %s: annual distance must be positive", v.ID)
	case v.Efficiency() <= 0:
		return NewConfigurationError("efficiency", "vehicle %s: efficiency must be positive", v.ID)
	case v.IsBEV() && v.BatteryCapacityKWh <= 0:
		return NewConfigurationError("battery_capacity_kwh", "vehicle %s: battery capacity must be positive", v.ID)
	case v.Payload < 0:
		return NewConfigurationError("payload", "vehicle %s: payload cannot be negative", v.ID)
	case v.AnnualRegistration < 0:
		return NewConfigurationError("annual_registration", "vehicle %s: registration cannot be negative", v.ID)
	case v.ComparisonPairID == v.ID:
		return NewConfigurationError("comparison_pair_id", "vehicle %s cannot be its own comparison pair", v.ID)
	}
	return nil
}
