// Package simulation runs Monte Carlo uncertainty analysis on top of the cost aggregator.
package simulation

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
)

// Distribution names a sampling distribution
type Distribution string

// Supported distributions
const (
	Normal     Distribution = "normal"
	Uniform    Distribution = "uniform"
	Triangular Distribution = "triangular"
)

// Parameter is one uncertain input, sampled per trial and applied as an override
type Parameter struct {
	Name         string       `json:"name"`
	Key          costs.Key    `json:"key"`
	Distribution Distribution `json:"distribution"`
	Base         float64      `json:"base"`
	StdDev       float64      `json:"std_dev,omitempty"` // normal
	Min          float64      `json:"min,omitempty"`     // uniform, triangular
	Mode         float64      `json:"mode,omitempty"`    // triangular
	Max          float64      `json:"max,omitempty"`     // uniform, triangular
}

// Validate checks the distribution parameters
func (p Parameter) Validate() error {
	field := "parameters." + p.label()
	if !p.Key.Valid() {
		return domain.NewConfigurationError(field, "unknown override key")
	}
	for _, v := range []float64{p.Base, p.StdDev, p.Min, p.Mode, p.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.NewConfigurationError(field, "values must be finite")
		}
	}

	switch p.Distribution {
	case Normal:
		if p.StdDev < 0 {
			return domain.NewConfigurationError(field, "std_dev cannot be negative (got %g)", p.StdDev)
		}
	case Uniform:
		if p.Min > p.Max {
			return domain.NewConfigurationError(field, "min %g exceeds max %g", p.Min, p.Max)
		}
	case Triangular:
		if p.Min > p.Max {
			return domain.NewConfigurationError(field, "min %g exceeds max %g", p.Min, p.Max)
		}
		if p.Mode < p.Min || p.Mode > p.Max {
			return domain.NewConfigurationError(field, "mode %g outside [%g, %g]", p.Mode, p.Min, p.Max)
		}
	default:
		return domain.NewConfigurationError(field, "unknown distribution %q", p.Distribution)
	}
	return nil
}

// Sample draws one value using src. Normal draws are clamped at zero.
func (p Parameter) Sample(src rand.Source) float64 {
	switch p.Distribution {
	case Normal:
		return math.Max(0, distuv.Normal{Mu: p.Base, Sigma: p.StdDev, Src: src}.Rand())
	case Uniform:
		return distuv.Uniform{Min: p.Min, Max: p.Max, Src: src}.Rand()
	case Triangular:
		if p.Min == p.Max {
			return p.Min
		}
		return distuv.NewTriangle(p.Min, p.Max, p.Mode, src).Rand()
	}
	return p.Base
}

// Mean is the analytical expectation of the distribution, ignoring the normal clamp
func (p Parameter) Mean() float64 {
	switch p.Distribution {
	case Uniform:
		return (p.Min + p.Max) / 2
	case Triangular:
		return (p.Min + p.Mode + p.Max) / 3
	}
	return p.Base
}

func (p Parameter) label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Key.String()
}

// validateParameters checks every parameter and rejects duplicate keys
func validateParameters(params []Parameter) error {
	seen := make(map[costs.Key]bool, len(params))
	for _, p := range params {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.Key] {
			return domain.NewConfigurationError("parameters."+p.label(), "duplicate override key %s", p.Key)
		}
		seen[p.Key] = true
	}
	return nil
}

// DefaultParameters returns the standard uncertainty set for a vehicle.
// Battery life and charging efficiency only apply to electric vehicles.
func DefaultParameters(v domain.VehicleSpec) []Parameter {
	params := []Parameter{
		{Name: "fuel_price_variation", Key: costs.FuelPrice, Distribution: Normal, Base: 1, StdDev: 0.15},
		{Name: "electricity_price_variation", Key: costs.ElectricityPrice, Distribution: Triangular, Base: 1, Min: 0.7, Mode: 1, Max: 1.5},
		{Name: "maintenance_cost_variation", Key: costs.MaintenanceCost, Distribution: Normal, Base: 1, StdDev: 0.10},
		{Name: "annual_kms_variation", Key: costs.AnnualKms, Distribution: Normal, Base: v.AnnualKm, StdDev: v.AnnualKm * 0.1},
		{Name: "residual_value_variation", Key: costs.ResidualValue, Distribution: Uniform, Base: 1, Min: 0.8, Max: 1.2},
	}
	if v.IsBEV() {
		params = append(params,
			Parameter{Name: "battery_life_variation", Key: costs.BatteryLife, Distribution: Triangular, Base: 1, Min: 0.7, Mode: 1, Max: 1.3},
			Parameter{Name: "charging_efficiency_variation", Key: costs.ChargingEfficiency, Distribution: Normal, Base: 1, StdDev: 0.05},
		)
	}
	return params
}
