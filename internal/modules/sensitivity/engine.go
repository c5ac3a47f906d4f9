// Package sensitivity runs one-at-a-time parameter sweeps for tornado analysis.
// Sweeps are independent: interactions between parameters are not modeled.
package sensitivity

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/tco"
)

// Sweep perturbs one override key between a low and a high value
type Sweep struct {
	Name string    `json:"name"`
	Key  costs.Key `json:"key"`
	Low  float64   `json:"low"`
	High float64   `json:"high"`
	// Base is the reference value; nil means the unperturbed case
	Base *float64 `json:"base,omitempty"`
}

// Validate checks the sweep definition
func (s Sweep) Validate() error {
	field := "sweeps." + s.label()
	if !s.Key.Valid() {
		return domain.NewConfigurationError(field, "unknown override key")
	}
	values := []float64{s.Low, s.High}
	if s.Base != nil {
		values = append(values, *s.Base)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.NewConfigurationError(field, "values must be finite")
		}
	}
	return nil
}

func (s Sweep) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key.String()
}

// Impact is the effect of one sweep on total cost
type Impact struct {
	Name          string    `json:"name"`
	Key           costs.Key `json:"key"`
	Low           float64   `json:"low"`
	High          float64   `json:"high"`
	BaseTotal     float64   `json:"base_total"`
	LowTotal      float64   `json:"low_total"`
	HighTotal     float64   `json:"high_total"`
	Swing         float64   `json:"swing"` // |HighTotal - LowTotal|
	LowChangePct  float64   `json:"low_change_pct"`
	HighChangePct float64   `json:"high_change_pct"`
}

// Point is one evaluation of a value sweep
type Point struct {
	Value     float64 `json:"value"`
	Total     float64 `json:"total"`
	ChangePct float64 `json:"change_pct"`
}

// Engine evaluates sweeps against the cost aggregator
type Engine struct {
	aggregator *tco.Aggregator
	log        zerolog.Logger
}

// NewEngine creates a sensitivity engine
func NewEngine(aggregator *tco.Aggregator, log zerolog.Logger) *Engine {
	return &Engine{
		aggregator: aggregator,
		log:        log.With().Str("component", "sensitivity").Logger(),
	}
}

// Run evaluates every sweep at its bounds and returns the impacts ordered by
// swing, largest first. The first failing evaluation aborts the run.
func (e *Engine) Run(ctx context.Context, in *tco.Inputs, sweeps []Sweep) ([]Impact, error) {
	if in == nil {
		return nil, domain.NewConfigurationError("inputs", "inputs are required")
	}
	for _, s := range sweeps {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	base, err := e.total(ctx, in, costs.NoOverrides)
	if err != nil {
		return nil, err
	}

	impacts := make([]Impact, 0, len(sweeps))
	for _, s := range sweeps {
		impact, err := e.evaluate(ctx, in, s, base)
		if err != nil {
			return nil, fmt.Errorf("sweep %s: %w", s.label(), err)
		}
		impacts = append(impacts, impact)
	}

	slices.SortStableFunc(impacts, func(a, b Impact) int {
		if c := cmp.Compare(b.Swing, a.Swing); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	e.log.Debug().
		Str("vehicle", in.Vehicle().ID).
		Int("sweeps", len(sweeps)).
		Dur("elapsed", time.Since(start)).
		Msg("Tornado analysis completed")
	return impacts, nil
}

func (e *Engine) evaluate(ctx context.Context, in *tco.Inputs, s Sweep, base float64) (Impact, error) {
	reference := base
	if s.Base != nil {
		total, err := e.total(ctx, in, costs.NoOverrides.With(s.Key, *s.Base))
		if err != nil {
			return Impact{}, err
		}
		reference = total
	}
	low, err := e.total(ctx, in, costs.NoOverrides.With(s.Key, s.Low))
	if err != nil {
		return Impact{}, err
	}
	high, err := e.total(ctx, in, costs.NoOverrides.With(s.Key, s.High))
	if err != nil {
		return Impact{}, err
	}
	return Impact{
		Name:          s.label(),
		Key:           s.Key,
		Low:           s.Low,
		High:          s.High,
		BaseTotal:     reference,
		LowTotal:      low,
		HighTotal:     high,
		Swing:         math.Abs(high - low),
		LowChangePct:  changePct(low, reference),
		HighChangePct: changePct(high, reference),
	}, nil
}

// Sweep evaluates the total cost for each value of a single key
func (e *Engine) Sweep(ctx context.Context, in *tco.Inputs, key costs.Key, values []float64) ([]Point, error) {
	if in == nil {
		return nil, domain.NewConfigurationError("inputs", "inputs are required")
	}
	if !key.Valid() {
		return nil, domain.NewConfigurationError("key", "unknown override key %s", key)
	}
	if len(values) == 0 {
		return nil, domain.NewConfigurationError("values", "at least one value is required")
	}

	base, err := e.total(ctx, in, costs.NoOverrides)
	if err != nil {
		return nil, err
	}
	points := make([]Point, len(values))
	for i, v := range values {
		total, err := e.total(ctx, in, costs.NoOverrides.With(key, v))
		if err != nil {
			return nil, fmt.Errorf("%s = %g: %w", key, v, err)
		}
		points[i] = Point{Value: v, Total: total, ChangePct: changePct(total, base)}
	}
	return points, nil
}

func (e *Engine) total(ctx context.Context, in *tco.Inputs, o costs.Overrides) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r, err := e.aggregator.Calculate(in, o)
	if err != nil {
		return 0, err
	}
	return r.TotalCost, nil
}

func changePct(value, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (value - base) / base * 100
}

// DefaultSweeps returns the standard tornado set for a vehicle
func DefaultSweeps(v domain.VehicleSpec) []Sweep {
	price := Sweep{Name: "fuel_price", Key: costs.FuelPrice, Low: 0.8, High: 1.2}
	if v.IsBEV() {
		price = Sweep{Name: "electricity_price", Key: costs.ElectricityPrice, Low: 0.8, High: 1.2}
	}
	sweeps := []Sweep{
		price,
		{Name: "maintenance_cost", Key: costs.MaintenanceCost, Low: 0.8, High: 1.2},
		{Name: "annual_kms", Key: costs.AnnualKms, Low: v.AnnualKm * 0.8, High: v.AnnualKm * 1.2},
		{Name: "residual_value", Key: costs.ResidualValue, Low: 0.8, High: 1.2},
	}
	if v.IsBEV() {
		sweeps = append(sweeps,
			Sweep{Name: "battery_life", Key: costs.BatteryLife, Low: 0.7, High: 1.3},
			Sweep{Name: "charging_efficiency", Key: costs.ChargingEfficiency, Low: 0.9, High: 1.1},
		)
	}
	return sweeps
}
