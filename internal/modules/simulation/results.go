package simulation

import (
	"sort"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/tco"
	"github.com/aristath/fleetcost/pkg/formulas"
)

// StandardPercentiles are always reported
var StandardPercentiles = []float64{5, 10, 25, 50, 75, 90, 95}

// Metric selects the result scalar recorded per trial
type Metric string

// Recordable metrics
const (
	MetricTotalCost  Metric = "total_cost"
	MetricAnnualCost Metric = "annual_cost"
	MetricCostPerKm  Metric = "cost_per_km"
)

// Valid reports whether m is a known metric
func (m Metric) Valid() bool {
	switch m {
	case MetricTotalCost, MetricAnnualCost, MetricCostPerKm:
		return true
	}
	return false
}

func (m Metric) of(r *tco.Result) float64 {
	switch m {
	case MetricAnnualCost:
		return r.AnnualCost
	case MetricCostPerKm:
		return r.CostPerKm
	}
	return r.TotalCost
}

// Sampling controls how the two vehicles of a comparison draw their parameters
type Sampling string

// Sampling modes
const (
	// SamplingPaired gives shared keys the same draw in every trial
	SamplingPaired Sampling = "paired"
	// SamplingIndependent gives the second vehicle its own seed stream
	SamplingIndependent Sampling = "independent"
)

// Valid reports whether s is a known sampling mode
func (s Sampling) Valid() bool {
	return s == SamplingPaired || s == SamplingIndependent
}

// Percentile is one percentile of a sample
type Percentile struct {
	P     float64 `json:"p"`
	Value float64 `json:"value"`
}

// Summary holds descriptive statistics of a sample
type Summary struct {
	Mean        float64      `json:"mean"`
	StdDev      float64      `json:"std_dev"`
	Min         float64      `json:"min"`
	Max         float64      `json:"max"`
	Percentiles []Percentile `json:"percentiles"`
	CI95        [2]float64   `json:"ci95"`
}

// Percentile returns the value of percentile p if it was computed
func (s Summary) Percentile(p float64) (float64, bool) {
	for _, pt := range s.Percentiles {
		if pt.P == p {
			return pt.Value, true
		}
	}
	return 0, false
}

// summarize computes statistics over values with the standard plus extra percentiles
func summarize(values []float64, extra []float64) Summary {
	ps := mergePercentiles(extra)
	computed := formulas.Percentiles(values, ps)

	s := Summary{
		Mean:        formulas.Mean(values),
		StdDev:      formulas.StdDev(values),
		Min:         formulas.Min(values),
		Max:         formulas.Max(values),
		Percentiles: make([]Percentile, len(ps)),
	}
	for i, p := range ps {
		s.Percentiles[i] = Percentile{P: p, Value: computed[p]}
	}
	s.CI95 = [2]float64{computed[5], computed[95]}
	return s
}

func mergePercentiles(extra []float64) []float64 {
	ps := append([]float64(nil), StandardPercentiles...)
	for _, p := range extra {
		dup := false
		for _, q := range ps {
			if q == p {
				dup = true
				break
			}
		}
		if !dup {
			ps = append(ps, p)
		}
	}
	sort.Float64s(ps)
	return ps
}

// Results is the outcome of a Monte Carlo run for one vehicle
type Results struct {
	RunID      string                `json:"run_id"`
	VehicleID  string                `json:"vehicle_id"`
	ScenarioID string                `json:"scenario_id"`
	Method     domain.PurchaseMethod `json:"purchase_method"`
	Metric     Metric                `json:"metric"`
	Trials     int                   `json:"trials"`
	Seed       uint64                `json:"seed"`
	// BaseValue is the metric without any override
	BaseValue  float64     `json:"base_value"`
	Parameters []Parameter `json:"parameters"`
	Summary
	// Values holds the per-trial metric in trial order
	Values []float64 `json:"values,omitempty"`
}

// Comparison is a Monte Carlo comparison of two vehicles
type Comparison struct {
	RunID    string   `json:"run_id"`
	Sampling Sampling `json:"sampling"`
	A        *Results `json:"a"`
	B        *Results `json:"b"`
	// Differences holds A minus B per trial
	Differences       []float64 `json:"differences,omitempty"`
	Difference        Summary   `json:"difference"`
	MeanDifference    float64   `json:"mean_difference"`
	ProbabilityALower float64   `json:"probability_a_lower"`
}

// DropValues removes the per-trial series, keeping the statistics
func (c *Comparison) DropValues() {
	c.Differences = nil
	if c.A != nil {
		c.A.Values = nil
	}
	if c.B != nil {
		c.B.Values = nil
	}
}
