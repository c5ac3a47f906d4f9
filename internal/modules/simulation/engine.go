package simulation

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/tco"
	"github.com/aristath/fleetcost/pkg/formulas"
)

// Trial limits
const (
	DefaultTrials    = 10000
	DefaultMaxTrials = 100000
)

// Progress reports completed trials
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// ProgressFunc receives progress updates. Calls are serialized.
type ProgressFunc func(Progress)

// Options controls a run
type Options struct {
	Trials      int          `json:"trials,omitempty"`
	Seed        uint64       `json:"seed,omitempty"` // 0 derives a seed from the clock
	Workers     int          `json:"workers,omitempty"`
	Percentiles []float64    `json:"percentiles,omitempty"`
	Metric      Metric       `json:"metric,omitempty"`
	Progress    ProgressFunc `json:"-"`
}

// Config holds engine defaults
type Config struct {
	Workers   int // 0 means one per CPU
	MaxTrials int
}

// Engine runs Monte Carlo trials against the cost aggregator.
// Trials only read the shared inputs; each builds its own overrides.
type Engine struct {
	aggregator *tco.Aggregator
	pool       *WorkerPool
	maxTrials  int
	log        zerolog.Logger
}

// NewEngine creates a Monte Carlo engine
func NewEngine(aggregator *tco.Aggregator, cfg Config, log zerolog.Logger) *Engine {
	if cfg.MaxTrials <= 0 {
		cfg.MaxTrials = DefaultMaxTrials
	}
	return &Engine{
		aggregator: aggregator,
		pool:       NewWorkerPool(cfg.Workers),
		maxTrials:  cfg.MaxTrials,
		log:        log.With().Str("component", "simulation").Logger(),
	}
}

// MaxTrials returns the configured trial limit
func (e *Engine) MaxTrials() int {
	return e.maxTrials
}

func (e *Engine) normalize(opts Options) (Options, error) {
	if opts.Trials == 0 {
		opts.Trials = DefaultTrials
	}
	if opts.Trials < 0 || opts.Trials > e.maxTrials {
		return opts, domain.NewConfigurationError("trials", "must be within [1, %d] (got %d)", e.maxTrials, opts.Trials)
	}
	if opts.Metric == "" {
		opts.Metric = MetricTotalCost
	}
	if !opts.Metric.Valid() {
		return opts, domain.NewConfigurationError("metric", "unknown metric %q", opts.Metric)
	}
	for _, p := range opts.Percentiles {
		if math.IsNaN(p) || p < 0 || p > 100 {
			return opts, domain.NewConfigurationError("percentiles", "%g is outside [0, 100]", p)
		}
	}
	return opts, nil
}

func (e *Engine) poolFor(opts Options) *WorkerPool {
	if opts.Workers > 0 {
		return NewWorkerPool(opts.Workers)
	}
	return e.pool
}

// Run samples params Trials times against in and summarizes the recorded metric.
// Nil params means DefaultParameters of the vehicle. The first failing trial
// aborts the run.
func (e *Engine) Run(ctx context.Context, in *tco.Inputs, params []Parameter, opts Options) (*Results, error) {
	if in == nil {
		return nil, domain.NewConfigurationError("inputs", "inputs are required")
	}
	opts, err := e.normalize(opts)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = DefaultParameters(in.Vehicle())
	}
	if err := validateParameters(params); err != nil {
		return nil, err
	}

	seed := resolveSeed(opts.Seed)
	progress := newProgressReporter(opts.Trials, opts.Progress)

	start := time.Now()
	res, err := e.run(ctx, in, params, seed, opts, progress)
	if err != nil {
		return nil, err
	}
	res.RunID = uuid.NewString()

	e.log.Debug().
		Str("run_id", res.RunID).
		Str("vehicle", res.VehicleID).
		Int("trials", res.Trials).
		Uint64("seed", seed).
		Dur("elapsed", time.Since(start)).
		Float64("mean", res.Mean).
		Msg("Simulation completed")
	return res, nil
}

// Compare runs both vehicles over the same trial count. Paired sampling (the
// default) reuses the seed so keys present in both parameter sets receive the
// same draw in each trial; independent sampling derives a second seed for b.
func (e *Engine) Compare(ctx context.Context, a, b *tco.Inputs, paramsA, paramsB []Parameter, opts Options, sampling Sampling) (*Comparison, error) {
	if a == nil || b == nil {
		return nil, domain.NewConfigurationError("inputs", "inputs for both vehicles are required")
	}
	if sampling == "" {
		sampling = SamplingPaired
	}
	if !sampling.Valid() {
		return nil, domain.NewConfigurationError("sampling", "unknown sampling mode %q", sampling)
	}
	opts, err := e.normalize(opts)
	if err != nil {
		return nil, err
	}
	if paramsA == nil {
		paramsA = DefaultParameters(a.Vehicle())
	}
	if paramsB == nil {
		paramsB = DefaultParameters(b.Vehicle())
	}
	if err := validateParameters(paramsA); err != nil {
		return nil, err
	}
	if err := validateParameters(paramsB); err != nil {
		return nil, err
	}

	seed := resolveSeed(opts.Seed)
	seedB := seed
	if sampling == SamplingIndependent {
		seedB = splitSeed(seed, independentStream)
	}
	progress := newProgressReporter(2*opts.Trials, opts.Progress)

	start := time.Now()
	resA, err := e.run(ctx, a, paramsA, seed, opts, progress)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", a.Vehicle().ID, err)
	}
	resB, err := e.run(ctx, b, paramsB, seedB, opts, progress)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: %w", b.Vehicle().ID, err)
	}

	runID := uuid.NewString()
	resA.RunID, resB.RunID = runID, runID

	diffs := make([]float64, opts.Trials)
	for i := range diffs {
		diffs[i] = resA.Values[i] - resB.Values[i]
	}
	c := &Comparison{
		RunID:             runID,
		Sampling:          sampling,
		A:                 resA,
		B:                 resB,
		Differences:       diffs,
		Difference:        summarize(diffs, opts.Percentiles),
		MeanDifference:    formulas.Mean(diffs),
		ProbabilityALower: formulas.FractionBelow(resA.Values, resB.Values),
	}

	e.log.Debug().
		Str("run_id", runID).
		Str("a", resA.VehicleID).
		Str("b", resB.VehicleID).
		Str("sampling", string(sampling)).
		Int("trials", opts.Trials).
		Dur("elapsed", time.Since(start)).
		Float64("p_a_lower", c.ProbabilityALower).
		Msg("Simulation comparison completed")
	return c, nil
}

// run executes the trials and builds the result without a run id
func (e *Engine) run(ctx context.Context, in *tco.Inputs, params []Parameter, seed uint64, opts Options, progress *progressReporter) (*Results, error) {
	base, err := e.aggregator.Calculate(in, costs.NoOverrides)
	if err != nil {
		return nil, err
	}

	values := make([]float64, opts.Trials)
	err = e.poolFor(opts).Run(ctx, opts.Trials, func(trial int) error {
		r, err := e.aggregator.Calculate(in, sampleOverrides(params, seed, trial))
		if err != nil {
			return fmt.Errorf("trial %d: %w", trial, err)
		}
		values[trial] = opts.Metric.of(r)
		progress.tick()
		return nil
	})
	if err != nil {
		return nil, err
	}

	key := in.Key()
	return &Results{
		VehicleID:  key.VehicleID,
		ScenarioID: key.ScenarioID,
		Method:     key.Method,
		Metric:     opts.Metric,
		Trials:     opts.Trials,
		Seed:       seed,
		BaseValue:  opts.Metric.of(base),
		Parameters: params,
		Summary:    summarize(values, opts.Percentiles),
		Values:     values,
	}, nil
}

// progressReporter throttles callbacks to roughly every 1% of the total
type progressReporter struct {
	mu    sync.Mutex
	done  int
	total int
	step  int
	fn    ProgressFunc
}

func newProgressReporter(total int, fn ProgressFunc) *progressReporter {
	if fn == nil {
		return nil
	}
	step := total / 100
	if step < 1 {
		step = 1
	}
	return &progressReporter{total: total, step: step, fn: fn}
}

func (p *progressReporter) tick() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if p.done%p.step == 0 || p.done == p.total {
		p.fn(Progress{Done: p.done, Total: p.total})
	}
}
