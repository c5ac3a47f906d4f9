package costs

import (
	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
)

// Registry holds the annual-stream calculators of one vehicle in evaluation order
type Registry struct {
	calculators []Calculator
	index       map[Category]int
	log         zerolog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		index: make(map[Category]int),
		log:   log.With().Str("component", "cost_registry").Logger(),
	}
}

// Register appends a calculator. Categories must be unique.
func (r *Registry) Register(c Calculator) error {
	if c == nil {
		return domain.NewConfigurationError("calculator", "calculator is nil")
	}
	if _, exists := r.index[c.Category()]; exists {
		return domain.NewConfigurationError("calculator", "category %q already registered", c.Category())
	}
	r.index[c.Category()] = len(r.calculators)
	r.calculators = append(r.calculators, c)
	r.log.Debug().Str("category", string(c.Category())).Msg("Registered calculator")
	return nil
}

// Get returns the calculator of a category
func (r *Registry) Get(category Category) (Calculator, bool) {
	i, ok := r.index[category]
	if !ok {
		return nil, false
	}
	return r.calculators[i], true
}

// All returns the calculators in registration order
func (r *Registry) All() []Calculator {
	out := make([]Calculator, len(r.calculators))
	copy(out, r.calculators)
	return out
}

// Categories returns the registered categories in order
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.calculators))
	for i, c := range r.calculators {
		out[i] = c.Category()
	}
	return out
}

// Len returns the number of calculators
func (r *Registry) Len() int {
	return len(r.calculators)
}

// Stream evaluates one category for years 1..horizon
func Stream(c Calculator, horizon int, o Overrides) ([]float64, error) {
	out := make([]float64, horizon)
	for year := 1; year <= horizon; year++ {
		amount, err := c.AnnualAmount(year, o)
		if err != nil {
			return nil, err
		}
		out[year-1] = amount
	}
	return out, nil
}
