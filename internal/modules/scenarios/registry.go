package scenarios

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aristath/fleetcost/internal/domain"
)

// Registry holds the named scenarios available to calculations
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]*Scenario
}

// NewRegistry creates a registry holding the given scenarios
func NewRegistry(list ...*Scenario) (*Registry, error) {
	r := &Registry{scenarios: make(map[string]*Scenario, len(list))}
	for _, s := range list {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewBuiltinRegistry creates a registry with the built-in scenarios
func NewBuiltinRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		// built-in data is static; failing here is a programming error
		panic(err)
	}
	return r
}

// Register adds or replaces a scenario after validating it
func (r *Registry) Register(s *Scenario) error {
	if s == nil {
		return domain.NewConfigurationError("scenario", "scenario is nil")
	}
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.scenarios[s.ID] = s
	r.mu.Unlock()
	return nil
}

// Get returns the scenario with the given id
func (r *Registry) Get(id string) (*Scenario, error) {
	r.mu.RLock()
	s, ok := r.scenarios[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scenario %q: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

// List returns all scenarios ordered by id
func (r *Registry) List() []*Scenario {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Scenario, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns all scenario ids in order
func (r *Registry) IDs() []string {
	list := r.List()
	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	return ids
}
