package tco

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/policy"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// Request asks for one total cost of ownership
type Request struct {
	VehicleID  string                `json:"vehicle_id"`
	ScenarioID string                `json:"scenario_id,omitempty"`
	Method     domain.PurchaseMethod `json:"purchase_method,omitempty"`
	Overrides  map[string]float64    `json:"overrides,omitempty"`
}

// ServiceConfig holds the defaults applied to requests
type ServiceConfig struct {
	Constants       costs.Constants
	Treatment       domain.ValueTreatment
	Policies        policy.Definitions
	DefaultScenario string
	DefaultMethod   domain.PurchaseMethod
}

// catalogReloader is implemented by vehicle lookups backed by a refreshable store
type catalogReloader interface {
	Reload(ctx context.Context) (bool, error)
}

// Service is the entry point of the cost engine: it resolves ids, owns the
// input cache and runs the aggregator.
type Service struct {
	vehicles   domain.VehicleLookup
	scenarios  *scenarios.Registry
	aggregator *Aggregator
	cache      *Cache
	cfg        ServiceConfig

	policyMu sync.RWMutex
	policies policy.Definitions

	log zerolog.Logger
}

// NewService creates the service
func NewService(vehicles domain.VehicleLookup, scenarioRegistry *scenarios.Registry, aggregator *Aggregator, cfg ServiceConfig, log zerolog.Logger) (*Service, error) {
	if err := cfg.Constants.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Policies.Validate(); err != nil {
		return nil, err
	}
	if cfg.Treatment == "" {
		cfg.Treatment = domain.ValueResidual
	}
	if !cfg.Treatment.Valid() {
		return nil, domain.NewConfigurationError("value_treatment", "unknown value treatment %q", cfg.Treatment)
	}
	if cfg.DefaultMethod == "" {
		cfg.DefaultMethod = domain.PurchaseFinanced
	}
	if cfg.DefaultScenario == "" {
		cfg.DefaultScenario = scenarios.Baseline
	}
	if _, err := scenarioRegistry.Get(cfg.DefaultScenario); err != nil {
		return nil, domain.NewConfigurationError("default_scenario", "%v", err)
	}

	s := &Service{
		vehicles:   vehicles,
		scenarios:  scenarioRegistry,
		aggregator: aggregator,
		cfg:        cfg,
		policies:   cfg.Policies,
		log:        log.With().Str("service", "tco").Logger(),
	}
	s.cache = NewCache(s.build, log)
	return s, nil
}

func (s *Service) build(_ context.Context, key Key) (*Inputs, error) {
	scenario, err := s.scenarios.Get(key.ScenarioID)
	if err != nil {
		return nil, err
	}
	return s.buildWithScenario(key.VehicleID, scenario, key.Method)
}

func (s *Service) buildWithScenario(vehicleID string, scenario *scenarios.Scenario, method domain.PurchaseMethod) (*Inputs, error) {
	v, err := s.vehicles.Get(vehicleID)
	if err != nil {
		return nil, err
	}
	var pair *domain.VehicleSpec
	if v.HasPair() {
		p, err := s.vehicles.Get(v.ComparisonPairID)
		if err != nil {
			return nil, fmt.Errorf("comparison pair of %s: %w", v.ID, err)
		}
		pair = &p
	}
	set, err := policy.Resolve(s.Policies(), v)
	if err != nil {
		return nil, err
	}
	return NewInputs(InputParams{
		Vehicle:   v,
		Pair:      pair,
		Scenario:  scenario,
		Method:    method,
		Treatment: s.cfg.Treatment,
		Policy:    set,
		Constants: s.cfg.Constants,
		Log:       s.log,
	})
}

func (s *Service) key(vehicleID, scenarioID string, method domain.PurchaseMethod) Key {
	if scenarioID == "" {
		scenarioID = s.cfg.DefaultScenario
	}
	if method == "" {
		method = s.cfg.DefaultMethod
	}
	return Key{VehicleID: vehicleID, ScenarioID: scenarioID, Method: method}
}

// Aggregator returns the shared aggregator
func (s *Service) Aggregator() *Aggregator {
	return s.aggregator
}

// Inputs returns the cached aggregate, building it on first use
func (s *Service) Inputs(ctx context.Context, vehicleID, scenarioID string, method domain.PurchaseMethod) (*Inputs, error) {
	key := s.key(vehicleID, scenarioID, method)
	if !key.Method.Valid() {
		return nil, domain.NewConfigurationError("purchase_method", "unknown purchase method %q", key.Method)
	}
	return s.cache.Get(ctx, key)
}

// CalculateTCO computes one total cost of ownership
func (s *Service) CalculateTCO(ctx context.Context, req Request) (*Result, error) {
	in, err := s.Inputs(ctx, req.VehicleID, req.ScenarioID, req.Method)
	if err != nil {
		return nil, err
	}
	return s.aggregator.CalculateRaw(in, req.Overrides)
}

// CompareBatch computes every request in order and stops at the first failure
func (s *Service) CompareBatch(ctx context.Context, reqs []Request) ([]*Result, error) {
	results := make([]*Result, 0, len(reqs))
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.CalculateTCO(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("request %d (%s): %w", i, req.VehicleID, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// ComparePair compares a vehicle with its declared comparison pair
func (s *Service) ComparePair(ctx context.Context, vehicleID, scenarioID string, method domain.PurchaseMethod) (*PairComparison, error) {
	bevID, dieselID, err := s.orderPair(vehicleID)
	if err != nil {
		return nil, err
	}
	bev, err := s.CalculateTCO(ctx, Request{VehicleID: bevID, ScenarioID: scenarioID, Method: method})
	if err != nil {
		return nil, err
	}
	diesel, err := s.CalculateTCO(ctx, Request{VehicleID: dieselID, ScenarioID: scenarioID, Method: method})
	if err != nil {
		return nil, err
	}
	return newPairComparison(bev, diesel), nil
}

func (s *Service) orderPair(vehicleID string) (string, string, error) {
	v, err := s.vehicles.Get(vehicleID)
	if err != nil {
		return "", "", err
	}
	if !v.HasPair() {
		return "", "", domain.NewConfigurationError("comparison_pair_id", "vehicle %s has no comparison pair", v.ID)
	}
	if v.IsBEV() {
		return v.ID, v.ComparisonPairID, nil
	}
	return v.ComparisonPairID, v.ID, nil
}

// ComparePairs compares every electric vehicle in the catalog with its pair
func (s *Service) ComparePairs(ctx context.Context, scenarioID string, method domain.PurchaseMethod) ([]*PairComparison, error) {
	var out []*PairComparison
	for _, v := range s.vehicles.List() {
		if !v.IsBEV() || !v.HasPair() {
			continue
		}
		c, err := s.ComparePair(ctx, v.ID, scenarioID, method)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Service) scenarioIDs(ids []string) []string {
	if len(ids) == 0 {
		return s.scenarios.IDs()
	}
	return ids
}

// CompareScenarios computes one vehicle under several scenarios; no ids means all
func (s *Service) CompareScenarios(ctx context.Context, vehicleID string, scenarioIDs []string, method domain.PurchaseMethod) ([]*Result, error) {
	ids := s.scenarioIDs(scenarioIDs)
	reqs := make([]Request, len(ids))
	for i, id := range ids {
		reqs[i] = Request{VehicleID: vehicleID, ScenarioID: id, Method: method}
	}
	return s.CompareBatch(ctx, reqs)
}

// Breakeven reports the BEV minus diesel difference per scenario; no ids means all
func (s *Service) Breakeven(ctx context.Context, bevID, dieselID string, scenarioIDs []string, method domain.PurchaseMethod) ([]BreakevenPoint, error) {
	ids := s.scenarioIDs(scenarioIDs)
	points := make([]BreakevenPoint, 0, len(ids))
	for _, id := range ids {
		bev, err := s.CalculateTCO(ctx, Request{VehicleID: bevID, ScenarioID: id, Method: method})
		if err != nil {
			return nil, err
		}
		diesel, err := s.CalculateTCO(ctx, Request{VehicleID: dieselID, ScenarioID: id, Method: method})
		if err != nil {
			return nil, err
		}
		diff := bev.TotalCost - diesel.TotalCost
		points = append(points, BreakevenPoint{
			ScenarioID:  id,
			BEVTotal:    bev.TotalCost,
			DieselTotal: diesel.TotalCost,
			Difference:  diff,
			BEVCheaper:  diff < 0,
		})
	}
	return points, nil
}

// Payback compares undiscounted cumulative spending of a vehicle pair
func (s *Service) Payback(ctx context.Context, vehicleID, scenarioID string, method domain.PurchaseMethod) (*Payback, error) {
	bevID, dieselID, err := s.orderPair(vehicleID)
	if err != nil {
		return nil, err
	}
	bevIn, err := s.Inputs(ctx, bevID, scenarioID, method)
	if err != nil {
		return nil, err
	}
	dieselIn, err := s.Inputs(ctx, dieselID, scenarioID, method)
	if err != nil {
		return nil, err
	}
	bevRows, err := s.aggregator.AnnualCashflows(bevIn, costs.NoOverrides)
	if err != nil {
		return nil, err
	}
	dieselRows, err := s.aggregator.AnnualCashflows(dieselIn, costs.NoOverrides)
	if err != nil {
		return nil, err
	}
	p, err := ComputePayback(bevRows, dieselRows, s.cfg.Constants.DiscountRate)
	if err != nil {
		return nil, err
	}
	p.BEVID, p.DieselID, p.ScenarioID = bevID, dieselID, bevIn.Scenario().ID
	return p, nil
}

// PurchaseTiming computes a vehicle bought 0..years-1 years into the scenario.
// Shifted scenarios are not cached.
func (s *Service) PurchaseTiming(ctx context.Context, vehicleID, scenarioID string, method domain.PurchaseMethod, years int) ([]TimingPoint, error) {
	if years < 1 {
		return nil, domain.NewDomainError("purchase_timing", "years must be at least 1 (got %d)", years)
	}
	key := s.key(vehicleID, scenarioID, method)
	scenario, err := s.scenarios.Get(key.ScenarioID)
	if err != nil {
		return nil, err
	}
	points := make([]TimingPoint, 0, years)
	for offset := 0; offset < years; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in, err := s.buildWithScenario(key.VehicleID, scenario.Shifted(offset), key.Method)
		if err != nil {
			return nil, err
		}
		r, err := s.aggregator.Calculate(in, costs.NoOverrides)
		if err != nil {
			return nil, err
		}
		points = append(points, TimingPoint{Offset: offset, Result: r})
	}
	return points, nil
}

// Policies returns the active policy definitions
func (s *Service) Policies() policy.Definitions {
	s.policyMu.RLock()
	defer s.policyMu.RUnlock()
	return s.policies
}

// SetPolicies validates and activates new definitions, dropping cached aggregates
func (s *Service) SetPolicies(defs policy.Definitions) error {
	if err := defs.Validate(); err != nil {
		return err
	}
	s.policyMu.Lock()
	s.policies = defs
	s.policyMu.Unlock()

	s.cache.Invalidate()
	s.log.Info().Msg("Policy definitions updated")
	return nil
}

// ReloadCatalog refreshes the vehicle catalog when it supports it and drops
// cached aggregates if anything changed
func (s *Service) ReloadCatalog(ctx context.Context) (bool, error) {
	r, ok := s.vehicles.(catalogReloader)
	if !ok {
		return false, nil
	}
	changed, err := r.Reload(ctx)
	if err != nil {
		return false, err
	}
	if changed {
		s.cache.Invalidate()
	}
	return changed, nil
}

// InvalidateCache drops every cached aggregate
func (s *Service) InvalidateCache() {
	s.cache.Invalidate()
}

// CacheStats returns cache counters
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// Vehicles returns the catalog
func (s *Service) Vehicles() domain.VehicleLookup {
	return s.vehicles
}

// Scenarios returns the scenario registry
func (s *Service) Scenarios() *scenarios.Registry {
	return s.scenarios
}

// Defaults returns the configured request defaults
func (s *Service) Defaults() (string, domain.PurchaseMethod) {
	return s.cfg.DefaultScenario, s.cfg.DefaultMethod
}
