package catalog

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/aristath/fleetcost/internal/domain"
)

// Source supplies the full vehicle list
type Source interface {
	List(ctx context.Context) ([]domain.VehicleSpec, error)
}

// StaticSource serves a fixed vehicle list
type StaticSource []domain.VehicleSpec

// List implements Source
func (s StaticSource) List(context.Context) ([]domain.VehicleSpec, error) {
	out := make([]domain.VehicleSpec, len(s))
	copy(out, s)
	return out, nil
}

type snapshot struct {
	vehicles []domain.VehicleSpec
	byID     map[string]domain.VehicleSpec
	version  uint64
}

// Catalog is an in-memory, read-mostly view over a Source.
// Reads never block; Reload swaps in a new snapshot atomically.
type Catalog struct {
	source  Source
	current atomic.Pointer[snapshot]
	mu      sync.Mutex // serializes reloads
	log     zerolog.Logger
}

// Pair is a vehicle and its declared comparison partner
type Pair struct {
	BEV    domain.VehicleSpec `json:"bev"`
	Diesel domain.VehicleSpec `json:"diesel"`
}

// New creates an empty catalog; call Reload to populate it
func New(source Source, log zerolog.Logger) *Catalog {
	c := &Catalog{
		source: source,
		log:    log.With().Str("component", "catalog").Logger(),
	}
	c.current.Store(&snapshot{byID: map[string]domain.VehicleSpec{}})
	return c
}

// Reload reads the source, validates it and swaps it in.
// It reports whether the vehicle set changed. A failed reload keeps the previous snapshot.
func (c *Catalog) Reload(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	vehicles, err := c.source.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load catalog: %w", err)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].ID < vehicles[j].ID })

	byID, err := index(vehicles)
	if err != nil {
		return false, err
	}

	old := c.current.Load()
	if slices.Equal(old.vehicles, vehicles) {
		return false, nil
	}

	c.current.Store(&snapshot{vehicles: vehicles, byID: byID, version: old.version + 1})
	c.log.Info().
		Int("vehicles", len(vehicles)).
		Uint64("version", old.version+1).
		Msg("Catalog loaded")
	return true, nil
}

func index(vehicles []domain.VehicleSpec) (map[string]domain.VehicleSpec, error) {
	byID := make(map[string]domain.VehicleSpec, len(vehicles))
	for _, v := range vehicles {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[v.ID]; dup {
			return nil, domain.NewConfigurationError("id", "duplicate vehicle id %s", v.ID)
		}
		byID[v.ID] = v
	}
	for _, v := range vehicles {
		if !v.HasPair() {
			continue
		}
		pair, ok := byID[v.ComparisonPairID]
		if !ok {
			return nil, domain.NewConfigurationError("comparison_pair_id", "vehicle %s: pair %s is not in the catalog", v.ID, v.ComparisonPairID)
		}
		if pair.Drivetrain == v.Drivetrain {
			return nil, domain.NewConfigurationError("comparison_pair_id", "vehicle %s: pair %s has the same drivetrain", v.ID, pair.ID)
		}
	}
	return byID, nil
}

// Version increments on every effective reload
func (c *Catalog) Version() uint64 {
	return c.current.Load().version
}

// Get implements domain.VehicleLookup
func (c *Catalog) Get(id string) (domain.VehicleSpec, error) {
	v, ok := c.current.Load().byID[id]
	if !ok {
		return domain.VehicleSpec{}, fmt.Errorf("vehicle %s: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// List implements domain.VehicleLookup
func (c *Catalog) List() []domain.VehicleSpec {
	vehicles := c.current.Load().vehicles
	out := make([]domain.VehicleSpec, len(vehicles))
	copy(out, vehicles)
	return out
}

// PairOf returns the comparison partner of a vehicle, nil when none is declared
func (c *Catalog) PairOf(v domain.VehicleSpec) (*domain.VehicleSpec, error) {
	if !v.HasPair() {
		return nil, nil
	}
	pair, err := c.Get(v.ComparisonPairID)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Pairs returns every electric vehicle with its diesel partner, ordered by electric id
func (c *Catalog) Pairs() []Pair {
	snap := c.current.Load()
	var pairs []Pair
	for _, v := range snap.vehicles {
		if !v.IsBEV() || !v.HasPair() {
			continue
		}
		if partner, ok := snap.byID[v.ComparisonPairID]; ok {
			pairs = append(pairs, Pair{BEV: v, Diesel: partner})
		}
	}
	return pairs
}
