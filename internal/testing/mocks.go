package testing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aristath/fleetcost/internal/domain"
)

// MockVehicleLookup is a mock implementation of domain.VehicleLookup
type MockVehicleLookup struct {
	mu       sync.RWMutex
	vehicles map[string]domain.VehicleSpec
	err      error
	gets     int
}

// NewMockVehicleLookup creates a new mock vehicle lookup
func NewMockVehicleLookup(vehicles ...domain.VehicleSpec) *MockVehicleLookup {
	m := &MockVehicleLookup{vehicles: make(map[string]domain.VehicleSpec)}
	m.SetVehicles(vehicles...)
	return m
}

// SetVehicles adds or replaces vehicles
func (m *MockVehicleLookup) SetVehicles(vehicles ...domain.VehicleSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vehicles {
		m.vehicles[v.ID] = v
	}
}

// SetError makes every Get fail with err
func (m *MockVehicleLookup) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Gets returns how many times Get was called
func (m *MockVehicleLookup) Gets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets
}

// Get implements domain.VehicleLookup
func (m *MockVehicleLookup) Get(id string) (domain.VehicleSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.err != nil {
		return domain.VehicleSpec{}, m.err
	}
	v, ok := m.vehicles[id]
	if !ok {
		return domain.VehicleSpec{}, fmt.Errorf("vehicle %s: %w", id, domain.ErrNotFound)
	}
	return v, nil
}

// List implements domain.VehicleLookup
func (m *MockVehicleLookup) List() []domain.VehicleSpec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.VehicleSpec, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
