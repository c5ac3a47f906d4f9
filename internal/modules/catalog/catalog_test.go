package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/domain"
)

type mutableSource struct {
	vehicles []domain.VehicleSpec
	err      error
}

func (m *mutableSource) List(context.Context) ([]domain.VehicleSpec, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.VehicleSpec, len(m.vehicles))
	copy(out, m.vehicles)
	return out, nil
}

func TestBuiltin_IsValidAndPaired(t *testing.T) {
	c := New(StaticSource(Builtin()), zerolog.Nop())
	changed, err := c.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, uint64(1), c.Version())

	assert.Len(t, c.List(), 16)
	pairs := c.Pairs()
	require.Len(t, pairs, 8)
	for _, p := range pairs {
		assert.Equal(t, domain.DrivetrainBEV, p.BEV.Drivetrain)
		assert.Equal(t, domain.DrivetrainDiesel, p.Diesel.Drivetrain)
		assert.Equal(t, p.BEV.WeightClass, p.Diesel.WeightClass)
	}
}

func TestCatalog_Get(t *testing.T) {
	c := New(StaticSource(Builtin()), zerolog.Nop())
	_, err := c.Reload(context.Background())
	require.NoError(t, err)

	v, err := c.Get("BEV001")
	require.NoError(t, err)
	assert.Equal(t, "Jac N75", v.Name)

	pair, err := c.PairOf(v)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "DSL001", pair.ID)

	_, err = c.Get("NOPE")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	v.ComparisonPairID = ""
	none, err := c.PairOf(v)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCatalog_Reload(t *testing.T) {
	src := &mutableSource{vehicles: Builtin()}
	c := New(src, zerolog.Nop())
	ctx := context.Background()

	changed, err := c.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed, "same content")
	assert.Equal(t, uint64(1), c.Version())

	src.vehicles[0].PurchasePrice = 170000
	changed, err = c.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, uint64(2), c.Version())

	src.err = errors.New("source down")
	_, err = c.Reload(ctx)
	assert.Error(t, err)
	v, err := c.Get("BEV001")
	require.NoError(t, err, "previous snapshot kept")
	assert.Equal(t, 170000.0, v.PurchasePrice)
}

func TestCatalog_ReloadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]domain.VehicleSpec) []domain.VehicleSpec
	}{
		{"missing pair", func(vs []domain.VehicleSpec) []domain.VehicleSpec { return vs[1:] }},
		{"same drivetrain pair", func(vs []domain.VehicleSpec) []domain.VehicleSpec {
			vs[0].ComparisonPairID = "BEV002"
			return vs
		}},
		{"duplicate id", func(vs []domain.VehicleSpec) []domain.VehicleSpec { return append(vs, vs[3]) }},
		{"invalid vehicle", func(vs []domain.VehicleSpec) []domain.VehicleSpec {
			vs[2].AnnualKm = 0
			return vs
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(StaticSource(tt.mutate(Builtin())), zerolog.Nop())
			_, err := c.Reload(context.Background())
			assert.True(t, domain.IsConfigurationError(err))
			assert.Empty(t, c.List())
		})
	}
}
