package sensitivity

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/catalog"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
	"github.com/aristath/fleetcost/internal/modules/tco"
)

func setup(t *testing.T) (*Engine, *tco.Service) {
	t.Helper()
	cat := catalog.New(catalog.StaticSource(catalog.Builtin()), zerolog.Nop())
	_, err := cat.Reload(context.Background())
	require.NoError(t, err)

	aggregator := tco.NewAggregator(zerolog.Nop())
	svc, err := tco.NewService(cat, scenarios.NewBuiltinRegistry(), aggregator,
		tco.ServiceConfig{Constants: costs.DefaultConstants()}, zerolog.Nop())
	require.NoError(t, err)
	return NewEngine(aggregator, zerolog.Nop()), svc
}

func inputs(t *testing.T, svc *tco.Service, id string) *tco.Inputs {
	t.Helper()
	in, err := svc.Inputs(context.Background(), id, "", "")
	require.NoError(t, err)
	return in
}

func baseTotal(t *testing.T, svc *tco.Service, id string) float64 {
	t.Helper()
	r, err := svc.CalculateTCO(context.Background(), tco.Request{VehicleID: id})
	require.NoError(t, err)
	return r.TotalCost
}

func TestEngine_Run_ZeroSwingAtBase(t *testing.T) {
	engine, svc := setup(t)
	in := inputs(t, svc, "DSL001")

	impacts, err := engine.Run(context.Background(), in, []Sweep{
		{Name: "fuel", Key: costs.FuelPrice, Low: 1, High: 1},
		{Name: "km", Key: costs.AnnualKms, Low: in.Vehicle().AnnualKm, High: in.Vehicle().AnnualKm},
	})
	require.NoError(t, err)
	require.Len(t, impacts, 2)

	base := baseTotal(t, svc, "DSL001")
	for _, impact := range impacts {
		assert.Equal(t, 0.0, impact.Swing, impact.Name)
		assert.Equal(t, base, impact.LowTotal)
		assert.Equal(t, 0.0, impact.LowChangePct)
		assert.Equal(t, 0.0, impact.HighChangePct)
	}
	assert.Equal(t, "fuel", impacts[0].Name, "ties are ordered by name")
}

func TestEngine_Run_DefaultSweeps(t *testing.T) {
	engine, svc := setup(t)

	tests := []struct {
		id    string
		count int
		price costs.Key
	}{
		{"BEV001", 6, costs.ElectricityPrice},
		{"DSL001", 4, costs.FuelPrice},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			in := inputs(t, svc, tt.id)
			sweeps := DefaultSweeps(in.Vehicle())
			require.Len(t, sweeps, tt.count)
			assert.Equal(t, tt.price, sweeps[0].Key)

			impacts, err := engine.Run(context.Background(), in, sweeps)
			require.NoError(t, err)
			require.Len(t, impacts, tt.count)

			for i := 1; i < len(impacts); i++ {
				assert.GreaterOrEqual(t, impacts[i-1].Swing, impacts[i].Swing)
			}
			for _, impact := range impacts {
				switch impact.Key {
				case costs.FuelPrice, costs.ElectricityPrice, costs.MaintenanceCost, costs.AnnualKms:
					assert.Greater(t, impact.HighTotal, impact.LowTotal, impact.Name)
				case costs.ResidualValue:
					assert.Less(t, impact.HighTotal, impact.LowTotal, "a higher resale value lowers cost")
				}
				assert.InDelta(t, impact.Swing, abs(impact.HighTotal-impact.LowTotal), 1e-9)
			}
		})
	}
}

func TestEngine_Run_ExplicitBase(t *testing.T) {
	engine, svc := setup(t)
	in := inputs(t, svc, "DSL002")
	one, shifted := 1.0, 1.1

	impacts, err := engine.Run(context.Background(), in, []Sweep{
		{Name: "at one", Key: costs.FuelPrice, Low: 0.9, High: 1.1, Base: &one},
		{Name: "shifted", Key: costs.FuelPrice, Low: 0.9, High: 1.1, Base: &shifted},
	})
	require.NoError(t, err)

	byName := map[string]Impact{}
	for _, impact := range impacts {
		byName[impact.Name] = impact
	}
	assert.Equal(t, baseTotal(t, svc, "DSL002"), byName["at one"].BaseTotal)
	assert.Equal(t, byName["shifted"].HighTotal, byName["shifted"].BaseTotal)
	assert.Equal(t, 0.0, byName["shifted"].HighChangePct)
}

func TestEngine_Run_Errors(t *testing.T) {
	engine, svc := setup(t)
	in := inputs(t, svc, "BEV001")
	ctx := context.Background()

	_, err := engine.Run(ctx, in, []Sweep{{Key: costs.Key(42), Low: 0.9, High: 1.1}})
	assert.True(t, domain.IsConfigurationError(err))

	_, err = engine.Run(ctx, in, []Sweep{{Name: "negative", Key: costs.FuelPrice, Low: -1, High: 1}})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err))
	assert.Contains(t, err.Error(), "sweep negative")

	_, err = engine.Run(ctx, nil, nil)
	assert.True(t, domain.IsConfigurationError(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = engine.Run(cancelled, in, DefaultSweeps(in.Vehicle()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Sweep(t *testing.T) {
	engine, svc := setup(t)
	in := inputs(t, svc, "DSL004")

	points, err := engine.Sweep(context.Background(), in, costs.FuelPrice, []float64{0.8, 1, 1.2, 1.5})
	require.NoError(t, err)
	require.Len(t, points, 4)
	assert.Equal(t, 0.0, points[1].ChangePct)
	assert.Equal(t, baseTotal(t, svc, "DSL004"), points[1].Total)
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].Total, points[i-1].Total)
	}
	assert.Less(t, points[0].ChangePct, 0.0)

	_, err = engine.Sweep(context.Background(), in, costs.FuelPrice, nil)
	assert.True(t, domain.IsConfigurationError(err))
	_, err = engine.Sweep(context.Background(), in, costs.Key(-1), []float64{1})
	assert.True(t, domain.IsConfigurationError(err))
	_, err = engine.Sweep(context.Background(), in, costs.AnnualKms, []float64{0})
	assert.True(t, domain.IsDomainError(err))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
