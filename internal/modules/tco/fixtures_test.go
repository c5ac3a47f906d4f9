package tco

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/catalog"
	"github.com/aristath/fleetcost/internal/modules/costs"
	"github.com/aristath/fleetcost/internal/modules/policy"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// Reference figures for BEV001 / DSL001 under the baseline scenario with no
// policies, residual treatment and default constants.
const (
	refBEVFinanced    = 338371.61
	refDieselFinanced = 340062.01
	refBEVOutright    = 334411.98
	refDieselOutright = 338267.28
	refTolerance      = 0.0001 // 0.01%
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New(catalog.StaticSource(catalog.Builtin()), zerolog.Nop())
	_, err := c.Reload(context.Background())
	require.NoError(t, err)
	return c
}

func vehicle(t *testing.T, id string) domain.VehicleSpec {
	t.Helper()
	v, err := testCatalog(t).Get(id)
	require.NoError(t, err)
	return v
}

func baseline(t *testing.T) *scenarios.Scenario {
	t.Helper()
	s, err := scenarios.NewBuiltinRegistry().Get(scenarios.Baseline)
	require.NoError(t, err)
	return s
}

func buildInputs(t *testing.T, vehicleID string, s *scenarios.Scenario, method domain.PurchaseMethod, defs policy.Definitions) *Inputs {
	t.Helper()
	cat := testCatalog(t)
	v, err := cat.Get(vehicleID)
	require.NoError(t, err)
	pair, err := cat.PairOf(v)
	require.NoError(t, err)
	set, err := policy.Resolve(defs, v)
	require.NoError(t, err)

	in, err := NewInputs(InputParams{
		Vehicle:   v,
		Pair:      pair,
		Scenario:  s,
		Method:    method,
		Policy:    set,
		Constants: costs.DefaultConstants(),
		Log:       zerolog.Nop(),
	})
	require.NoError(t, err)
	return in
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(
		testCatalog(t),
		scenarios.NewBuiltinRegistry(),
		NewAggregator(zerolog.Nop()),
		ServiceConfig{Constants: costs.DefaultConstants()},
		zerolog.Nop(),
	)
	require.NoError(t, err)
	return svc
}
