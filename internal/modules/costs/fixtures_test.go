package costs

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

var (
	testBEV = domain.VehicleSpec{
		ID:                 "BEV001",
		Name:               "Light Rigid BEV",
		Drivetrain:         domain.DrivetrainBEV,
		WeightClass:        domain.WeightClassLightRigid,
		ComparisonPairID:   "DSL001",
		Payload:            4.0,
		PurchasePrice:      176500,
		RangeKm:            200,
		BatteryCapacityKWh: 100,
		KWhPerKm:           0.48,
		AnnualKm:           23000,
		AnnualRegistration: 653,
	}
	testDiesel = domain.VehicleSpec{
		ID:                 "DSL001",
		Name:               "Light Rigid Diesel",
		Drivetrain:         domain.DrivetrainDiesel,
		WeightClass:        domain.WeightClassLightRigid,
		ComparisonPairID:   "BEV001",
		Payload:            4.5,
		PurchasePrice:      80000,
		RangeKm:            800,
		LitresPerKm:        0.28,
		AnnualKm:           23000,
		AnnualRegistration: 653,
	}
)

func scenario(t *testing.T, id string) *scenarios.Scenario {
	t.Helper()
	s, err := scenarios.NewBuiltinRegistry().Get(id)
	require.NoError(t, err)
	return s
}

// flat has no trajectories, so every multiplier is neutral
func flat() *scenarios.Scenario {
	return &scenarios.Scenario{ID: "flat"}
}
