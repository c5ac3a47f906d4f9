package testing

import "github.com/aristath/fleetcost/internal/domain"

// NewVehicleFixtures returns a light rigid electric/diesel pair and an
// unpaired articulated diesel for use in tests
func NewVehicleFixtures() []domain.VehicleSpec {
	return []domain.VehicleSpec{
		{
			ID:                 "TBEV1",
			Name:               "Test Electric",
			Drivetrain:         domain.DrivetrainBEV,
			WeightClass:        domain.WeightClassLightRigid,
			ComparisonPairID:   "TDSL1",
			Payload:            4,
			PurchasePrice:      180000,
			RangeKm:            220,
			BatteryCapacityKWh: 100,
			KWhPerKm:           0.5,
			AnnualKm:           23000,
			AnnualRegistration: 653,
		},
		{
			ID:                 "TDSL1",
			Name:               "Test Diesel",
			Drivetrain:         domain.DrivetrainDiesel,
			WeightClass:        domain.WeightClassLightRigid,
			ComparisonPairID:   "TBEV1",
			Payload:            4.5,
			PurchasePrice:      80000,
			RangeKm:            600,
			LitresPerKm:        0.28,
			AnnualKm:           23000,
			AnnualRegistration: 653,
		},
		{
			ID:                 "TDSL2",
			Name:               "Test Prime Mover",
			Drivetrain:         domain.DrivetrainDiesel,
			WeightClass:        domain.WeightClassArticulated,
			Payload:            50,
			PurchasePrice:      300000,
			RangeKm:            1500,
			LitresPerKm:        0.35,
			AnnualKm:           84000,
			AnnualRegistration: 6872,
		},
	}
}
