// Package catalog provides the vehicle catalog consulted by the cost engine.
package catalog

import "github.com/aristath/fleetcost/internal/domain"

func bev(id, pair string, class domain.WeightClass, name string, payload, price, rangeKm, capacity, kwhPerKm, registration, annualKm float64) domain.VehicleSpec {
	return domain.VehicleSpec{
		ID: id, ComparisonPairID: pair, WeightClass: class, Drivetrain: domain.DrivetrainBEV, Name: name,
		Payload: payload, PurchasePrice: price, RangeKm: rangeKm, BatteryCapacityKWh: capacity,
		KWhPerKm: kwhPerKm, AnnualRegistration: registration, AnnualKm: annualKm,
	}
}

func diesel(id, pair string, class domain.WeightClass, name string, payload, price, rangeKm, litresPerKm, registration, annualKm float64) domain.VehicleSpec {
	return domain.VehicleSpec{
		ID: id, ComparisonPairID: pair, WeightClass: class, Drivetrain: domain.DrivetrainDiesel, Name: name,
		Payload: payload, PurchasePrice: price, RangeKm: rangeKm,
		LitresPerKm: litresPerKm, AnnualRegistration: registration, AnnualKm: annualKm,
	}
}

// Builtin returns the reference catalog of paired electric and diesel trucks
func Builtin() []domain.VehicleSpec {
	light, medium, artic := domain.WeightClassLightRigid, domain.WeightClassMediumRigid, domain.WeightClassArticulated

	return []domain.VehicleSpec{
		bev("BEV001", "DSL001", light, "Jac N75", 4.0, 176500, 220, 100, 0.48, 653, 23000),
		bev("BEV002", "DSL002", light, "Hyundai Mighty Electric", 4.0, 150000, 200, 97, 0.48, 653, 23000),
		bev("BEV003", "DSL003", light, "Jac N90", 5.0, 150000, 180, 107, 0.61, 653, 23000),
		bev("BEV004", "DSL004", medium, "Volvo FL", 10.5, 200000, 300, 264, 1.09, 653, 23000),
		bev("BEV005", "DSL005", medium, "MB eActros 300", 22.0, 400000, 300, 336, 1.09, 653, 23000),
		bev("BEV006", "DSL006", artic, "MB eActros 600", 42.0, 600000, 500, 621, 1.2, 6872, 84000),
		bev("BEV007", "DSL007", artic, "Volvo FH", 42.0, 450000, 300, 540, 1.2, 6872, 84000),
		bev("BEV008", "DSL008", artic, "Scania 45R", 42.0, 320000, 390, 624, 1.2, 6872, 84000),

		diesel("DSL001", "BEV001", light, "Hino 300", 4.5, 80000, 600, 0.28, 653, 23000),
		diesel("DSL002", "BEV002", light, "Hyundai Mighty", 4.0, 75000, 600, 0.28, 653, 23000),
		diesel("DSL003", "BEV003", light, "Hino 500", 6.0, 130000, 600, 0.28, 653, 23000),
		diesel("DSL004", "BEV004", medium, "Volvo FE", 12.0, 220000, 600, 0.32, 653, 23000),
		diesel("DSL005", "BEV005", medium, "MB Actros", 25.0, 270000, 1400, 0.32, 653, 23000),
		diesel("DSL006", "BEV006", artic, "MB Actros", 50.0, 270000, 1400, 0.35, 6872, 84000),
		diesel("DSL007", "BEV007", artic, "Volvo FH", 50.0, 280000, 2000, 0.35, 6872, 84000),
		diesel("DSL008", "BEV008", artic, "Scania R560", 50.0, 300000, 1500, 0.35, 6872, 84000),
	}
}
