package costs

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/internal/modules/scenarios"
)

// Category names one cost stream of the breakdown
type Category string

const (
	CategoryFuel           Category = "fuel"
	CategoryMaintenance    Category = "maintenance"
	CategoryInsurance      Category = "insurance"
	CategoryRegistration   Category = "registration"
	CategoryBattery        Category = "battery"
	CategoryCarbon         Category = "carbon"
	CategoryPayloadPenalty Category = "payload_penalty"
	CategoryChargingLabour Category = "charging_labour"
)

// Calculator produces the undiscounted amount of one category for a single year.
// Implementations are pure: the same year and overrides always give the same amount.
type Calculator interface {
	Category() Category
	AnnualAmount(year int, o Overrides) (float64, error)
}

// base carries what every calculator needs
type base struct {
	category Category
	vehicle  domain.VehicleSpec
	scenario *scenarios.Scenario
	horizon  int
}

func newBase(category Category, v domain.VehicleSpec, s *scenarios.Scenario, c Constants) (base, error) {
	if s == nil {
		return base{}, domain.NewConfigurationError(string(category), "scenario is required")
	}
	if c.Horizon < 1 {
		return base{}, domain.NewConfigurationError("horizon", "must be at least one year")
	}
	return base{category: category, vehicle: v, scenario: s, horizon: c.Horizon}, nil
}

// Category implements Calculator
func (b base) Category() Category {
	return b.category
}

// checkYear validates a 1-indexed projection year
func (b base) checkYear(year int) error {
	if year < 1 || year > b.horizon {
		return domain.NewDomainError(string(b.category), "year %d outside projection range 1..%d", year, b.horizon)
	}
	return nil
}
