package policy

import "github.com/aristath/fleetcost/internal/domain"

// Set is the resolved, immutable view of active policies for one vehicle.
// The cost engine only reads these plain fields.
type Set struct {
	Rebate              float64 `json:"rebate"`
	StampDutyMultiplier float64 `json:"stamp_duty_multiplier"`
	RateAdjustment      float64 `json:"rate_adjustment"`
	CarbonPricing       bool    `json:"carbon_pricing"`
	CarbonPriceFloor    float64 `json:"carbon_price_floor"`
}

// Neutral returns a set with no incentives and no carbon pricing
func Neutral() Set {
	return Set{StampDutyMultiplier: 1.0}
}

// Resolve computes the policy set for a vehicle.
// Purchase incentives apply to electric vehicles only and carbon pricing to diesel only.
// A single rebate mechanism is effective: the percentage rebate when enabled, else the fixed rebate.
// Exemption and green loan stack independently.
func Resolve(d Definitions, v domain.VehicleSpec) (Set, error) {
	if err := d.Validate(); err != nil {
		return Set{}, err
	}

	set := Neutral()

	if v.IsBEV() {
		set.Rebate = rebate(d, v.PurchasePrice)
		if d.StampDutyExemption.Enabled {
			set.StampDutyMultiplier = 1 - d.StampDutyExemption.Percentage
		}
		if d.GreenLoan.Enabled {
			set.RateAdjustment = d.GreenLoan.RateReduction
		}
		return set, nil
	}

	if d.CarbonPrice.Enabled {
		set.CarbonPricing = true
		set.CarbonPriceFloor = d.CarbonPrice.PricePerTonne
	}
	return set, nil
}

func rebate(d Definitions, price float64) float64 {
	switch {
	case d.PercentageRebate.Enabled:
		amount := price * d.PercentageRebate.Percentage
		if d.PercentageRebate.MaxAmount > 0 && amount > d.PercentageRebate.MaxAmount {
			amount = d.PercentageRebate.MaxAmount
		}
		return amount
	case d.FixedRebate.Enabled:
		if d.FixedRebate.Amount > price {
			return price
		}
		return d.FixedRebate.Amount
	}
	return 0
}
