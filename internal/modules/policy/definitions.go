// Package policy resolves government incentive definitions into plain numeric policy sets.
package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aristath/fleetcost/internal/domain"
)

// FixedRebate is a fixed dollar rebate on electric vehicle purchases
type FixedRebate struct {
	Enabled bool    `json:"enabled"`
	Amount  float64 `json:"amount"`
}

// PercentageRebate is a rebate proportional to the purchase price, optionally capped
type PercentageRebate struct {
	Enabled    bool    `json:"enabled"`
	Percentage float64 `json:"percentage"`
	MaxAmount  float64 `json:"max_amount,omitempty"` // 0 means uncapped
}

// StampDutyExemption waives part of the stamp duty on electric vehicles
type StampDutyExemption struct {
	Enabled    bool    `json:"enabled"`
	Percentage float64 `json:"percentage"`
}

// CarbonPrice charges diesel emissions at a floor price per tonne
type CarbonPrice struct {
	Enabled       bool    `json:"enabled"`
	PricePerTonne float64 `json:"price_per_tonne"`
}

// GreenLoan lowers the financing rate for electric vehicles
type GreenLoan struct {
	Enabled       bool    `json:"enabled"`
	RateReduction float64 `json:"rate_reduction"`
}

// Definitions is the configurable incentive registry
type Definitions struct {
	FixedRebate        FixedRebate        `json:"fixed_rebate"`
	PercentageRebate   PercentageRebate   `json:"percentage_rebate"`
	StampDutyExemption StampDutyExemption `json:"stamp_duty_exemption"`
	CarbonPrice        CarbonPrice        `json:"carbon_price"`
	GreenLoan          GreenLoan          `json:"green_loan"`
}

// Validate checks parameter ranges of every definition, enabled or not
func (d Definitions) Validate() error {
	switch {
	case d.FixedRebate.Amount < 0:
		return domain.NewConfigurationError("fixed_rebate.amount", "cannot be negative")
	case d.PercentageRebate.Percentage < 0 || d.PercentageRebate.Percentage > 1:
		return domain.NewConfigurationError("percentage_rebate.percentage", "must be within [0, 1]")
	case d.PercentageRebate.MaxAmount < 0:
		return domain.NewConfigurationError("percentage_rebate.max_amount", "cannot be negative")
	case d.StampDutyExemption.Percentage < 0 || d.StampDutyExemption.Percentage > 1:
		return domain.NewConfigurationError("stamp_duty_exemption.percentage", "must be within [0, 1]")
	case d.CarbonPrice.PricePerTonne < 0:
		return domain.NewConfigurationError("carbon_price.price_per_tonne", "cannot be negative")
	case d.GreenLoan.RateReduction < 0 || d.GreenLoan.RateReduction > 0.5:
		return domain.NewConfigurationError("green_loan.rate_reduction", "must be within [0, 0.5]")
	}
	return nil
}

// Preset names
const (
	PresetNone       = "none"
	PresetStandard   = "standard"
	PresetAggressive = "aggressive"
)

var presets = map[string]func() Definitions{
	PresetNone: func() Definitions { return Definitions{} },
	PresetStandard: func() Definitions {
		return Definitions{
			FixedRebate:        FixedRebate{Enabled: true, Amount: 20000},
			StampDutyExemption: StampDutyExemption{Enabled: true, Percentage: 1.0},
			GreenLoan:          GreenLoan{Enabled: true, RateReduction: 0.02},
		}
	},
	PresetAggressive: func() Definitions {
		return Definitions{
			PercentageRebate:   PercentageRebate{Enabled: true, Percentage: 0.15, MaxAmount: 50000},
			StampDutyExemption: StampDutyExemption{Enabled: true, Percentage: 1.0},
			GreenLoan:          GreenLoan{Enabled: true, RateReduction: 0.03},
			CarbonPrice:        CarbonPrice{Enabled: true, PricePerTonne: 50},
		}
	},
}

// Preset returns a named set of definitions
func Preset(name string) (Definitions, error) {
	build, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Definitions{}, fmt.Errorf("policy preset %q: %w", name, domain.ErrNotFound)
	}
	return build(), nil
}

// PresetNames lists the available presets in order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
