package tco

import (
	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/pkg/formulas"
)

// PairComparison is an electric vehicle against its diesel partner under one scenario
type PairComparison struct {
	ScenarioID string  `json:"scenario_id"`
	BEV        *Result `json:"bev"`
	Diesel     *Result `json:"diesel"`
	// Difference is BEV total minus diesel total; negative means the BEV is cheaper
	Difference        float64           `json:"difference"`
	DifferencePct     float64           `json:"difference_pct"`
	CheaperDrivetrain domain.Drivetrain `json:"cheaper_drivetrain"`
	EmissionsSaved    float64           `json:"emissions_saved_tonnes"`
}

func newPairComparison(bev, diesel *Result) *PairComparison {
	c := &PairComparison{
		ScenarioID:        bev.ScenarioID,
		BEV:               bev,
		Diesel:            diesel,
		Difference:        bev.TotalCost - diesel.TotalCost,
		CheaperDrivetrain: domain.DrivetrainDiesel,
		EmissionsSaved:    diesel.EmissionsTonnes - bev.EmissionsTonnes,
	}
	if diesel.TotalCost != 0 {
		c.DifferencePct = c.Difference / diesel.TotalCost * 100
	}
	if c.Difference < 0 {
		c.CheaperDrivetrain = domain.DrivetrainBEV
	}
	return c
}

// BreakevenPoint is the BEV minus diesel difference under one scenario
type BreakevenPoint struct {
	ScenarioID  string  `json:"scenario_id"`
	BEVTotal    float64 `json:"bev_total"`
	DieselTotal float64 `json:"diesel_total"`
	Difference  float64 `json:"difference"`
	BEVCheaper  bool    `json:"bev_cheaper"`
}

// TimingPoint is the result of buying offset years after the scenario start
type TimingPoint struct {
	Offset int     `json:"offset"`
	Result *Result `json:"result"`
}

// Payback tracks undiscounted cumulative spending of an electric vehicle against its diesel partner
type Payback struct {
	BEVID      string `json:"bev_id"`
	DieselID   string `json:"diesel_id"`
	ScenarioID string `json:"scenario_id"`

	// Achieved is false when the BEV never catches up within the horizon
	Achieved bool `json:"achieved"`
	// PaybackYear is the first year the BEV cumulative is at or below the diesel cumulative
	PaybackYear int `json:"payback_year"`
	// PaybackYears interpolates linearly within the payback year
	PaybackYears float64 `json:"payback_years"`

	CumulativeBEV    []float64 `json:"cumulative_bev"`
	CumulativeDiesel []float64 `json:"cumulative_diesel"`
	AnnualSavings    []float64 `json:"annual_savings"`
	TotalSavings     float64   `json:"total_savings"`
	SavingsNPV       float64   `json:"savings_npv"`
}

// ComputePayback compares two cash flow tables of equal length. Index 0 is the purchase year.
// SavingsNPV discounts the yearly savings of years 1..n and excludes the purchase year.
func ComputePayback(bev, diesel []CashflowRow, rate float64) (*Payback, error) {
	if len(bev) != len(diesel) || len(bev) == 0 {
		return nil, domain.NewDomainError("payback", "cash flow tables differ in length (%d vs %d)", len(bev), len(diesel))
	}

	p := &Payback{
		CumulativeBEV:    make([]float64, len(bev)),
		CumulativeDiesel: make([]float64, len(bev)),
		AnnualSavings:    make([]float64, 0, len(bev)-1),
	}
	prevDiff := 0.0
	for i := range bev {
		p.CumulativeBEV[i] = bev[i].Cumulative
		p.CumulativeDiesel[i] = diesel[i].Cumulative
		if i > 0 {
			p.AnnualSavings = append(p.AnnualSavings, diesel[i].Total-bev[i].Total)
		}

		diff := bev[i].Cumulative - diesel[i].Cumulative
		if !p.Achieved && diff <= 0 {
			p.Achieved = true
			p.PaybackYear = i
			p.PaybackYears = float64(i)
			if i > 0 && prevDiff > 0 {
				p.PaybackYears = float64(i-1) + prevDiff/(prevDiff-diff)
			}
		}
		prevDiff = diff
	}

	last := len(bev) - 1
	p.TotalSavings = diesel[last].Cumulative - bev[last].Cumulative

	npv, err := formulas.NPVOfAnnualCashflows(p.AnnualSavings, rate)
	if err != nil {
		return nil, err
	}
	p.SavingsNPV = npv
	return p, nil
}
