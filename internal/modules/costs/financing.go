package costs

import (
	"math"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/aristath/fleetcost/pkg/formulas"
)

// Financing describes the purchase cash flows of a vehicle
type Financing struct {
	Method         domain.PurchaseMethod `json:"method"`
	InitialCost    float64               `json:"initial_cost"`
	DownPayment    float64               `json:"down_payment"`
	LoanAmount     float64               `json:"loan_amount"`
	Rate           float64               `json:"rate"`
	PeriodsPerYear int                   `json:"periods_per_year"`
	Schedule       *formulas.Schedule    `json:"schedule,omitempty"`
}

// NewFinancing builds the purchase plan. Outright purchases pay the full initial
// cost at time zero; financed purchases pay a deposit and amortize the rest.
// rateAdjustment lowers the loan rate and the result is floored at zero.
func NewFinancing(method domain.PurchaseMethod, initialCost, rateAdjustment float64, c Constants) (*Financing, error) {
	if initialCost < 0 || math.IsNaN(initialCost) {
		return nil, domain.NewConfigurationError("initial_cost", "cannot be negative")
	}
	f := &Financing{Method: method, InitialCost: initialCost, PeriodsPerYear: c.PaymentsPerYear}

	switch method {
	case domain.PurchaseOutright:
		f.DownPayment = initialCost
		return f, nil
	case domain.PurchaseFinanced:
	default:
		return nil, domain.NewConfigurationError("purchase_method", "unknown purchase method %q", method)
	}

	if c.FinancingTermYears < 1 {
		return nil, domain.NewConfigurationError("financing_term_years", "loan term must be positive (got %d)", c.FinancingTermYears)
	}
	if c.PaymentsPerYear < 1 {
		return nil, domain.NewConfigurationError("payments_per_year", "must be at least 1")
	}

	f.DownPayment = initialCost * c.DownPaymentRate
	f.LoanAmount = initialCost - f.DownPayment
	f.Rate = math.Max(0, c.InterestRate-rateAdjustment)
	if f.LoanAmount <= 0 {
		f.LoanAmount = 0
		return f, nil
	}

	schedule, err := formulas.Amortize(f.LoanAmount, f.Rate, c.FinancingTermYears*c.PaymentsPerYear, c.PaymentsPerYear)
	if err != nil {
		return nil, err
	}
	f.Schedule = &schedule
	return f, nil
}

// Payment returns the periodic loan payment, zero without a loan
func (f *Financing) Payment() float64 {
	if f.Schedule == nil {
		return 0
	}
	return f.Schedule.Payment
}

// TotalInterest returns the undiscounted interest paid over the loan
func (f *Financing) TotalInterest() float64 {
	if f.Schedule == nil {
		return 0
	}
	return f.Schedule.TotalInterest
}

// PresentValue discounts the purchase cash flows to time zero
func (f *Financing) PresentValue(discountRate float64) (float64, error) {
	if f.Schedule == nil {
		return f.DownPayment, nil
	}
	pv, err := formulas.NPVOfPayments(f.Schedule.Payment, f.Schedule.Periods, f.PeriodsPerYear, discountRate)
	if err != nil {
		return 0, err
	}
	return f.DownPayment + pv, nil
}

// CashOutlay returns the undiscounted purchase payments falling in year, year 0 being the deposit
func (f *Financing) CashOutlay(year int) float64 {
	if year == 0 {
		return f.DownPayment
	}
	if f.Schedule == nil || year < 0 {
		return 0
	}
	total := 0.0
	first := (year-1)*f.PeriodsPerYear + 1
	for p := first; p < first+f.PeriodsPerYear && p <= f.Schedule.Periods; p++ {
		total += f.Schedule.Payment
	}
	return total
}
