// Package formulas provides pure financial and statistical formulas.
package formulas

import (
	"math"

	"github.com/aristath/fleetcost/internal/domain"
)

// PresentValue discounts an amount received at the end of year back to time zero.
// Formula: amount / (1 + rate)^year
func PresentValue(amount, rate float64, year int) (float64, error) {
	if err := checkRate("present_value", rate); err != nil {
		return 0, err
	}
	return amount / math.Pow(1+rate, float64(year)), nil
}

// Discounter applies one externally supplied discount rate
type Discounter struct {
	Rate float64
}

// NewDiscounter validates the rate and returns a Discounter
func NewDiscounter(rate float64) (Discounter, error) {
	if err := checkRate("discounter", rate); err != nil {
		return Discounter{}, err
	}
	return Discounter{Rate: rate}, nil
}

// DiscountToPresent discounts amount from the end of year at the configured rate
func (d Discounter) DiscountToPresent(amount float64, year int) (float64, error) {
	return PresentValue(amount, d.Rate, year)
}

// NPVOfAnnualCashflows discounts a year-indexed sequence where amounts[0] falls at the end of year 1.
// Formula: Σ amounts[i-1] / (1 + rate)^i
func NPVOfAnnualCashflows(amounts []float64, rate float64) (float64, error) {
	if err := checkRate("npv_of_annual_cashflows", rate); err != nil {
		return 0, err
	}
	npv := 0.0
	factor := 1.0
	for _, amount := range amounts {
		factor *= 1 + rate
		npv += amount / factor
	}
	return npv, nil
}

// NPVOfPayments discounts a level sub-annual payment stream.
// Payment k (1-indexed) is discounted by (1 + annualRate)^(k / periodsPerYear),
// the per-period equivalent of the annual rate.
func NPVOfPayments(payment float64, count, periodsPerYear int, annualRate float64) (float64, error) {
	if err := checkRate("npv_of_payments", annualRate); err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, domain.NewDomainError("npv_of_payments", "payment count cannot be negative (got %d)", count)
	}
	if periodsPerYear < 1 {
		return 0, domain.NewDomainError("npv_of_payments", "periods per year must be at least 1 (got %d)", periodsPerYear)
	}

	npv := 0.0
	for k := 1; k <= count; k++ {
		npv += payment / math.Pow(1+annualRate, float64(k)/float64(periodsPerYear))
	}
	return npv, nil
}

// AnnuityPresentValue prices a level amount paid at the end of each of years 1..years.
// Formula: amount * (1 - (1 + rate)^-years) / rate, or amount * years when rate is zero.
func AnnuityPresentValue(amount, rate float64, years int) (float64, error) {
	if err := checkRate("annuity_present_value", rate); err != nil {
		return 0, err
	}
	if years <= 0 {
		return 0, nil
	}
	if rate == 0 {
		return amount * float64(years), nil
	}
	return amount * (1 - math.Pow(1+rate, -float64(years))) / rate, nil
}

// AmortizationRow is one period of a fixed-rate loan
type AmortizationRow struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// Schedule is a fixed-rate amortization schedule
type Schedule struct {
	Principal      float64           `json:"principal"`
	AnnualRate     float64           `json:"annual_rate"`
	Periods        int               `json:"periods"`
	PeriodsPerYear int               `json:"periods_per_year"`
	Payment        float64           `json:"payment"`
	TotalPaid      float64           `json:"total_paid"`
	TotalInterest  float64           `json:"total_interest"`
	Rows           []AmortizationRow `json:"rows"`
}

// Amortize builds the standard fixed-rate amortization schedule.
// Payment: P * i / (1 - (1 + i)^-n) with i = annualRate / periodsPerYear, or P / n when i is zero.
func Amortize(principal, annualRate float64, periods, periodsPerYear int) (Schedule, error) {
	if principal <= 0 {
		return Schedule{}, domain.NewDomainError("amortize", "principal must be positive (got %.2f)", principal)
	}
	if periods <= 0 {
		return Schedule{}, domain.NewDomainError("amortize", "term must be positive (got %d periods)", periods)
	}
	if periodsPerYear < 1 {
		return Schedule{}, domain.NewDomainError("amortize", "periods per year must be at least 1 (got %d)", periodsPerYear)
	}
	if annualRate < 0 {
		return Schedule{}, domain.NewDomainError("amortize", "interest rate cannot be negative (got %.4f)", annualRate)
	}

	i := annualRate / float64(periodsPerYear)
	n := float64(periods)
	payment := principal / n
	if i > 0 {
		payment = principal * i / (1 - math.Pow(1+i, -n))
	}

	s := Schedule{
		Principal:      principal,
		AnnualRate:     annualRate,
		Periods:        periods,
		PeriodsPerYear: periodsPerYear,
		Payment:        payment,
		Rows:           make([]AmortizationRow, 0, periods),
	}

	balance := principal
	for p := 1; p <= periods; p++ {
		interest := balance * i
		principalPart := payment - interest
		if p == periods {
			// absorb floating point drift in the final payment split
			principalPart = balance
		}
		balance -= principalPart
		s.Rows = append(s.Rows, AmortizationRow{
			Period:    p,
			Payment:   payment,
			Interest:  interest,
			Principal: principalPart,
			Balance:   balance,
		})
		s.TotalInterest += interest
	}
	s.TotalPaid = payment * n

	return s, nil
}

func checkRate(op string, rate float64) error {
	if math.IsNaN(rate) || rate <= -1 {
		return domain.NewDomainError(op, "rate must be greater than -1 (got %v)", rate)
	}
	return nil
}
