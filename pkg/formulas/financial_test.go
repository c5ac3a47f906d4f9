package formulas

import (
	"math"
	"testing"

	"github.com/aristath/fleetcost/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentValue(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		rate   float64
		year   int
	}{
		{"five percent year one", 1000, 0.05, 1},
		{"five percent year fifteen", 1000, 0.05, 15},
		{"zero rate", 1000, 0, 10},
		{"negative rate above -1", 1000, -0.5, 2},
		{"year zero", 1000, 0.05, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pv, err := PresentValue(tt.amount, tt.rate, tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.amount/math.Pow(1+tt.rate, float64(tt.year)), pv)
		})
	}
}

func TestPresentValue_InvalidRate(t *testing.T) {
	for _, rate := range []float64{-1, -1.5, math.NaN()} {
		_, err := PresentValue(100, rate, 1)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err))
	}
}

func TestDiscounter(t *testing.T) {
	d, err := NewDiscounter(0.05)
	require.NoError(t, err)

	pv, err := d.DiscountToPresent(1050, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1000, pv, 1e-9)

	_, err = NewDiscounter(-1)
	assert.True(t, domain.IsDomainError(err))
}

func TestNPVOfAnnualCashflows(t *testing.T) {
	t.Run("one indexed years", func(t *testing.T) {
		npv, err := NPVOfAnnualCashflows([]float64{105, 110.25}, 0.05)
		require.NoError(t, err)
		assert.InDelta(t, 200, npv, 1e-9)
	})

	t.Run("all zero is zero for any rate", func(t *testing.T) {
		for _, rate := range []float64{-0.9, -0.2, 0, 0.05, 3} {
			npv, err := NPVOfAnnualCashflows(make([]float64, 15), rate)
			require.NoError(t, err)
			assert.Equal(t, 0.0, npv)
		}
	})

	t.Run("empty", func(t *testing.T) {
		npv, err := NPVOfAnnualCashflows(nil, 0.05)
		require.NoError(t, err)
		assert.Equal(t, 0.0, npv)
	})

	t.Run("matches present value sum", func(t *testing.T) {
		flows := []float64{1000, 2000, 0, 500, 750}
		expected := 0.0
		for i, f := range flows {
			pv, err := PresentValue(f, 0.07, i+1)
			require.NoError(t, err)
			expected += pv
		}
		npv, err := NPVOfAnnualCashflows(flows, 0.07)
		require.NoError(t, err)
		assert.InDelta(t, expected, npv, 1e-9)
	})

	t.Run("invalid rate", func(t *testing.T) {
		_, err := NPVOfAnnualCashflows([]float64{1}, -1)
		assert.True(t, domain.IsDomainError(err))
	})
}

func TestNPVOfPayments(t *testing.T) {
	t.Run("twelve monthly payments at zero rate", func(t *testing.T) {
		npv, err := NPVOfPayments(100, 12, 12, 0)
		require.NoError(t, err)
		assert.InDelta(t, 1200, npv, 1e-9)
	})

	t.Run("payment twelve is discounted one full year", func(t *testing.T) {
		all, err := NPVOfPayments(100, 12, 12, 0.05)
		require.NoError(t, err)
		first11, err := NPVOfPayments(100, 11, 12, 0.05)
		require.NoError(t, err)
		assert.InDelta(t, 100/1.05, all-first11, 1e-9)
	})

	t.Run("annual frequency equals annual cashflow npv", func(t *testing.T) {
		npv, err := NPVOfPayments(500, 5, 1, 0.05)
		require.NoError(t, err)
		expected, err := NPVOfAnnualCashflows([]float64{500, 500, 500, 500, 500}, 0.05)
		require.NoError(t, err)
		assert.InDelta(t, expected, npv, 1e-9)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		_, err := NPVOfPayments(100, -1, 12, 0.05)
		assert.True(t, domain.IsDomainError(err))
		_, err = NPVOfPayments(100, 12, 0, 0.05)
		assert.True(t, domain.IsDomainError(err))
		_, err = NPVOfPayments(100, 12, 12, -2)
		assert.True(t, domain.IsDomainError(err))
	})
}

func TestAnnuityPresentValue(t *testing.T) {
	pv, err := AnnuityPresentValue(1000, 0.05, 15)
	require.NoError(t, err)
	flows := make([]float64, 15)
	for i := range flows {
		flows[i] = 1000
	}
	expected, err := NPVOfAnnualCashflows(flows, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, expected, pv, 1e-6)

	pv, err = AnnuityPresentValue(1000, 0, 15)
	require.NoError(t, err)
	assert.Equal(t, 15000.0, pv)

	pv, err = AnnuityPresentValue(1000, 0.05, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pv)
}

func TestAmortize(t *testing.T) {
	s, err := Amortize(100000, 0.06, 60, 12)
	require.NoError(t, err)

	// standard 5 year loan at 6% nominal
	assert.InDelta(t, 1933.28, s.Payment, 0.01)
	require.Len(t, s.Rows, 60)
	assert.InDelta(t, 500.0, s.Rows[0].Interest, 1e-9)
	assert.InDelta(t, 0, s.Rows[59].Balance, 1e-6)
	assert.InDelta(t, s.TotalPaid-100000, s.TotalInterest, 1e-6)

	principalSum := 0.0
	for _, row := range s.Rows {
		principalSum += row.Principal
	}
	assert.InDelta(t, 100000, principalSum, 1e-6)
}

func TestAmortize_ZeroRate(t *testing.T) {
	s, err := Amortize(1200, 0, 12, 12)
	require.NoError(t, err)
	assert.InDelta(t, 100, s.Payment, 1e-9)
	assert.InDelta(t, 0, s.TotalInterest, 1e-9)
}

func TestAmortize_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		periods   int
		perYear   int
	}{
		{"zero principal", 0, 0.06, 60, 12},
		{"negative principal", -5, 0.06, 60, 12},
		{"zero term", 1000, 0.06, 0, 12},
		{"negative term", 1000, 0.06, -12, 12},
		{"zero frequency", 1000, 0.06, 12, 0},
		{"negative rate", 1000, -0.01, 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Amortize(tt.principal, tt.rate, tt.periods, tt.perYear)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err))
		})
	}
}
