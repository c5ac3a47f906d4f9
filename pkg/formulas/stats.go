package formulas

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation. Fewer than two values yield 0.
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Min returns the smallest value, or 0 for an empty slice
func Min(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Min(data)
}

// Max returns the largest value, or 0 for an empty slice
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return floats.Max(data)
}

// Percentile returns the p-th percentile (0-100), interpolating linearly
// between closest ranks.
// data does not need to be sorted; it is not modified.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return quantileSorted(sorted, p)
}

// Percentiles computes several percentiles with a single sort
func Percentiles(data []float64, ps []float64) map[float64]float64 {
	out := make(map[float64]float64, len(ps))
	if len(data) == 0 {
		for _, p := range ps {
			out[p] = 0
		}
		return out
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	for _, p := range ps {
		out[p] = quantileSorted(sorted, p)
	}
	return out
}

// FractionBelow returns the share of paired observations where a[i] < b[i]
func FractionBelow(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	count := 0
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			count++
		}
	}
	return float64(count) / float64(n)
}

// quantileSorted interpolates linearly between the order statistics either
// side of rank (n-1)*q.
func quantileSorted(sorted []float64, p float64) float64 {
	q := math.Min(math.Max(p/100, 0), 1)
	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
