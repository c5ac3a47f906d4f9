// Package scenarios provides named economic scenarios as year-indexed trajectories.
package scenarios

// Trajectory is a sequence of yearly values where index 0 is year 1.
// Years past the end repeat the last value.
type Trajectory []float64

// At returns the value for a 1-indexed year. An empty trajectory yields fallback;
// years before 1 yield the first value.
func (t Trajectory) At(year int, fallback float64) float64 {
	if len(t) == 0 {
		return fallback
	}
	if year < 1 {
		return t[0]
	}
	if year > len(t) {
		return t[len(t)-1]
	}
	return t[year-1]
}

// Extend returns a copy of the trajectory padded to years by repeating its last value.
// An empty trajectory is filled with fallback.
func (t Trajectory) Extend(years int, fallback float64) Trajectory {
	n := years
	if len(t) > n {
		n = len(t)
	}
	out := make(Trajectory, n)
	for y := 1; y <= n; y++ {
		out[y-1] = t.At(y, fallback)
	}
	return out
}

// GrowthTrajectory compounds a constant annual rate starting from 1.0 in year 1
func GrowthTrajectory(rate float64, years int) Trajectory {
	if years <= 0 {
		return Trajectory{}
	}
	t := make(Trajectory, years)
	t[0] = 1.0
	for i := 1; i < years; i++ {
		t[i] = t[i-1] * (1 + rate)
	}
	return t
}

// LinearTrajectory interpolates linearly from start (year 1) to end (final year)
func LinearTrajectory(start, end float64, years int) Trajectory {
	if years <= 0 {
		return Trajectory{}
	}
	if years == 1 {
		return Trajectory{start}
	}
	t := make(Trajectory, years)
	for i := 0; i < years; i++ {
		t[i] = start + (end-start)*float64(i)/float64(years-1)
	}
	return t
}

// StepTrajectory starts at start and adds step every year
func StepTrajectory(start, step float64, years int) Trajectory {
	if years <= 0 {
		return Trajectory{}
	}
	t := make(Trajectory, years)
	for i := range t {
		t[i] = start + step*float64(i)
	}
	return t
}

// Constant returns a flat trajectory
func Constant(value float64, years int) Trajectory {
	if years <= 0 {
		return Trajectory{}
	}
	t := make(Trajectory, years)
	for i := range t {
		t[i] = value
	}
	return t
}

// Shift drops the first offset years, so year 1 of the result is year offset+1 of t.
// Shifting past the end leaves the last value.
func (t Trajectory) Shift(offset int) Trajectory {
	if offset <= 0 || len(t) == 0 {
		return t
	}
	if offset >= len(t) {
		return Trajectory{t[len(t)-1]}
	}
	out := make(Trajectory, len(t)-offset)
	copy(out, t[offset:])
	return out
}
