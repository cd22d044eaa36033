package export

import "sort"

// interp evaluates the piecewise-linear function defined by (xp, fp)
// at x, clamping to the first/last value outside the range. xp must be
// non-decreasing. This is how both sensors are resampled onto the
// unified time axis of the data sheet.
func interp(x float64, xp, fp []float64) float64 {
	n := len(xp)
	switch {
	case n == 0:
		return 0
	case x <= xp[0]:
		return fp[0]
	case x >= xp[n-1]:
		return fp[n-1]
	}

	i := sort.SearchFloat64s(xp, x)
	if xp[i] == x {
		return fp[i]
	}

	x0, x1 := xp[i-1], xp[i]
	f0, f1 := fp[i-1], fp[i]
	if x1 == x0 {
		return f0
	}
	return f0 + (f1-f0)*(x-x0)/(x1-x0)
}

// unifiedAxis builds the common resampling axis [start, end] with the
// given step, end inclusive within half a step.
func unifiedAxis(start, end, step float64) []float64 {
	if step <= 0 || end < start {
		return nil
	}

	var axis []float64
	for t := start; t <= end+step/2; t += step {
		axis = append(axis, t)
	}
	return axis
}
