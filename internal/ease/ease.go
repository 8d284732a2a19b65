// Package ease provides the interpolation and easing primitives shared by
// the transition, audio and word-sync components.
package ease

// Func maps a progress value to an eased progress value. Inputs in [0,1]
// produce outputs in [0,1]; inputs outside that range extrapolate along the
// same curve.
type Func func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// OutCubic decelerates toward the end of the range.
func OutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// InCubic accelerates from a standstill.
func InCubic(t float64) float64 {
	return t * t * t
}

// InOutCubic accelerates through the first half and decelerates through the
// second.
func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp limits v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
