package systems

import "math"

// clamp clamps v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// modInt returns a mod m in [0, m).
func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// normalize returns the unit vector of (x, y), or zero for near-zero input.
func normalize(x, y float64) (float64, float64) {
	n := math.Hypot(x, y)
	if n <= 1e-8 {
		return 0, 0
	}
	return x / n, y / n
}
