package domain

import "math"

// Round2 rounds a non-negative value to two decimals, half away from zero.
// The small bias absorbs binary representation error (1.005 -> 1.01).
func Round2(v float64) float64 {
	if v < 0 {
		return -Round2(-v)
	}
	return math.Floor(v*100+0.5+1e-9) / 100
}
