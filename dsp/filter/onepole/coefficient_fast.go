//go:build fastmath

package onepole

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// coefficient computes exp(-2*pi*fc/fs) using fast approximation. The
// result is kept in [0, 1).
func coefficient(cutoffHz, sampleRate float64) float64 {
	a := approx.FastExp(-2 * math.Pi * cutoffHz / sampleRate)
	if a < 0 {
		return 0
	}
	if a >= 1 {
		return math.Nextafter(1, 0)
	}
	return a
}
