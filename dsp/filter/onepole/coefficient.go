//go:build !fastmath

package onepole

import "math"

// coefficient computes exp(-2*pi*fc/fs) using standard library math.
func coefficient(cutoffHz, sampleRate float64) float64 {
	return math.Exp(-2 * math.Pi * cutoffHz / sampleRate)
}
