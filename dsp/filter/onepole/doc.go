// Package onepole provides a first-order low-pass filter for damping high
// frequencies in feedback paths.
//
// Each [LowPass] holds its own previous-output state, so every delay lane owns
// an independent instance.
package onepole
