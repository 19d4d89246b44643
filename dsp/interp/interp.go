package interp

import "fmt"

// Mode selects a fractional-read algorithm.
type Mode int

const (
	// ModeLinear blends the two nearest integer taps.
	ModeLinear Mode = iota
	// ModeHermite uses four taps around the read position.
	ModeHermite
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeHermite:
		return "hermite"
	default:
		return "unknown"
	}
}

// ParseMode maps a name produced by String back to its mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "linear":
		return ModeLinear, nil
	case "hermite":
		return ModeHermite, nil
	default:
		return 0, fmt.Errorf("interpolation must be linear or hermite: %q", name)
	}
}

// Taps returns the number of samples the mode reads around the read position.
func (m Mode) Taps() int {
	if m == ModeHermite {
		return 4
	}
	return 2
}

// Linear interpolates from x0 (t=0) to x1 (t=1).
// At t=0 it returns x0 exactly.
func Linear(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Hermite4 computes cubic 4-point interpolation.
// It interpolates from x0 to x1 using neighbor points xm1 and x2.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
