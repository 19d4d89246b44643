// Package ir measures the decay of reverb tails and impulse responses.
//
// Decay times follow the ISO 3382 convention of fitting a line to the
// backward-integrated energy decay curve and extrapolating to -60 dB:
//
//   - RT60: T30 when the curve reaches -35 dB, otherwise T20
//   - EDT: early decay time from the 0 to -10 dB segment
//   - C80, D50: early-to-late energy balance
//   - CenterTime: energy centroid
//
// The package also provides a windowed RMS envelope, the time at which a tail
// falls below an absolute floor, and FFT band energies for checking how
// damping shapes the tail spectrum.
//
// # Usage
//
//	a := ir.NewAnalyzer(48000)
//	report, err := a.Analyze(tail)
//	fmt.Printf("RT60 = %.2f s, C80 = %.1f dB\n", report.RT60, report.C80)
package ir
