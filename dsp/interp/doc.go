// Package interp provides interpolation primitives used by delay-based DSP blocks.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear]:   2-point linear interpolation (delay-line default)
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum lets delay lines select the algorithm at construction time.
package interp
