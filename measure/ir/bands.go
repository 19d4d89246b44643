package ir

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// BandEnergy returns the Hann-windowed spectral energy of x between
// consecutive edges. edgesHz must be ascending in [0, SampleRate/2]; the
// result holds len(edgesHz)-1 bands, each covering [edge[i], edge[i+1]).
// The last band includes its upper edge.
func (a *Analyzer) BandEnergy(x []float64, edgesHz []float64) ([]float64, error) {
	if err := a.check(x); err != nil {
		return nil, err
	}
	if len(edgesHz) < 2 {
		return nil, fmt.Errorf("%w: need at least two edges, got %d", ErrInvalidBands, len(edgesHz))
	}

	nyquist := a.SampleRate / 2
	for i, e := range edgesHz {
		if e < 0 || e > nyquist || (i > 0 && e <= edgesHz[i-1]) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBands, edgesHz)
		}
	}

	size := 1
	for size < len(x) {
		size <<= 1
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("ir band energy: %w", err)
	}

	in := make([]complex128, size)
	n := float64(len(x))
	for i, v := range x {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
		in[i] = complex(v*w, 0)
	}

	spec := make([]complex128, size)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("ir band energy: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := 0; k < bins; k++ {
		re[k] = real(spec[k])
		im[k] = imag(spec[k])
	}
	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	binHz := a.SampleRate / float64(size)
	bands := make([]float64, len(edgesHz)-1)
	for k, p := range power {
		f := float64(k) * binHz
		for b := range bands {
			top := edgesHz[b+1]
			if f >= edgesHz[b] && (f < top || (b == len(bands)-1 && f == top)) {
				bands[b] += p
				break
			}
		}
	}

	return bands, nil
}

// HighFrequencyRatio returns the share of energy at or above splitHz.
func (a *Analyzer) HighFrequencyRatio(x []float64, splitHz float64) (float64, error) {
	bands, err := a.BandEnergy(x, []float64{0, splitHz, a.SampleRate / 2})
	if err != nil {
		return 0, err
	}
	total := bands[0] + bands[1]
	if total <= 0 {
		return 0, ErrSilent
	}
	return bands[1] / total, nil
}
