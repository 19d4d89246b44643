package onepole

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fdnverb/dsp/core"
)

// maxCutoffRatio keeps the cutoff below Nyquist.
const maxCutoffRatio = 0.49

// LowPass is a single-pole IIR low-pass filter:
//
//	y[n] = (1-alpha)*x[n] + alpha*y[n-1],  alpha = exp(-2*pi*fc/fs)
//
// A cutoff of 0 disables filtering (alpha = 0).
type LowPass struct {
	sampleRate float64
	cutoffHz   float64
	alpha      float64
	state      float64
}

// New creates a low-pass filter. cutoffHz = 0 yields a pass-through filter.
func New(cutoffHz, sampleRate float64) (*LowPass, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("onepole sample rate must be > 0: %f", sampleRate)
	}

	f := &LowPass{sampleRate: sampleRate}
	if err := f.SetCutoff(cutoffHz); err != nil {
		return nil, err
	}

	return f, nil
}

// SetSampleRate updates the sample rate and recomputes the coefficient.
func (f *LowPass) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("onepole sample rate must be > 0: %f", sampleRate)
	}

	f.sampleRate = sampleRate
	f.updateCoefficient()

	return nil
}

// SetCutoff sets the -3 dB frequency in Hz. Values above 0.49*fs are clamped.
func (f *LowPass) SetCutoff(cutoffHz float64) error {
	if cutoffHz < 0 || !core.IsFinite(cutoffHz) {
		return fmt.Errorf("onepole cutoff must be >= 0: %f", cutoffHz)
	}

	f.cutoffHz = cutoffHz
	f.updateCoefficient()

	return nil
}

// ProcessSample filters one sample.
func (f *LowPass) ProcessSample(x float64) float64 {
	f.state = core.FlushDenormals((1-f.alpha)*x + f.alpha*f.state)
	return f.state
}

// ProcessInPlace filters buf in place.
func (f *LowPass) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = f.ProcessSample(buf[i])
	}
}

// Reset clears the filter memory.
func (f *LowPass) Reset() {
	f.state = 0
}

// Cutoff returns the cutoff in Hz.
func (f *LowPass) Cutoff() float64 { return f.cutoffHz }

// Alpha returns the feedback coefficient.
func (f *LowPass) Alpha() float64 { return f.alpha }

// Enabled reports whether the filter modifies its input.
func (f *LowPass) Enabled() bool { return f.alpha > 0 }

func (f *LowPass) updateCoefficient() {
	if f.cutoffHz <= 0 {
		f.alpha = 0
		return
	}

	fc := math.Min(f.cutoffHz, maxCutoffRatio*f.sampleRate)
	f.alpha = coefficient(fc, f.sampleRate)
}
