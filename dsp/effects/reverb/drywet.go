package reverb

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fdnverb/dsp/core"
	"github.com/cwbudde/algo-fdnverb/dsp/smooth"
)

// DryWetMixer blends a wet signal into a dry one as
// dry*(1-w) + wet*w, where w ramps towards the wet proportion.
type DryWetMixer struct {
	wet     smooth.Linear
	dryGain []float64
	wetGain []float64
}

// NewDryWetMixer returns a mixer for blocks of up to maxBlockSize samples.
func NewDryWetMixer(maxBlockSize int) *DryWetMixer {
	m := &DryWetMixer{}
	m.resize(maxBlockSize)
	return m
}

func (m *DryWetMixer) resize(maxBlockSize int) {
	m.dryGain = core.EnsureLen(m.dryGain, maxBlockSize)
	m.wetGain = core.EnsureLen(m.wetGain, maxBlockSize)
}

// Prepare sets the ramp time and scratch size and jumps to the current target.
func (m *DryWetMixer) Prepare(sampleRate, rampSeconds float64, maxBlockSize int) error {
	if err := m.wet.Reset(sampleRate, rampSeconds); err != nil {
		return err
	}
	m.resize(maxBlockSize)
	return nil
}

// SetWetProportion retargets the wet proportion, clamped to [0, 1].
func (m *DryWetMixer) SetWetProportion(w float64, immediate bool) {
	w = core.Clamp(w, 0, 1)
	if immediate {
		m.wet.SetCurrentAndTarget(w)
		return
	}
	m.wet.SetTarget(w)
}

// WetProportion returns the current (possibly ramping) wet proportion.
func (m *DryWetMixer) WetProportion() float64 { return m.wet.Current() }

// Reset jumps the ramp to its target.
func (m *DryWetMixer) Reset() {
	m.wet.SetCurrentAndTarget(m.wet.Target())
}

// Mix writes the blend of dry and wet into dry for every channel. Both sets
// of channels must hold at least n samples; n must not exceed the prepared
// block size. All channels share one gain ramp. wet is used as scratch and
// is overwritten.
func (m *DryWetMixer) Mix(dry, wet [][]float64, n int) {
	dg := m.dryGain[:n]
	wg := m.wetGain[:n]

	if !m.wet.IsSmoothing() {
		w := m.wet.Current()
		switch w {
		case 0:
			return
		case 1:
			for ch := range dry {
				copy(dry[ch][:n], wet[ch][:n])
			}
			return
		}
		for i := range wg {
			wg[i] = w
			dg[i] = 1 - w
		}
	} else {
		for i := range wg {
			w := m.wet.Next()
			wg[i] = w
			dg[i] = 1 - w
		}
	}

	for ch := range dry {
		d := dry[ch][:n]
		x := wet[ch][:n]
		vecmath.MulBlockInPlace(d, dg)
		vecmath.MulBlockInPlace(x, wg)
		vecmath.AddBlockInPlace(d, x)
	}
}
