package reverb

import (
	"github.com/cwbudde/algo-fdnverb/dsp/core"
	"github.com/cwbudde/algo-fdnverb/dsp/delay"
	"github.com/cwbudde/algo-fdnverb/dsp/filter/onepole"
	"github.com/cwbudde/algo-fdnverb/dsp/interp"
	"github.com/cwbudde/algo-fdnverb/dsp/smooth"
)

// laneBank is the per-lane state shared by both topologies: a recirculating
// delay line with a gliding loop length, a gliding feedback gain and a
// damping filter.
type laneBank struct {
	lanes   int
	lines   *delay.MultiLine
	delays  []smooth.Linear
	gains   []smooth.Linear
	dampers []*onepole.LowPass
	damping bool
	rampSec float64
}

func newLaneBank(lanes int, rampSeconds float64, opts ...delay.Option) (*laneBank, error) {
	lines, err := delay.NewMulti(delay.MaxDelaySamples, opts...)
	if err != nil {
		return nil, err
	}

	b := &laneBank{
		lanes:   lanes,
		lines:   lines,
		delays:  make([]smooth.Linear, lanes),
		gains:   make([]smooth.Linear, lanes),
		dampers: make([]*onepole.LowPass, lanes),
		rampSec: rampSeconds,
	}
	for c := range b.dampers {
		lp, err := onepole.New(0, defaultSampleRate)
		if err != nil {
			return nil, err
		}
		b.dampers[c] = lp
	}

	return b, nil
}

func (b *laneBank) prepare(sampleRate float64, maxBlockSize int) error {
	if err := b.lines.Prepare(sampleRate, maxBlockSize, b.lanes); err != nil {
		return err
	}
	for c := 0; c < b.lanes; c++ {
		if err := b.delays[c].Reset(sampleRate, b.rampSec); err != nil {
			return err
		}
		if err := b.gains[c].Reset(sampleRate, b.rampSec); err != nil {
			return err
		}
		if err := b.dampers[c].SetSampleRate(sampleRate); err != nil {
			return err
		}
	}
	b.reset()
	return nil
}

func (b *laneBank) reset() {
	b.lines.Reset()
	for c := 0; c < b.lanes; c++ {
		b.delays[c].SetCurrentAndTarget(b.delays[c].Target())
		b.gains[c].SetCurrentAndTarget(b.gains[c].Target())
		b.dampers[c].Reset()
	}
}

// checkBaseDelay reports whether the longest lane derived from base fits
// the lines.
func (b *laneBank) checkBaseDelay(base float64) error {
	return b.lines.CheckDelay(laneDelaySamples(base, b.lanes-1, b.lanes))
}

// setBaseDelay retargets lane c to floor(base*2^(c/N)) samples, clamped to
// [1, capacity].
func (b *laneBank) setBaseDelay(base float64, immediate bool) {
	capacity := float64(b.lines.Capacity())
	for c := 0; c < b.lanes; c++ {
		d := core.Clamp(laneDelaySamples(base, c, b.lanes), 1, capacity)
		if immediate {
			b.delays[c].SetCurrentAndTarget(d)
		} else {
			b.delays[c].SetTarget(d)
		}
	}
}

func (b *laneBank) setGain(g float64, immediate bool) {
	g = clampDecayGain(g)
	for c := 0; c < b.lanes; c++ {
		if immediate {
			b.gains[c].SetCurrentAndTarget(g)
		} else {
			b.gains[c].SetTarget(g)
		}
	}
}

// setDamping sets every lane's cutoff. Non-positive or non-finite values
// bypass the filters.
func (b *laneBank) setDamping(hz float64) {
	if !(hz > 0) || !core.IsFinite(hz) {
		hz = 0
	}
	for c := 0; c < b.lanes; c++ {
		_ = b.dampers[c].SetCutoff(hz) // hz is validated above
	}
	b.damping = hz > 0
}

// read returns the sample leaving lane c and advances its delay ramp. The
// following write lands one slot after the newest sample, so reading at D-1
// closes a loop of exactly D samples.
func (b *laneBank) read(c int) float64 {
	return b.lines.PopSample(c, b.delays[c].Next()-1)
}

// damp applies lane c's low-pass when damping is enabled.
func (b *laneBank) damp(c int, v float64) float64 {
	if !b.damping {
		return v
	}
	return b.dampers[c].ProcessSample(v)
}

// write pushes v into lane c, flushing denormals.
func (b *laneBank) write(c int, v float64) {
	b.lines.PushSample(c, core.FlushDenormals(v))
}

func (b *laneBank) interpolation() interp.Mode { return b.lines.Mode() }

func (b *laneBank) longestDelay() float64 {
	var longest float64
	for c := range b.delays {
		if t := b.delays[c].Target(); t > longest {
			longest = t
		}
	}
	return longest
}

// storedEnergy sums the squares of every sample still in flight.
func (b *laneBank) storedEnergy() float64 {
	var e float64
	for c := 0; c < b.lanes; c++ {
		e += b.lines.Energy(c, int(b.delays[c].Current()+0.5))
	}
	return e
}
