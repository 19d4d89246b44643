package reverb

import (
	"fmt"
	"math/rand/v2"

	"github.com/cwbudde/algo-fdnverb/dsp/delay"
	"github.com/cwbudde/algo-fdnverb/dsp/mixmatrix"
)

// Diffuser decorrelates N lanes by delaying each one by a jittered amount,
// scattering them through a Hadamard matrix and flipping the polarity of
// randomly chosen outputs.
//
// Lane c draws its delay from [range*c/N, range*(c+1)/N), so lanes never share
// a delay. Delays are applied when samples are written, which means a new draw
// only affects samples entering the line from then on.
type Diffuser struct {
	lanes       int
	seed        uint64
	timeVarying bool

	lines    *delay.MultiLine
	hadamard *mixmatrix.Hadamard
	rng      *rand.Rand
	pcg      *rand.PCG

	rangeSamples float64
	jitter       []float64
	sign         []float64
	needDraw     bool
}

// NewDiffuser returns an unprepared diffuser for lanes lanes.
func NewDiffuser(lanes int, seed uint64, timeVarying bool) (*Diffuser, error) {
	h, err := mixmatrix.NewHadamard(lanes)
	if err != nil {
		return nil, fmt.Errorf("reverb diffuser: %w", err)
	}
	lines, err := delay.NewMulti(delay.MaxDelaySamples)
	if err != nil {
		return nil, err
	}

	pcg := rand.NewPCG(seed, seedStream)
	d := &Diffuser{
		lanes:       lanes,
		seed:        seed,
		timeVarying: timeVarying,
		lines:       lines,
		hadamard:    h,
		pcg:         pcg,
		rng:         rand.New(pcg),
		jitter:      make([]float64, lanes),
		sign:        make([]float64, lanes),
		needDraw:    true,
	}
	for c := range d.sign {
		d.sign[c] = 1
	}

	return d, nil
}

// seedStream is the fixed second PCG word; only the first word is user facing.
const seedStream = 0x6a09e667f3bcc909

// Prepare sizes the jitter lines for the given rate and block size.
func (d *Diffuser) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := d.lines.Prepare(sampleRate, maxBlockSize, d.lanes); err != nil {
		return fmt.Errorf("reverb diffuser: %w", err)
	}
	d.Reset()
	return nil
}

// Reset clears the lines and restarts the random sequence from the seed.
func (d *Diffuser) Reset() {
	d.lines.Reset()
	d.pcg.Seed(d.seed, seedStream)
	for c := range d.sign {
		d.sign[c] = 1
		d.jitter[c] = 0
	}
	d.needDraw = true
}

// Lanes returns the lane count.
func (d *Diffuser) Lanes() int { return d.lanes }

// CheckRangeSamples reports whether a jitter range of r samples fits the
// diffusion lines.
func (d *Diffuser) CheckRangeSamples(r float64) error {
	return d.lines.CheckDelay(r)
}

// SetRangeSamples sets the total jitter range. Values beyond the line
// capacity are clamped; callers validate with CheckRangeSamples first.
func (d *Diffuser) SetRangeSamples(r float64) {
	if r < 0 {
		r = 0
	}
	if c := float64(d.lines.Capacity()); r > c {
		r = c
	}
	if r != d.rangeSamples {
		d.rangeSamples = r
		d.needDraw = true
	}
}

// RangeSamples returns the total jitter range.
func (d *Diffuser) RangeSamples() float64 { return d.rangeSamples }

// Jitter returns the current delay of lane c in samples.
func (d *Diffuser) Jitter(c int) float64 { return d.jitter[c] }

// Flipped reports whether lane c is currently inverted.
func (d *Diffuser) Flipped(c int) bool { return d.sign[c] < 0 }

// BeginBlock draws the polarity flags for the next block and, when
// time-varying diffusion is on or the range changed, new lane delays.
func (d *Diffuser) BeginBlock() {
	n := float64(d.lanes)
	redraw := d.timeVarying || d.needDraw
	for c := 0; c < d.lanes; c++ {
		if redraw {
			lo := d.rangeSamples * float64(c) / n
			hi := d.rangeSamples * float64(c+1) / n
			d.jitter[c] = lo + d.rng.Float64()*(hi-lo)
		}
		if d.rng.IntN(2) == 1 {
			d.sign[c] = -1
		} else {
			d.sign[c] = 1
		}
	}
	d.needDraw = false
}

// ProcessFrame diffuses one sample per lane from in into out. in and out may
// alias.
func (d *Diffuser) ProcessFrame(in, out []float64) {
	for c := 0; c < d.lanes; c++ {
		d.lines.ScatterSample(c, d.jitter[c], in[c])
	}
	for c := 0; c < d.lanes; c++ {
		out[c] = d.lines.PullSample(c)
	}

	d.hadamard.InPlace(out[:d.lanes])

	for c := 0; c < d.lanes; c++ {
		out[c] *= d.sign[c]
	}
}
