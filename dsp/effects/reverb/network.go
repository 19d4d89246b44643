package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-fdnverb/dsp/delay"
	"github.com/cwbudde/algo-fdnverb/dsp/interp"
	"github.com/cwbudde/algo-fdnverb/dsp/mixmatrix"
)

// FeedbackNetwork is the recursive tail: N delay lanes whose outputs are
// mixed through a Householder reflection, added to the new input, damped,
// scaled by the decay gain and written back.
//
// Each lane's loop length is exactly its delay in samples. With silent input
// the energy stored in the lines shrinks by at least decayGain² per pass.
type FeedbackNetwork struct {
	bank        *laneBank
	householder *mixmatrix.Householder
	fb          []float64
	mix         []float64
}

// NewFeedbackNetwork returns an unprepared network with lanes lanes whose
// delay and gain changes glide over rampSeconds. opts configure the lane
// delay lines.
func NewFeedbackNetwork(lanes int, rampSeconds float64, opts ...delay.Option) (*FeedbackNetwork, error) {
	h, err := mixmatrix.NewHouseholder(lanes)
	if err != nil {
		return nil, fmt.Errorf("reverb network: %w", err)
	}
	bank, err := newLaneBank(lanes, rampSeconds, opts...)
	if err != nil {
		return nil, fmt.Errorf("reverb network: %w", err)
	}

	return &FeedbackNetwork{
		bank:        bank,
		householder: h,
		fb:          make([]float64, lanes),
		mix:         make([]float64, lanes),
	}, nil
}

// Prepare sizes the delay lines and resets all smoothing to its targets.
func (n *FeedbackNetwork) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := n.bank.prepare(sampleRate, maxBlockSize); err != nil {
		return fmt.Errorf("reverb network: %w", err)
	}
	n.Reset()
	return nil
}

// Reset clears the lines and filters and snaps every ramp to its target.
func (n *FeedbackNetwork) Reset() {
	n.bank.reset()
	clear(n.fb)
	clear(n.mix)
}

// Lanes returns the lane count.
func (n *FeedbackNetwork) Lanes() int { return n.bank.lanes }

// SetBaseDelaySamples retargets every lane to base*2^(c/N) samples. If
// immediate is false the lanes glide there.
func (n *FeedbackNetwork) SetBaseDelaySamples(base float64, immediate bool) {
	n.bank.setBaseDelay(base, immediate)
}

// CheckBaseDelaySamples reports whether every lane derived from base fits
// the delay lines.
func (n *FeedbackNetwork) CheckBaseDelaySamples(base float64) error {
	return n.bank.checkBaseDelay(base)
}

// SetDecayGain retargets every lane's feedback gain, clamped into
// [MinDecayGain, MaxDecayGain].
func (n *FeedbackNetwork) SetDecayGain(g float64, immediate bool) {
	n.bank.setGain(g, immediate)
}

// SetDampingHz sets the feedback low-pass cutoff. Zero bypasses damping.
func (n *FeedbackNetwork) SetDampingHz(hz float64) {
	n.bank.setDamping(hz)
}

// DelaySamples returns the current loop length of lane c.
func (n *FeedbackNetwork) DelaySamples(c int) float64 { return n.bank.delays[c].Current() }

// DecayGain returns the current feedback gain of lane c.
func (n *FeedbackNetwork) DecayGain(c int) float64 { return n.bank.gains[c].Current() }

// Interpolation returns the fractional read mode of the lane lines.
func (n *FeedbackNetwork) Interpolation() interp.Mode { return n.bank.interpolation() }

// LongestDelaySamples returns the largest target loop length.
func (n *FeedbackNetwork) LongestDelaySamples() float64 { return n.bank.longestDelay() }

// StoredEnergy returns the sum of squares of every sample still circulating
// in the loop. It walks the lines and is meant for tests and diagnostics.
func (n *FeedbackNetwork) StoredEnergy() float64 { return n.bank.storedEnergy() }

// ProcessFrame runs one sample per lane. out receives the delay outputs; in
// and out may alias.
func (n *FeedbackNetwork) ProcessFrame(in, out []float64) {
	b := n.bank
	fb, mix := n.fb, n.mix
	for c := range fb {
		fb[c] = b.read(c)
	}

	copy(mix, fb)
	n.householder.InPlace(mix)

	for c := range fb {
		v := b.damp(c, in[c]+mix[c])
		b.write(c, v*b.gains[c].Next())
		out[c] = fb[c]
	}
}
