package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-fdnverb/dsp/delay"
	"github.com/cwbudde/algo-fdnverb/dsp/interp"
)

// Topology is a reverb structure operating in place on N internal lanes.
// Prepare and Reset run off the audio thread; SetParams and Process run on
// it and must not allocate.
type Topology interface {
	Kind() TopologyKind
	Lanes() int
	Prepare(sampleRate float64, maxBlockSize int) error
	Reset()
	// CheckParams reports delay settings that do not fit the lines, wrapping
	// delay.ErrDelayExceedsCapacity. It needs no prepared state.
	CheckParams(p LaneParams) error
	// SetParams retargets the tunables. Converted delay values are in
	// samples; immediate skips smoothing.
	SetParams(p LaneParams, immediate bool)
	// Process transforms the first n samples of every lane in place.
	Process(lanes [][]float64, n int)
	// LongestDelaySamples returns the longest target loop length.
	LongestDelaySamples() float64
}

// LaneParams are Params converted to samples at the prepared rate.
type LaneParams struct {
	BaseDelay  float64
	DecayGain  float64
	JitterSpan float64
	DampingHz  float64
}

// NewTopology builds the structure selected by kind. opts configure the
// recirculating lane delay lines.
func NewTopology(kind TopologyKind, lanes int, seed uint64, diffusion, timeVarying bool, rampSeconds float64, opts ...delay.Option) (Topology, error) {
	switch kind {
	case TopologyMatrix:
		return NewMatrixTopology(lanes, seed, diffusion, timeVarying, rampSeconds, opts...)
	case TopologyDelayArray:
		return NewDelayArrayTopology(lanes, rampSeconds, opts...)
	default:
		return nil, fmt.Errorf("reverb topology is unknown: %v", kind)
	}
}

// MatrixTopology runs the Diffuser (optional) and then the FeedbackNetwork
// on every sample frame.
type MatrixTopology struct {
	diffuser *Diffuser
	network  *FeedbackNetwork
	frame    []float64
}

// NewMatrixTopology builds a diffusion + Householder network for lanes lanes.
// A nil diffuser is used when diffusion is false.
func NewMatrixTopology(lanes int, seed uint64, diffusion, timeVarying bool, rampSeconds float64, opts ...delay.Option) (*MatrixTopology, error) {
	network, err := NewFeedbackNetwork(lanes, rampSeconds, opts...)
	if err != nil {
		return nil, err
	}

	t := &MatrixTopology{
		network: network,
		frame:   make([]float64, lanes),
	}
	if diffusion {
		t.diffuser, err = NewDiffuser(lanes, seed, timeVarying)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Kind returns TopologyMatrix.
func (t *MatrixTopology) Kind() TopologyKind { return TopologyMatrix }

// Lanes returns the lane count.
func (t *MatrixTopology) Lanes() int { return t.network.Lanes() }

// Diffuser returns the diffusion stage, or nil when diffusion is disabled.
func (t *MatrixTopology) Diffuser() *Diffuser { return t.diffuser }

// Network returns the feedback network.
func (t *MatrixTopology) Network() *FeedbackNetwork { return t.network }

// Prepare implements Topology.
func (t *MatrixTopology) Prepare(sampleRate float64, maxBlockSize int) error {
	if t.diffuser != nil {
		if err := t.diffuser.Prepare(sampleRate, maxBlockSize); err != nil {
			return err
		}
	}
	return t.network.Prepare(sampleRate, maxBlockSize)
}

// Reset implements Topology.
func (t *MatrixTopology) Reset() {
	if t.diffuser != nil {
		t.diffuser.Reset()
	}
	t.network.Reset()
	clear(t.frame)
}

// CheckParams implements Topology. The jitter span is only checked when
// diffusion is enabled.
func (t *MatrixTopology) CheckParams(p LaneParams) error {
	if err := t.network.CheckBaseDelaySamples(p.BaseDelay); err != nil {
		return fmt.Errorf("reverb lane delay: %w", err)
	}
	if t.diffuser != nil {
		if err := t.diffuser.CheckRangeSamples(p.JitterSpan); err != nil {
			return fmt.Errorf("reverb jitter span: %w", err)
		}
	}
	return nil
}

// SetParams implements Topology.
func (t *MatrixTopology) SetParams(p LaneParams, immediate bool) {
	t.network.SetBaseDelaySamples(p.BaseDelay, immediate)
	t.network.SetDecayGain(p.DecayGain, immediate)
	t.network.SetDampingHz(p.DampingHz)
	if t.diffuser != nil {
		t.diffuser.SetRangeSamples(p.JitterSpan)
	}
}

// LongestDelaySamples implements Topology.
func (t *MatrixTopology) LongestDelaySamples() float64 {
	return t.network.LongestDelaySamples()
}

// Process implements Topology.
func (t *MatrixTopology) Process(lanes [][]float64, n int) {
	if t.diffuser != nil {
		t.diffuser.BeginBlock()
	}

	frame := t.frame
	for i := 0; i < n; i++ {
		for c := range frame {
			frame[c] = lanes[c][i]
		}
		if t.diffuser != nil {
			t.diffuser.ProcessFrame(frame, frame)
		}
		t.network.ProcessFrame(frame, frame)
		for c := range frame {
			lanes[c][i] = frame[c]
		}
	}
}

// DelayArrayTopology runs N independent recirculating delays. Each lane adds
// its damped output, scaled by a smoothed feedback volume, back to its input.
type DelayArrayTopology struct {
	bank *laneBank
}

// NewDelayArrayTopology builds lanes independent feedback delays.
func NewDelayArrayTopology(lanes int, rampSeconds float64, opts ...delay.Option) (*DelayArrayTopology, error) {
	if lanes <= 0 {
		return nil, fmt.Errorf("reverb lanes must be > 0: %d", lanes)
	}
	bank, err := newLaneBank(lanes, rampSeconds, opts...)
	if err != nil {
		return nil, fmt.Errorf("reverb delay array: %w", err)
	}
	return &DelayArrayTopology{bank: bank}, nil
}

// Kind returns TopologyDelayArray.
func (t *DelayArrayTopology) Kind() TopologyKind { return TopologyDelayArray }

// Lanes returns the lane count.
func (t *DelayArrayTopology) Lanes() int { return t.bank.lanes }

// Prepare implements Topology.
func (t *DelayArrayTopology) Prepare(sampleRate float64, maxBlockSize int) error {
	if err := t.bank.prepare(sampleRate, maxBlockSize); err != nil {
		return fmt.Errorf("reverb delay array: %w", err)
	}
	return nil
}

// Reset implements Topology.
func (t *DelayArrayTopology) Reset() { t.bank.reset() }

// CheckParams implements Topology. JitterSpan is unused.
func (t *DelayArrayTopology) CheckParams(p LaneParams) error {
	if err := t.bank.checkBaseDelay(p.BaseDelay); err != nil {
		return fmt.Errorf("reverb lane delay: %w", err)
	}
	return nil
}

// Interpolation returns the fractional read mode of the lane lines.
func (t *DelayArrayTopology) Interpolation() interp.Mode { return t.bank.interpolation() }

// SetParams implements Topology. JitterSpan is unused.
func (t *DelayArrayTopology) SetParams(p LaneParams, immediate bool) {
	t.bank.setBaseDelay(p.BaseDelay, immediate)
	t.bank.setGain(p.DecayGain, immediate)
	t.bank.setDamping(p.DampingHz)
}

// LongestDelaySamples implements Topology.
func (t *DelayArrayTopology) LongestDelaySamples() float64 {
	return t.bank.longestDelay()
}

// StoredEnergy returns the energy circulating in the lanes.
func (t *DelayArrayTopology) StoredEnergy() float64 { return t.bank.storedEnergy() }

// Process implements Topology.
func (t *DelayArrayTopology) Process(lanes [][]float64, n int) {
	b := t.bank
	for c := 0; c < b.lanes; c++ {
		lane := lanes[c][:n]
		for i, x := range lane {
			y := b.read(c)
			b.write(c, x+b.damp(c, y)*b.gains[c].Next())
			lane[i] = y
		}
	}
}
