package reverb

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/GeoffreyPlitt/debuggo"

	"github.com/cwbudde/algo-fdnverb/dsp/buffer"
	"github.com/cwbudde/algo-fdnverb/dsp/core"
	"github.com/cwbudde/algo-fdnverb/dsp/delay"
)

var reverbDebug = debuggo.Debug("fdnverb:reverb")

// Configuration errors reported by Prepare and ProcessChecked.
var (
	ErrNotPrepared         = errors.New("reverb: processor is not prepared")
	ErrChannelMismatch     = errors.New("reverb: channel count differs from prepared layout")
	ErrBlockTooLarge       = errors.New("reverb: block exceeds prepared maximum size")
	ErrUnsupportedChannels = errors.New("reverb: only mono and stereo are supported")
)

// Processor is the host-facing reverberator. A host calls Prepare once per
// configuration, then Process for every block on its audio thread. The
// Set* tunables may be called from any goroutine; changes are picked up at
// the start of the next block and ramped. Once prepared, SetDelayMs and
// SetDelayMsRange validate against the prepared sample rate, so they must not
// run concurrently with Prepare.
type Processor struct {
	cfg      config
	topology Topology
	mixer    *DryWetMixer
	router   *Router
	params   paramStore

	lanes *buffer.Planar
	wet   *buffer.Planar
	io    *buffer.Planar

	sampleRate   float64
	maxBlockSize int
	channels     int
	prepared     bool

	dropped atomic.Uint64
}

// New constructs an unprepared processor.
func New(opts ...Option) (*Processor, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	topology, err := NewTopology(cfg.topology, cfg.lanes, cfg.seed, cfg.diffusion, cfg.timeVarying,
		cfg.smoothingSeconds, delay.WithMode(cfg.interpolation))
	if err != nil {
		return nil, err
	}

	p := &Processor{
		cfg:      cfg,
		topology: topology,
		mixer:    NewDryWetMixer(0),
		lanes:    &buffer.Planar{},
		wet:      &buffer.Planar{},
		io:       &buffer.Planar{},
	}
	p.params.init(cfg.params)

	reverbDebug("New: topology=%s lanes=%d seed=%d diffusion=%t timeVarying=%t interp=%s",
		cfg.topology, cfg.lanes, cfg.seed, cfg.diffusion, cfg.timeVarying, cfg.interpolation)

	return p, nil
}

// Prepare sizes every buffer for the given stream configuration and resets
// all state. channels must be 1 or 2. It may be called again to reconfigure;
// it must not run concurrently with Process.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: maxBlockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("reverb prepare: %w", err)
	}
	if channels != 1 && channels != 2 {
		return fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}

	// Clear the dirty bits before reading, so a store that lands after the
	// snapshot is picked up by the first block. A rejected configuration
	// leaves the current one running, so its pending changes are kept.
	pending := p.params.takeDirtyMask()
	params := p.params.snapshot()
	if err := p.checkCapacity(params, sampleRate); err != nil {
		p.params.restoreDirty(pending)
		return err
	}

	router, err := NewRouter(channels, p.cfg.lanes)
	if err != nil {
		return err
	}

	p.prepared = false

	if err := p.lanes.Resize(p.cfg.lanes, maxBlockSize); err != nil {
		return err
	}
	if err := p.wet.Resize(channels, maxBlockSize); err != nil {
		return err
	}
	if err := p.io.Resize(channels, maxBlockSize); err != nil {
		return err
	}

	if err := p.topology.Prepare(sampleRate, maxBlockSize); err != nil {
		return err
	}
	if err := p.mixer.Prepare(sampleRate, p.cfg.smoothingSeconds, maxBlockSize); err != nil {
		return err
	}

	p.router = router
	p.sampleRate = sampleRate
	p.maxBlockSize = maxBlockSize
	p.channels = channels

	p.apply(params, true)
	p.prepared = true

	reverbDebug("Prepare: sampleRate=%.0f maxBlock=%d channels=%d lanes=%d longestDelay=%.0f tail=%.2fs",
		sampleRate, maxBlockSize, channels, p.cfg.lanes, p.topology.LongestDelaySamples(), p.TailLengthSeconds())

	return nil
}

// checkCapacity rejects delay settings that cannot fit the delay lines at
// sampleRate.
func (p *Processor) checkCapacity(params Params, sampleRate float64) error {
	if err := p.topology.CheckParams(laneParams(params, sampleRate)); err != nil {
		return fmt.Errorf("reverb delay %.1f ms, range %.1f ms at %.0f Hz: %w",
			params.DelayMs, params.DelayMsRange, sampleRate, err)
	}
	return nil
}

// laneParams converts params to the sample units of the topology.
func laneParams(params Params, sampleRate float64) LaneParams {
	return LaneParams{
		BaseDelay:  core.MsToSamples(params.DelayMs, sampleRate),
		DecayGain:  params.DecayGain,
		JitterSpan: core.MsToSamples(params.DelayMsRange, sampleRate),
		DampingHz:  params.DampingHz,
	}
}

// Reset clears all audio state without reallocating and applies any pending
// parameter changes immediately. The diffusion random sequence restarts from
// the seed.
func (p *Processor) Reset() {
	if !p.prepared {
		return
	}

	p.topology.Reset()
	p.lanes.Zero()
	p.wet.Zero()
	p.io.Zero()

	p.params.takeDirty()
	p.apply(p.params.snapshot(), true)
	p.mixer.Reset()

	reverbDebug("Reset")
}

// apply converts params to lane units and retargets the topology and mixer.
func (p *Processor) apply(params Params, immediate bool) {
	p.topology.SetParams(laneParams(params, p.sampleRate), immediate)
	p.mixer.SetWetProportion(params.WetProportion, immediate)
}

// Process transforms a planar block in place. Every channel must hold the
// same number of samples, at most the prepared maximum block size.
//
// Process never fails: a block that does not match the prepared layout is
// left untouched and counted in DroppedBlocks.
func (p *Processor) Process(buf [][]float64) {
	n, err := p.check(buf)
	if err != nil {
		p.dropped.Add(1)
		return
	}
	p.process(buf, n)
}

// ProcessChecked is Process for callers that want the configuration error.
func (p *Processor) ProcessChecked(buf [][]float64) error {
	n, err := p.check(buf)
	if err != nil {
		p.dropped.Add(1)
		return p.describe(err, buf)
	}
	p.process(buf, n)
	return nil
}

// ProcessInterleaved transforms an interleaved block in place. Blocks longer
// than the prepared maximum are processed in consecutive chunks.
func (p *Processor) ProcessInterleaved(buf []float64) {
	if !p.prepared || len(buf)%p.channels != 0 {
		p.dropped.Add(1)
		return
	}

	k := p.channels
	frames := len(buf) / k
	for off := 0; off < frames; off += p.maxBlockSize {
		m := min(p.maxBlockSize, frames-off)
		chunk := buf[off*k : (off+m)*k]

		views := p.io.Block(m)
		for i := 0; i < m; i++ {
			for ch := 0; ch < k; ch++ {
				views[ch][i] = chunk[i*k+ch]
			}
		}

		p.process(views, m)

		for i := 0; i < m; i++ {
			for ch := 0; ch < k; ch++ {
				chunk[i*k+ch] = views[ch][i]
			}
		}
	}
}

func (p *Processor) check(buf [][]float64) (int, error) {
	if !p.prepared {
		return 0, ErrNotPrepared
	}
	if len(buf) != p.channels {
		return 0, ErrChannelMismatch
	}
	n := len(buf[0])
	for _, ch := range buf[1:] {
		if len(ch) != n {
			return 0, ErrChannelMismatch
		}
	}
	if n > p.maxBlockSize {
		return 0, ErrBlockTooLarge
	}
	return n, nil
}

func (p *Processor) describe(err error, buf [][]float64) error {
	switch {
	case errors.Is(err, ErrChannelMismatch):
		return fmt.Errorf("%w: got %d channels, prepared %d", err, len(buf), p.channels)
	case errors.Is(err, ErrBlockTooLarge):
		return fmt.Errorf("%w: %d > %d", err, len(buf[0]), p.maxBlockSize)
	default:
		return err
	}
}

func (p *Processor) process(buf [][]float64, n int) {
	if n == 0 {
		return
	}

	if p.params.takeDirty() {
		p.apply(p.params.snapshot(), false)
	}

	lanes := p.lanes.Block(n)
	p.router.FanOut(buf, lanes, n)
	p.topology.Process(lanes, n)

	wet := p.wet.Block(n)
	p.router.FoldBack(lanes, wet, n)
	p.mixer.Mix(buf, wet, n)
}

// SetDelayMs sets the base lane delay in milliseconds. Lanes glide to the new
// length. On a prepared processor a delay whose longest lane does not fit the
// lines is rejected with delay.ErrDelayExceedsCapacity and the current value
// is kept.
func (p *Processor) SetDelayMs(ms float64) error {
	if ms <= 0 || !finite(ms) {
		return fmt.Errorf("reverb delay must be > 0 ms and finite: %f", ms)
	}
	if p.prepared {
		params := p.params.snapshot()
		params.DelayMs = ms
		if err := p.checkCapacity(params, p.sampleRate); err != nil {
			return err
		}
	}
	p.params.store(paramDelayMs, ms)
	return nil
}

// SetDecayGain sets the feedback gain. Finite values outside
// [MinDecayGain, MaxDecayGain] are clamped so the loop stays stable.
func (p *Processor) SetDecayGain(gain float64) error {
	if !finite(gain) {
		return fmt.Errorf("reverb decay gain must be finite: %f", gain)
	}
	if c := clampDecayGain(gain); c != gain {
		reverbDebug("SetDecayGain: clamped %g to %g", gain, c)
		gain = c
	}
	p.params.store(paramDecayGain, gain)
	return nil
}

// SetDelayMsRange sets the diffusion jitter range in milliseconds. Like
// SetDelayMs it is checked against the line capacity once prepared.
func (p *Processor) SetDelayMsRange(ms float64) error {
	if ms < 0 || !finite(ms) {
		return fmt.Errorf("reverb delay range must be >= 0 ms and finite: %f", ms)
	}
	if p.prepared {
		params := p.params.snapshot()
		params.DelayMsRange = ms
		if err := p.checkCapacity(params, p.sampleRate); err != nil {
			return err
		}
	}
	p.params.store(paramDelayMsRange, ms)
	return nil
}

// SetWetProportion sets the dry/wet balance. Finite values are clamped to
// [0, 1].
func (p *Processor) SetWetProportion(wet float64) error {
	if !finite(wet) {
		return fmt.Errorf("reverb wet proportion must be finite: %f", wet)
	}
	if c := core.Clamp(wet, 0, 1); c != wet {
		reverbDebug("SetWetProportion: clamped %g to %g", wet, c)
		wet = c
	}
	p.params.store(paramWetProportion, wet)
	return nil
}

// SetDampingHz sets the feedback low-pass cutoff. Zero disables damping.
func (p *Processor) SetDampingHz(hz float64) error {
	if hz < 0 || !finite(hz) {
		return fmt.Errorf("reverb damping must be >= 0 Hz and finite: %f", hz)
	}
	p.params.store(paramDampingHz, hz)
	return nil
}

// Params returns the most recently published tunables.
func (p *Processor) Params() Params { return p.params.snapshot() }

// TailLengthSeconds estimates how long the output keeps ringing after the
// input stops: the time for the longest loop to decay by 60 dB plus the
// diffusion spread.
func (p *Processor) TailLengthSeconds() float64 {
	if !p.prepared {
		return 0
	}

	params := p.params.snapshot()
	g := clampDecayGain(params.DecayGain)
	longest := p.topology.LongestDelaySamples() / p.sampleRate
	tail := longest * 3 / -math.Log10(g)

	if p.cfg.topology == TopologyMatrix && p.cfg.diffusion {
		tail += params.DelayMsRange / 1000
	}
	return tail
}

// DroppedBlocks returns how many blocks were passed through untouched
// because they did not match the prepared layout.
func (p *Processor) DroppedBlocks() uint64 { return p.dropped.Load() }

// Topology returns the active reverb structure.
func (p *Processor) Topology() Topology { return p.topology }

// Lanes returns the internal lane count.
func (p *Processor) Lanes() int { return p.cfg.lanes }

// Channels returns the prepared host channel count.
func (p *Processor) Channels() int { return p.channels }

// SampleRate returns the prepared sample rate.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// MaxBlockSize returns the prepared maximum block size.
func (p *Processor) MaxBlockSize() int { return p.maxBlockSize }

// Prepared reports whether Prepare has succeeded.
func (p *Processor) Prepared() bool { return p.prepared }
