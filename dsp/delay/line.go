package delay

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fdnverb/dsp/core"
	"github.com/cwbudde/algo-fdnverb/dsp/interp"
)

// MaxDelaySamples is the default per-channel capacity (4 s at 48 kHz).
const MaxDelaySamples = 192000

// guardSamples pads each ring so interpolation taps and scattered writes never
// touch the slot currently addressed by the cursor.
const guardSamples = 3

// Errors returned by delay-line configuration.
var (
	ErrNotPrepared          = errors.New("delay: line is not prepared")
	ErrChannelOutOfRange    = errors.New("delay: channel out of range")
	ErrDelayExceedsCapacity = errors.New("delay: requested delay exceeds capacity")
	ErrInvalidDelay         = errors.New("delay: delay must be >= 0 and finite")
)

// Option configures a MultiLine.
type Option func(*MultiLine)

// WithMode selects the fractional read algorithm.
func WithMode(mode interp.Mode) Option {
	return func(d *MultiLine) {
		d.mode = mode
	}
}

// MultiLine is a set of equally sized circular delay lines, one per channel.
//
// The cursor of each channel addresses the most recently pushed sample, so
// PopSample(ch, 0) after PushSample returns the sample just written and an
// integer delay D returns the sample pushed D calls earlier.
type MultiLine struct {
	capacity int
	mode     interp.Mode

	sampleRate   float64
	maxBlockSize int

	size    int
	data    []float64
	rings   [][]float64
	cursors []int
	delays  []float64
}

// NewMulti returns an unprepared multi-channel line whose channels can each
// hold up to capacity samples of delay.
func NewMulti(capacity int, opts ...Option) (*MultiLine, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("delay capacity must be > 0: %d", capacity)
	}

	d := &MultiLine{capacity: capacity, mode: interp.ModeLinear}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d, nil
}

// Prepare sizes one ring per channel and clears all state. It is the only
// method that allocates and may be called again after a configuration change.
func (d *MultiLine) Prepare(sampleRate float64, maxBlockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: maxBlockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("delay prepare: %w", err)
	}

	d.sampleRate = sampleRate
	d.maxBlockSize = maxBlockSize
	d.size = d.capacity + guardSamples

	need := d.size * channels
	if cap(d.data) >= need {
		d.data = d.data[:need]
	} else {
		d.data = make([]float64, need)
	}

	if cap(d.rings) >= channels {
		d.rings = d.rings[:channels]
	} else {
		d.rings = make([][]float64, channels)
	}

	for ch := range d.rings {
		d.rings[ch] = d.data[ch*d.size : (ch+1)*d.size]
	}

	if cap(d.cursors) >= channels {
		d.cursors = d.cursors[:channels]
		d.delays = d.delays[:channels]
	} else {
		d.cursors = make([]int, channels)
		d.delays = make([]float64, channels)
	}

	for ch := range d.delays {
		d.delays[ch] = 0
	}

	d.Reset()

	return nil
}

// Reset zero-fills every ring and rewinds the cursors. Delay settings are kept.
func (d *MultiLine) Reset() {
	core.Zero(d.data)
	for ch := range d.cursors {
		d.cursors[ch] = 0
	}
}

// Channels returns the prepared channel count.
func (d *MultiLine) Channels() int { return len(d.rings) }

// Capacity returns the largest supported delay in samples.
func (d *MultiLine) Capacity() int { return d.capacity }

// SampleRate returns the prepared sample rate in Hz.
func (d *MultiLine) SampleRate() float64 { return d.sampleRate }

// MaxBlockSize returns the prepared maximum block size.
func (d *MultiLine) MaxBlockSize() int { return d.maxBlockSize }

// Mode returns the fractional read algorithm.
func (d *MultiLine) Mode() interp.Mode { return d.mode }

// SetDelay stores the delay used by Pop for channel ch. It takes effect on the
// next push/pop pair.
func (d *MultiLine) SetDelay(ch int, samples float64) error {
	if len(d.rings) == 0 {
		return ErrNotPrepared
	}
	if ch < 0 || ch >= len(d.rings) {
		return fmt.Errorf("%w: %d of %d", ErrChannelOutOfRange, ch, len(d.rings))
	}
	if err := d.CheckDelay(samples); err != nil {
		return err
	}

	d.delays[ch] = samples

	return nil
}

// CheckDelay reports whether samples fits the line without storing it. It
// needs no prepared state, so callers can validate settings up front.
func (d *MultiLine) CheckDelay(samples float64) error {
	if samples < 0 || !core.IsFinite(samples) {
		return fmt.Errorf("%w: %f", ErrInvalidDelay, samples)
	}
	if samples > float64(d.capacity) {
		return fmt.Errorf("%w: %f > %d", ErrDelayExceedsCapacity, samples, d.capacity)
	}
	return nil
}

// Delay returns the stored delay of channel ch in samples.
func (d *MultiLine) Delay(ch int) float64 { return d.delays[ch] }

// PushSample advances the cursor of channel ch and writes value there.
func (d *MultiLine) PushSample(ch int, value float64) {
	pos := d.cursors[ch] + 1
	if pos >= d.size {
		pos = 0
	}
	d.cursors[ch] = pos
	d.rings[ch][pos] = value
}

// Pop reads channel ch at its stored delay.
func (d *MultiLine) Pop(ch int) float64 {
	return d.PopSample(ch, d.delays[ch])
}

// PopSample reads channel ch delaySamples behind the cursor, interpolating
// between the neighbouring integer taps. Out-of-range delays are clamped to
// [0, Capacity()].
func (d *MultiLine) PopSample(ch int, delaySamples float64) float64 {
	if delaySamples < 0 {
		delaySamples = 0
	}
	if delaySamples > float64(d.capacity) {
		delaySamples = float64(d.capacity)
	}

	p := int(delaySamples)
	t := delaySamples - float64(p)

	ring := d.rings[ch]
	cursor := d.cursors[ch]
	x0 := ring[d.wrap(cursor-p)]

	if t == 0 {
		return x0
	}

	x1 := ring[d.wrap(cursor-p-1)]
	if d.mode == interp.ModeHermite {
		xm1 := x0
		if p > 0 {
			xm1 = ring[d.wrap(cursor-p+1)]
		}
		x2 := ring[d.wrap(cursor-p-2)]

		return interp.Hermite4(t, xm1, x0, x1, x2)
	}

	return interp.Linear(t, x0, x1)
}

// ScatterSample accumulates value delaySamples ahead of the read cursor of
// channel ch. A fractional delay splits the value across the two nearest
// slots. Delays are clamped to [0, Capacity()].
func (d *MultiLine) ScatterSample(ch int, delaySamples, value float64) {
	if delaySamples < 0 {
		delaySamples = 0
	}
	if delaySamples > float64(d.capacity) {
		delaySamples = float64(d.capacity)
	}

	p := int(delaySamples)
	t := delaySamples - float64(p)

	ring := d.rings[ch]
	base := d.cursors[ch] + 1 + p

	if t == 0 {
		ring[d.wrap(base)] += value
		return
	}

	ring[d.wrap(base)] += value * (1 - t)
	ring[d.wrap(base+1)] += value * t
}

// PullSample advances the cursor of channel ch, returns the accumulated slot
// and clears it for reuse.
func (d *MultiLine) PullSample(ch int) float64 {
	pos := d.cursors[ch] + 1
	if pos >= d.size {
		pos = 0
	}
	d.cursors[ch] = pos

	ring := d.rings[ch]
	y := ring[pos]
	ring[pos] = 0

	return y
}

// Energy returns the sum of squares of the newest span samples of channel ch.
// It walks the ring and is meant for diagnostics, not the audio thread.
func (d *MultiLine) Energy(ch, span int) float64 {
	if span > d.size {
		span = d.size
	}

	ring := d.rings[ch]
	cursor := d.cursors[ch]

	var e float64
	for k := 0; k < span; k++ {
		v := ring[d.wrap(cursor-k)]
		e += v * v
	}

	return e
}

func (d *MultiLine) wrap(i int) int {
	i %= d.size
	if i < 0 {
		i += d.size
	}
	return i
}
