package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fdnverb/dsp/core"
	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-fdnverb/dsp/signal"
)

// render runs in through p block by block and returns the processed clip.
// With tail set, silence is appended for the processor's tail length so the
// reverb can ring out. p is prepared for in's layout.
func render(p *reverb.Processor, in *clip, blockSize int, tail bool) (*clip, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size must be positive: %d", blockSize)
	}
	if err := p.Prepare(float64(in.sampleRate), blockSize, in.channels()); err != nil {
		return nil, err
	}

	frames := in.frames()
	if tail {
		frames += int(math.Ceil(p.TailLengthSeconds() * float64(in.sampleRate)))
	}

	out := newClip(in.sampleRate, in.bitDepth, in.channels(), frames)
	for ch, src := range in.data {
		copy(out.data[ch], src)
	}

	views := make([][]float64, out.channels())
	for off := 0; off < frames; off += blockSize {
		end := min(off+blockSize, frames)
		for ch := range views {
			views[ch] = out.data[ch][off:end]
		}
		if err := p.ProcessChecked(views); err != nil {
			return nil, err
		}
	}

	cmdDebug("Rendered %d frames (%d input, %d tail)", frames, in.frames(), frames-in.frames())
	return out, nil
}

// excitation builds the test signal for impulse mode, seconds long: a unit
// impulse on every channel, or burstMs of white noise when burstMs > 0. With
// toneHz > 0 a sine replaces the noise, gated to burstMs when that is set.
// Burst channels use consecutive seeds so they are uncorrelated.
func excitation(sampleRate, channels int, seconds, burstMs, toneHz float64, seed uint64) (*clip, error) {
	frames := int(math.Ceil(seconds * float64(sampleRate)))
	if frames <= 0 {
		return nil, fmt.Errorf("excitation length must be positive: %v s", seconds)
	}
	if toneHz < 0 || toneHz >= float64(sampleRate)/2 {
		return nil, fmt.Errorf("tone must be in [0, %d) Hz: %v", sampleRate/2, toneHz)
	}

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(float64(sampleRate)), core.WithChannels(channels)},
		signal.WithSeed(seed),
	)
	burst := int(math.Round(core.MsToSamples(burstMs, float64(sampleRate))))

	c := &clip{sampleRate: sampleRate, bitDepth: 24, data: make([][]float64, channels)}
	for ch := range c.data {
		var (
			x   []float64
			err error
		)
		switch {
		case toneHz > 0:
			x, err = toneBurst(gen, toneHz, burst, frames)
		case burstMs > 0:
			gen.SetSeed(seed + uint64(ch))
			x, err = gen.NoiseBurst(0.5, burst, frames)
		default:
			x, err = gen.Impulse(1, 0, frames)
		}
		if err != nil {
			return nil, err
		}
		c.data[ch] = x
	}
	return c, nil
}

// toneBurst returns a half-scale sine of frames samples, silenced after
// burst samples when burst > 0.
func toneBurst(gen *signal.Generator, hz float64, burst, frames int) ([]float64, error) {
	if burst > frames {
		return nil, fmt.Errorf("tone burst length must be in (0,%d]: %d", frames, burst)
	}
	x, err := gen.Sine(hz, 0.5, frames)
	if err != nil {
		return nil, err
	}
	if burst > 0 {
		clear(x[burst:])
	}
	return x, nil
}

// mixdown averages the channels of c into one signal.
func mixdown(c *clip) []float64 {
	out := make([]float64, c.frames())
	if c.channels() == 0 {
		return out
	}
	scale := 1 / float64(c.channels())
	for _, ch := range c.data {
		for i, v := range ch {
			out[i] += v * scale
		}
	}
	return out
}
