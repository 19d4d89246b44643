package signal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-fdnverb/dsp/core"
)

// Generator creates deterministic test and excitation signals from a shared
// configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// SetSeed replaces the noise seed.
func (g *Generator) SetSeed(seed uint64) {
	g.seed = seed
}

// Impulse returns a Dirac impulse of the given amplitude at offset followed by zeros.
func (g *Generator) Impulse(amplitude float64, offset, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}
	if offset < 0 || offset >= samples {
		return nil, fmt.Errorf("impulse offset must be in [0,%d): %d", samples, offset)
	}
	out := make([]float64, samples)
	out[offset] = amplitude
	return out, nil
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// NoiseBurst generates burstSamples of white noise followed by silence, for
// exciting a reverb and then observing its tail.
func (g *Generator) NoiseBurst(amplitude float64, burstSamples, samples int) ([]float64, error) {
	if burstSamples <= 0 || burstSamples > samples {
		return nil, fmt.Errorf("noise burst length must be in (0,%d]: %d", samples, burstSamples)
	}
	burst, err := g.WhiteNoise(amplitude, burstSamples)
	if err != nil {
		return nil, err
	}
	out := make([]float64, samples)
	copy(out, burst)
	return out, nil
}
