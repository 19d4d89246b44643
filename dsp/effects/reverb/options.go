package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fdnverb/dsp/interp"
	"github.com/cwbudde/algo-fdnverb/dsp/mixmatrix"
)

const (
	defaultDelayMs          = 150.0
	defaultDecayGain        = 0.85
	defaultDelayMsRange     = 50.0
	defaultWetProportion    = 0.8
	defaultSmoothingSeconds = 0.05
	defaultLanes            = 8
	defaultSeed             = 1
	defaultSampleRate       = 48000.0

	// MinDecayGain and MaxDecayGain bound the feedback gain applied at
	// runtime. MaxDecayGain keeps the loop strictly contractive.
	MinDecayGain = 1e-6
	MaxDecayGain = 0.9999

	maxLanes = 64
)

// TopologyKind selects the reverb structure built by a Processor.
type TopologyKind int

const (
	// TopologyMatrix runs diffusion followed by a Householder feedback network.
	TopologyMatrix TopologyKind = iota
	// TopologyDelayArray runs independent feedback delay lanes.
	TopologyDelayArray
)

func (k TopologyKind) String() string {
	switch k {
	case TopologyMatrix:
		return "matrix"
	case TopologyDelayArray:
		return "delay-array"
	default:
		return fmt.Sprintf("TopologyKind(%d)", int(k))
	}
}

// ParseTopologyKind maps a name produced by String back to its kind.
func ParseTopologyKind(name string) (TopologyKind, error) {
	switch name {
	case "matrix":
		return TopologyMatrix, nil
	case "delay-array", "array":
		return TopologyDelayArray, nil
	default:
		return 0, fmt.Errorf("reverb topology must be matrix or delay-array: %q", name)
	}
}

// Params are the tunables that may change while audio is running.
type Params struct {
	DelayMs       float64
	DecayGain     float64
	DelayMsRange  float64
	WetProportion float64
	DampingHz     float64
}

// Option mutates processor construction parameters.
type Option func(*config) error

type config struct {
	params           Params
	diffusion        bool
	timeVarying      bool
	seed             uint64
	topology         TopologyKind
	smoothingSeconds float64
	lanes            int
	interpolation    interp.Mode
}

func defaultConfig() config {
	return config{
		params: Params{
			DelayMs:       defaultDelayMs,
			DecayGain:     defaultDecayGain,
			DelayMsRange:  defaultDelayMsRange,
			WetProportion: defaultWetProportion,
		},
		diffusion:        true,
		timeVarying:      true,
		seed:             defaultSeed,
		topology:         TopologyMatrix,
		smoothingSeconds: defaultSmoothingSeconds,
		lanes:            defaultLanes,
		interpolation:    interp.ModeLinear,
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// WithDelayMs sets the base delay of the shortest lane in milliseconds.
func WithDelayMs(ms float64) Option {
	return func(cfg *config) error {
		if ms <= 0 || !finite(ms) {
			return fmt.Errorf("reverb delay must be > 0 ms and finite: %f", ms)
		}
		cfg.params.DelayMs = ms
		return nil
	}
}

// WithDecayGain sets the per-pass feedback gain in (0, 1).
func WithDecayGain(gain float64) Option {
	return func(cfg *config) error {
		if gain <= 0 || gain >= 1 || !finite(gain) {
			return fmt.Errorf("reverb decay gain must be in (0, 1): %f", gain)
		}
		cfg.params.DecayGain = gain
		return nil
	}
}

// WithDelayMsRange sets the diffusion jitter range in milliseconds.
func WithDelayMsRange(ms float64) Option {
	return func(cfg *config) error {
		if ms < 0 || !finite(ms) {
			return fmt.Errorf("reverb delay range must be >= 0 ms and finite: %f", ms)
		}
		cfg.params.DelayMsRange = ms
		return nil
	}
}

// WithWetProportion sets the dry/wet balance in [0, 1].
func WithWetProportion(wet float64) Option {
	return func(cfg *config) error {
		if wet < 0 || wet > 1 || !finite(wet) {
			return fmt.Errorf("reverb wet proportion must be in [0, 1]: %f", wet)
		}
		cfg.params.WetProportion = wet
		return nil
	}
}

// WithDampingHz sets the feedback low-pass cutoff. Zero disables damping.
func WithDampingHz(hz float64) Option {
	return func(cfg *config) error {
		if hz < 0 || !finite(hz) {
			return fmt.Errorf("reverb damping must be >= 0 Hz and finite: %f", hz)
		}
		cfg.params.DampingHz = hz
		return nil
	}
}

// WithDiffusion enables or disables the diffusion stage of TopologyMatrix.
func WithDiffusion(enabled bool) Option {
	return func(cfg *config) error {
		cfg.diffusion = enabled
		return nil
	}
}

// WithTimeVaryingDiffusion redraws diffusion delays every block when enabled.
// Otherwise they are drawn once per Reset or range change.
func WithTimeVaryingDiffusion(enabled bool) Option {
	return func(cfg *config) error {
		cfg.timeVarying = enabled
		return nil
	}
}

// WithSeed pins the diffusion random generator.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithTopology selects the reverb structure.
func WithTopology(kind TopologyKind) Option {
	return func(cfg *config) error {
		if kind != TopologyMatrix && kind != TopologyDelayArray {
			return fmt.Errorf("reverb topology is unknown: %v", kind)
		}
		cfg.topology = kind
		return nil
	}
}

// WithSmoothingSeconds sets the ramp time used for parameter changes.
func WithSmoothingSeconds(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || !finite(seconds) {
			return fmt.Errorf("reverb smoothing must be >= 0 s and finite: %f", seconds)
		}
		cfg.smoothingSeconds = seconds
		return nil
	}
}

// WithLanes sets the number of internal delay lanes. It must be a power of
// two so the Hadamard diffusion matrix exists.
func WithLanes(lanes int) Option {
	return func(cfg *config) error {
		if lanes < 2 || lanes > maxLanes || !mixmatrix.IsPowerOfTwo(lanes) {
			return fmt.Errorf("reverb lanes must be a power of two in [2, %d]: %d", maxLanes, lanes)
		}
		cfg.lanes = lanes
		return nil
	}
}

// WithInterpolation selects how the feedback lanes read between samples
// while their delays glide.
func WithInterpolation(mode interp.Mode) Option {
	return func(cfg *config) error {
		if mode != interp.ModeLinear && mode != interp.ModeHermite {
			return fmt.Errorf("reverb interpolation is unknown: %v", mode)
		}
		cfg.interpolation = mode
		return nil
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}
	return cfg, nil
}

// clampDecayGain maps any finite gain into [MinDecayGain, MaxDecayGain].
func clampDecayGain(g float64) float64 {
	if g < MinDecayGain {
		return MinDecayGain
	}
	if g > MaxDecayGain {
		return MaxDecayGain
	}
	return g
}

// laneDelaySamples returns the integer loop length of lane c for a base delay
// in samples, spread geometrically as base * 2^(c/lanes).
func laneDelaySamples(base float64, c, lanes int) float64 {
	return math.Floor(base * math.Exp2(float64(c)/float64(lanes)))
}
