package core

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors shared by prepare-time validation.
var (
	ErrInvalidSampleRate = errors.New("core: sample rate must be > 0 and finite")
	ErrInvalidBlockSize  = errors.New("core: block size must be > 0")
	ErrInvalidChannels   = errors.New("core: channel count must be > 0")
)

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  512,
		Channels:   2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the maximum processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithChannels sets the host channel count.
func WithChannels(channels int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if channels > 0 {
			cfg.Channels = channels
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports the first invalid field of cfg.
func (cfg ProcessorConfig) Validate() error {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, cfg.BlockSize)
	}
	if cfg.Channels <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, cfg.Channels)
	}
	return nil
}
