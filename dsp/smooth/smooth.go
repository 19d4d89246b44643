// Package smooth provides click-free parameter ramps for audio-rate use.
package smooth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fdnverb/dsp/core"
)

// Linear ramps from its current value to a target in a fixed number of
// samples. A new target restarts the ramp from wherever the value is.
//
// The zero value holds 0 and jumps to new targets immediately until Reset
// configures a ramp length.
type Linear struct {
	current   float64
	target    float64
	step      float64
	countdown int
	steps     int
}

// Reset sets the ramp length to rampSeconds at sampleRate and snaps the
// current value to the target.
func (l *Linear) Reset(sampleRate, rampSeconds float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("smooth sample rate must be > 0: %f", sampleRate)
	}
	if rampSeconds < 0 || !core.IsFinite(rampSeconds) {
		return fmt.Errorf("smooth ramp length must be >= 0: %f", rampSeconds)
	}

	l.steps = int(math.Floor(rampSeconds * sampleRate))
	l.SetCurrentAndTarget(l.target)

	return nil
}

// SetCurrentAndTarget jumps to v without ramping.
func (l *Linear) SetCurrentAndTarget(v float64) {
	l.current = v
	l.target = v
	l.step = 0
	l.countdown = 0
}

// SetTarget starts a ramp towards v. Repeating the current target is a no-op.
func (l *Linear) SetTarget(v float64) {
	if v == l.target {
		return
	}

	if l.steps <= 0 {
		l.SetCurrentAndTarget(v)
		return
	}

	l.target = v
	l.countdown = l.steps
	l.step = (l.target - l.current) / float64(l.countdown)
}

// Next advances one sample and returns the new value.
func (l *Linear) Next() float64 {
	if l.countdown <= 0 {
		return l.target
	}

	l.countdown--
	if l.countdown == 0 {
		l.current = l.target
	} else {
		l.current += l.step
	}

	return l.current
}

// Skip advances n samples at once and returns the resulting value.
func (l *Linear) Skip(n int) float64 {
	if n <= 0 || l.countdown <= 0 {
		return l.current
	}

	if n >= l.countdown {
		l.SetCurrentAndTarget(l.target)
		return l.current
	}

	l.current += l.step * float64(n)
	l.countdown -= n

	return l.current
}

// Current returns the value most recently produced.
func (l *Linear) Current() float64 { return l.current }

// Target returns the value the ramp is heading to.
func (l *Linear) Target() float64 { return l.target }

// IsSmoothing reports whether a ramp is in progress.
func (l *Linear) IsSmoothing() bool { return l.countdown > 0 }

// Steps returns the ramp length in samples.
func (l *Linear) Steps() int { return l.steps }
