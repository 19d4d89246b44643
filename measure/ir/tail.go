package ir

import "math"

// WindowRMS returns the RMS of consecutive non-overlapping windows of x. A
// trailing partial window is included.
func WindowRMS(x []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	if len(x) == 0 {
		return nil, ErrEmptyIR
	}

	out := make([]float64, 0, (len(x)+window-1)/window)
	for start := 0; start < len(x); start += window {
		seg := x[start:min(start+window, len(x))]
		var e float64
		for _, v := range seg {
			e += v * v
		}
		out = append(out, math.Sqrt(e/float64(len(seg))))
	}
	return out, nil
}

// TimeToFloor returns the time in seconds at which the RMS envelope of x,
// measured in windowMs windows, drops below floor for good. It returns 0 if
// x never exceeds floor and the full duration if the last window is still
// above it.
func (a *Analyzer) TimeToFloor(x []float64, floor, windowMs float64) (float64, error) {
	if err := a.check(x); err != nil {
		return 0, err
	}

	window := a.samples(windowMs)
	env, err := WindowRMS(x, window)
	if err != nil {
		return 0, err
	}

	last := -1
	for i, v := range env {
		if v >= floor {
			last = i
		}
	}
	if last < 0 {
		return 0, nil
	}

	end := min((last+1)*window, len(x))
	return float64(end) / a.SampleRate, nil
}

// DecayRate returns the slope of the RMS envelope in dB per second, fitted
// over the windows whose level is at least floor. Negative values mean the
// signal is decaying.
func (a *Analyzer) DecayRate(x []float64, floor, windowMs float64) (float64, error) {
	if err := a.check(x); err != nil {
		return 0, err
	}

	window := a.samples(windowMs)
	env, err := WindowRMS(x, window)
	if err != nil {
		return 0, err
	}

	start := 0
	for start < len(env) && env[start] < floor {
		start++
	}
	end := start
	for end < len(env) && env[end] >= floor {
		end++
	}
	if end-start < 2 {
		return 0, ErrNoDecay
	}

	levels := make([]float64, end-start)
	for i, v := range env[start:end] {
		levels[i] = 20 * math.Log10(v)
	}

	windowsPerSecond := a.SampleRate / float64(window)
	return fitSlope(levels) * windowsPerSecond, nil
}
