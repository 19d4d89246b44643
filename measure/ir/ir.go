package ir

import (
	"errors"
	"math"
)

// Errors returned by analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidWindow     = errors.New("ir: window must be positive")
	ErrInvalidBands      = errors.New("ir: band edges must be ascending and within Nyquist")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
	ErrSilent            = errors.New("ir: signal carries no energy")
)

// floorDB is reported for curve points with no remaining energy.
const floorDB = -200

// onsetRatio marks the onset as the first sample within 20 dB of the peak.
const onsetRatio = 0.1

// Report holds the decay metrics of one tail.
type Report struct {
	RT60       float64 // seconds, from T30 or T20
	EDT        float64 // seconds, 0 to -10 dB slope
	T20        float64 // seconds, -5 to -25 dB slope
	T30        float64 // seconds, -5 to -35 dB slope
	C80        float64 // dB
	D50        float64 // ratio in [0, 1]
	CenterTime float64 // seconds after onset
	OnsetIndex int     // first sample within 20 dB of the peak
	Energy     float64 // sum of squares from onset
}

// Analyzer computes decay metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an analyzer for signals at sampleRate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

func (a *Analyzer) check(x []float64) error {
	if len(x) == 0 {
		return ErrEmptyIR
	}
	if a.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	return nil
}

// Analyze measures x from its onset on. Reverb output usually starts with
// silence for the shortest loop delay; that lead-in is skipped.
func (a *Analyzer) Analyze(x []float64) (Report, error) {
	if err := a.check(x); err != nil {
		return Report{}, err
	}

	onset := Onset(x)
	tail := x[onset:]
	curve := energyDecayCurve(tail)
	if curve == nil {
		return Report{}, ErrSilent
	}

	early80, late80 := splitEnergy(tail, a.samples(80))
	early50, late50 := splitEnergy(tail, a.samples(50))

	r := Report{
		EDT:        a.decayTime(curve, 0, -10),
		T20:        a.decayTime(curve, -5, -25),
		T30:        a.decayTime(curve, -5, -35),
		C80:        ratioDB(early80, late80),
		D50:        early50 / (early50 + late50),
		CenterTime: a.centerTime(tail),
		OnsetIndex: onset,
		Energy:     early80 + late80,
	}

	r.RT60 = r.T30
	if r.RT60 == 0 {
		r.RT60 = r.T20
	}

	return r, nil
}

// RT60 returns T30, falling back to T20, measured from the onset of x.
func (a *Analyzer) RT60(x []float64) (float64, error) {
	if err := a.check(x); err != nil {
		return 0, err
	}

	curve := energyDecayCurve(x[Onset(x):])
	if curve == nil {
		return 0, ErrSilent
	}
	if rt := a.decayTime(curve, -5, -35); rt > 0 {
		return rt, nil
	}
	if rt := a.decayTime(curve, -5, -25); rt > 0 {
		return rt, nil
	}
	return 0, ErrNoDecay
}

// EnergyDecayCurve returns the backward-integrated energy of x in dB
// relative to its total energy:
//
//	S(n) = 10*log10( sum_{k>=n} x[k]^2 / sum_k x[k]^2 )
func (a *Analyzer) EnergyDecayCurve(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyIR
	}
	curve := energyDecayCurve(x)
	if curve == nil {
		return nil, ErrSilent
	}
	return curve, nil
}

// energyDecayCurve returns nil when x carries no energy.
func energyDecayCurve(x []float64) []float64 {
	curve := make([]float64, len(x))

	var acc float64
	for i := len(x) - 1; i >= 0; i-- {
		acc += x[i] * x[i]
		curve[i] = acc
	}

	total := curve[0]
	if total <= 0 {
		return nil
	}

	for i, e := range curve {
		if e <= 0 {
			curve[i] = floorDB
			continue
		}
		curve[i] = 10 * math.Log10(e/total)
	}

	return curve
}

// decayTime fits a line to curve between the first points at or below
// fromDB and toDB and extrapolates it to -60 dB. It returns 0 when the curve
// never reaches toDB or does not fall.
func (a *Analyzer) decayTime(curve []float64, fromDB, toDB float64) float64 {
	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= fromDB {
			start = i
		}
		if start >= 0 && v <= toDB {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	slope := fitSlope(curve[start : end+1])
	if slope >= 0 {
		return 0
	}

	return -60 / (slope * a.SampleRate)
}

// fitSlope returns the least-squares slope of y against its index.
func fitSlope(y []float64) float64 {
	n := float64(len(y))
	if n < 2 {
		return 0
	}

	var sx, sy, sxx, sxy float64
	for i, v := range y {
		x := float64(i)
		sx += x
		sy += v
		sxx += x * x
		sxy += x * v
	}

	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

// samples converts milliseconds to a sample count at the analyzer rate.
func (a *Analyzer) samples(ms float64) int {
	return int(math.Round(ms * 0.001 * a.SampleRate))
}

// splitEnergy returns the energy before and from boundary.
func splitEnergy(x []float64, boundary int) (early, late float64) {
	boundary = max(0, min(boundary, len(x)))
	for _, v := range x[:boundary] {
		early += v * v
	}
	for _, v := range x[boundary:] {
		late += v * v
	}
	return early, late
}

func ratioDB(num, den float64) float64 {
	switch {
	case den <= 0:
		return math.Inf(1)
	case num <= 0:
		return math.Inf(-1)
	default:
		return 10 * math.Log10(num/den)
	}
}

func (a *Analyzer) centerTime(x []float64) float64 {
	var num, den float64
	for i, v := range x {
		e := v * v
		num += float64(i) * e
		den += e
	}
	if den <= 0 {
		return 0
	}
	return num / den / a.SampleRate
}

// Onset returns the index of the first sample within 20 dB of the absolute
// peak of x, or 0 for silence.
func Onset(x []float64) int {
	var peak float64
	for _, v := range x {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return 0
	}

	threshold := peak * onsetRatio
	for i, v := range x {
		if math.Abs(v) >= threshold {
			return i
		}
	}
	return 0
}
