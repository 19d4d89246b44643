package ir_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-fdnverb/measure/ir"
)

func renderImpulseTail(t *testing.T, seconds float64, opts ...reverb.Option) ([]float64, *reverb.Processor) {
	t.Helper()
	const sampleRate = 48000

	opts = append([]reverb.Option{reverb.WithWetProportion(1)}, opts...)
	p, err := reverb.New(opts...)
	if err != nil {
		t.Fatalf("reverb.New: %v", err)
	}
	if err := p.Prepare(sampleRate, 256, 1); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	out := make([]float64, int(seconds*sampleRate))
	out[0] = 1
	for off := 0; off < len(out); off += 256 {
		p.Process([][]float64{out[off:min(off+256, len(out))]})
	}
	return out, p
}

func TestReverbRT60WithinLoopBounds(t *testing.T) {
	const gain = 0.85
	tail, p := renderImpulseTail(t, 3, reverb.WithDelayMs(20), reverb.WithDecayGain(gain))

	rt, err := ir.NewAnalyzer(48000).RT60(tail)
	if err != nil {
		t.Fatalf("RT60: %v", err)
	}

	shortest := 0.02 * 3 / -math.Log10(gain)
	if rt < 0.7*shortest || rt > 1.1*p.TailLengthSeconds() {
		t.Fatalf("RT60 = %.3f s, want between %.3f and %.3f", rt, 0.7*shortest, 1.1*p.TailLengthSeconds())
	}
}

func TestReverbDampingDarkensTail(t *testing.T) {
	a := ir.NewAnalyzer(48000)
	ratio := func(opts ...reverb.Option) float64 {
		opts = append(opts, reverb.WithDelayMs(20), reverb.WithDecayGain(0.9))
		tail, _ := renderImpulseTail(t, 1, opts...)
		r, err := a.HighFrequencyRatio(tail[9600:], 4000)
		if err != nil {
			t.Fatalf("HighFrequencyRatio: %v", err)
		}
		return r
	}

	open := ratio()
	damped := ratio(reverb.WithDampingHz(2000))
	if !(damped < open/2) {
		t.Fatalf("high-frequency share damped=%.4f open=%.4f, want damped < open/2", damped, open)
	}
}

func TestReverbTailReachesFloor(t *testing.T) {
	tail, _ := renderImpulseTail(t, 4, reverb.WithDelayMs(30))

	got, err := ir.NewAnalyzer(48000).TimeToFloor(tail, 1e-4, 100)
	if err != nil {
		t.Fatalf("TimeToFloor: %v", err)
	}
	if got <= 0 || got >= 3.5 {
		t.Fatalf("tail falls below 1e-4 after %.2f s, want within (0, 3.5)", got)
	}
}
