// Command fdnverb runs audio through the multichannel FDN reverberator.
//
// Usage:
//
//	fdnverb [flags] input.(wav|flac) output.wav
//	fdnverb -impulse [flags] [output.wav]
//	fdnverb -jack [flags]
//
// The first form renders a file, appending the reverb tail. -impulse renders
// the impulse response, prints its decay report and optionally writes it.
// -jack runs a realtime JACK client; it needs a binary built with -tags jack.
// -play previews the result on the default audio device (-tags oto).
//
// Examples:
//
//	fdnverb -wet 0.3 dry.wav wet.wav
//	fdnverb -impulse -decay 0.9 -damping 6000
//	fdnverb -impulse -burst 20 -seconds 6 -play
//	fdnverb -impulse -tone 440 -burst 200 -interp hermite
//	fdnverb -impulse -topology delay-array -lanes 16 ir.wav
//	fdnverb -jack -name room
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-fdnverb/dsp/interp"
)

var cmdDebug = debuggo.Debug("fdnverb:cmd")

type settings struct {
	delayMs    float64
	decayGain  float64
	rangeMs    float64
	wet        float64
	dampingHz  float64
	topology   string
	interp     string
	lanes      int
	seed       uint64
	diffusion  bool
	static     bool
	smoothing  float64
	blockSize  int
	bits       int
	noTail     bool
	impulse    bool
	seconds    float64
	burstMs    float64
	toneHz     float64
	sampleRate int
	channels   int
	play       bool
	jack       bool
	clientName string
}

func main() {
	var s settings
	flag.Float64Var(&s.delayMs, "delay", 150, "base lane delay in ms")
	flag.Float64Var(&s.decayGain, "decay", 0.85, "per-pass feedback gain in (0, 1)")
	flag.Float64Var(&s.rangeMs, "range", 50, "diffuser spread in ms")
	flag.Float64Var(&s.wet, "wet", 0.8, "wet proportion in [0, 1]")
	flag.Float64Var(&s.dampingHz, "damping", 0, "feedback low-pass cutoff in Hz, 0 disables")
	flag.StringVar(&s.topology, "topology", "matrix", "network topology: matrix or delay-array")
	flag.StringVar(&s.interp, "interp", "linear", "fractional delay interpolation: linear or hermite")
	flag.IntVar(&s.lanes, "lanes", 8, "number of delay lanes, a power of two")
	flag.Uint64Var(&s.seed, "seed", 1, "random seed for the diffuser")
	flag.BoolVar(&s.diffusion, "diffusion", true, "enable the diffusion stage")
	flag.BoolVar(&s.static, "static", false, "draw diffuser offsets once instead of every block")
	flag.Float64Var(&s.smoothing, "smoothing", 0.05, "parameter ramp time in seconds")
	flag.IntVar(&s.blockSize, "block", 512, "processing block size in frames")
	flag.IntVar(&s.bits, "bits", 24, "output bit depth: 16, 24 or 32")
	flag.BoolVar(&s.noTail, "notail", false, "do not append the reverb tail")
	flag.BoolVar(&s.impulse, "impulse", false, "render and analyze the impulse response")
	flag.Float64Var(&s.seconds, "seconds", 4, "impulse response length in seconds")
	flag.Float64Var(&s.burstMs, "burst", 0, "excite -impulse with a noise burst of this many ms instead")
	flag.Float64Var(&s.toneHz, "tone", 0, "excite -impulse with a sine of this frequency in Hz, gated by -burst")
	flag.IntVar(&s.sampleRate, "sr", 48000, "sample rate for -impulse")
	flag.IntVar(&s.channels, "channels", 2, "channel count for -impulse and -jack")
	flag.BoolVar(&s.play, "play", false, "play the result on the default audio device (needs -tags oto)")
	flag.BoolVar(&s.jack, "jack", false, "run as a JACK client")
	flag.StringVar(&s.clientName, "name", "fdnverb", "JACK client name")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fdnverb [flags] input.(wav|flac) output.wav\n")
		fmt.Fprintf(os.Stderr, "       fdnverb -impulse [flags] [output.wav]\n")
		fmt.Fprintf(os.Stderr, "       fdnverb -jack [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Runs audio through a multichannel feedback delay network reverb.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(s, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(s settings, args []string, stdout io.Writer) error {
	opts, err := s.options()
	if err != nil {
		return err
	}

	switch {
	case s.jack:
		return runJack(s.clientName, s.channels, opts)
	case s.impulse:
		if len(args) > 1 {
			return fmt.Errorf("-impulse takes at most one output file, got %d args", len(args))
		}
		out := ""
		if len(args) == 1 {
			out = args[0]
		}
		return runImpulse(s, opts, out, stdout)
	default:
		if len(args) != 2 {
			return fmt.Errorf("need input and output files, got %d args", len(args))
		}
		return runFile(s, opts, args[0], args[1])
	}
}

func (s settings) options() ([]reverb.Option, error) {
	kind, err := reverb.ParseTopologyKind(s.topology)
	if err != nil {
		return nil, err
	}
	mode, err := interp.ParseMode(s.interp)
	if err != nil {
		return nil, err
	}
	return []reverb.Option{
		reverb.WithDelayMs(s.delayMs),
		reverb.WithDecayGain(s.decayGain),
		reverb.WithDelayMsRange(s.rangeMs),
		reverb.WithWetProportion(s.wet),
		reverb.WithDampingHz(s.dampingHz),
		reverb.WithTopology(kind),
		reverb.WithLanes(s.lanes),
		reverb.WithSeed(s.seed),
		reverb.WithDiffusion(s.diffusion),
		reverb.WithTimeVaryingDiffusion(!s.static),
		reverb.WithSmoothingSeconds(s.smoothing),
		reverb.WithInterpolation(mode),
	}, nil
}

func runFile(s settings, opts []reverb.Option, inPath, outPath string) error {
	in, err := readAudio(inPath)
	if err != nil {
		return err
	}

	p, err := reverb.New(opts...)
	if err != nil {
		return err
	}

	out, err := render(p, in, s.blockSize, !s.noTail)
	if err != nil {
		return err
	}
	if err := writeWAV(outPath, out, s.bits); err != nil {
		return err
	}
	if s.play {
		return play(out)
	}
	return nil
}

func runImpulse(s settings, opts []reverb.Option, outPath string, stdout io.Writer) error {
	p, err := reverb.New(opts...)
	if err != nil {
		return err
	}

	in, err := excitation(s.sampleRate, s.channels, s.seconds, s.burstMs, s.toneHz, s.seed)
	if err != nil {
		return err
	}
	resp, err := render(p, in, s.blockSize, false)
	if err != nil {
		return err
	}

	if err := writeReport(stdout, float64(s.sampleRate), mixdown(resp)); err != nil {
		return err
	}

	if outPath != "" {
		if err := writeWAV(outPath, resp, s.bits); err != nil {
			return err
		}
	}
	if s.play {
		return play(resp)
	}
	return nil
}
