package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-fdnverb/measure/ir"
)

// octaveEdges are the band edges of the octave table in Hz.
var octaveEdges = []float64{0, 125, 250, 500, 1000, 2000, 4000, 8000, 16000}

// tailFloor is the RMS level at which a tail counts as gone.
const tailFloor = 1e-4

// writeReport prints the decay metrics and octave energy shares of x.
func writeReport(w io.Writer, sampleRate float64, x []float64) error {
	a := ir.NewAnalyzer(sampleRate)

	rep, err := a.Analyze(x)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	ttf, err := a.TimeToFloor(x, tailFloor, 50)
	if err != nil {
		return fmt.Errorf("time to floor: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Metric\tValue\n")
	fmt.Fprintf(tw, "------\t-----\n")
	fmt.Fprintf(tw, "RT60\t%.3f s\n", rep.RT60)
	fmt.Fprintf(tw, "EDT\t%.3f s\n", rep.EDT)
	fmt.Fprintf(tw, "T20\t%.3f s\n", rep.T20)
	fmt.Fprintf(tw, "T30\t%.3f s\n", rep.T30)
	fmt.Fprintf(tw, "C80\t%.2f dB\n", rep.C80)
	fmt.Fprintf(tw, "D50\t%.3f\n", rep.D50)
	fmt.Fprintf(tw, "Center time\t%.3f s\n", rep.CenterTime)
	fmt.Fprintf(tw, "Onset\t%.2f ms\n", 1000*float64(rep.OnsetIndex)/sampleRate)
	fmt.Fprintf(tw, "Time to -80 dB\t%.3f s\n", ttf)
	if err := tw.Flush(); err != nil {
		return err
	}

	edges := bandEdges(sampleRate)
	bands, err := a.BandEnergy(x, edges)
	if err != nil {
		return fmt.Errorf("band energy: %w", err)
	}

	var total float64
	for _, e := range bands {
		total += e
	}

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nBand [Hz]\tShare\n")
	fmt.Fprintf(tw, "---------\t-----\n")
	for i, e := range bands {
		share := 0.0
		if total > 0 {
			share = e / total
		}
		fmt.Fprintf(tw, "%g-%g\t%.1f%%\n", edges[i], edges[i+1], 100*share)
	}
	return tw.Flush()
}

// bandEdges returns the octave edges below Nyquist, closed by Nyquist.
func bandEdges(sampleRate float64) []float64 {
	nyquist := sampleRate / 2
	edges := make([]float64, 0, len(octaveEdges)+1)
	for _, e := range octaveEdges {
		if e < nyquist {
			edges = append(edges, e)
		}
	}
	return append(edges, nyquist)
}
