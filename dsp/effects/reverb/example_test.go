package reverb_test

import (
	"fmt"

	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
)

func ExampleProcessor() {
	p, err := reverb.New(
		reverb.WithDelayMs(150),
		reverb.WithDecayGain(0.85),
		reverb.WithWetProportion(0.8),
		reverb.WithSeed(1),
	)
	if err != nil {
		panic(err)
	}
	if err := p.Prepare(48000, 4, 1); err != nil {
		panic(err)
	}

	block := [][]float64{{1, 0, 0, 0}}
	p.Process(block)

	fmt.Printf("%.3f %.3f %.3f %.3f\n", block[0][0], block[0][1], block[0][2], block[0][3])
	fmt.Printf("tail %.2fs\n", p.TailLengthSeconds())
	// Output:
	// 0.200 0.000 0.000 0.000
	// tail 11.74s
}

func ExampleProcessor_ProcessChecked() {
	p, err := reverb.New()
	if err != nil {
		panic(err)
	}
	if err := p.Prepare(48000, 64, 2); err != nil {
		panic(err)
	}

	err = p.ProcessChecked([][]float64{make([]float64, 64)})
	fmt.Println(err)
	fmt.Println(p.DroppedBlocks())
	// Output:
	// reverb: channel count differs from prepared layout: got 1 channels, prepared 2
	// 1
}
