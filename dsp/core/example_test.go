package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-fdnverb/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
		core.WithChannels(1),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)

	// Output:
	// sampleRate=44100 blockSize=256 channels=1
}

func ExampleClamp() {
	fmt.Println(core.Clamp(1.2, 0, 0.9999))

	// Output:
	// 0.9999
}
