package buffer_test

import (
	"fmt"

	"github.com/cwbudde/algo-fdnverb/dsp/buffer"
)

func ExamplePlanar() {
	p, err := buffer.NewPlanar(2, 4)
	if err != nil {
		panic(err)
	}
	block := p.Block(3)
	block[0][2] = 0.5
	fmt.Println(p.NumLanes(), len(block[1]), p.Lane(0))
	// Output: 2 3 [0 0 0.5 0]
}
