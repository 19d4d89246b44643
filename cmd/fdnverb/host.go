package main

import (
	"sync/atomic"

	"github.com/cwbudde/algo-fdnverb/dsp/buffer"
	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
)

// blockHost sits between a callback-driven audio server and the processor.
// It owns the scratch block the callback copies into and keeps both sized
// to the server's period.
type blockHost struct {
	proc     *reverb.Processor
	channels int
	scratch  *buffer.Planar

	truncated atomic.Uint64
}

func newBlockHost(proc *reverb.Processor, channels int) *blockHost {
	return &blockHost{proc: proc, channels: channels, scratch: &buffer.Planar{}}
}

// resize prepares the processor for a new period and resizes the scratch
// block. The reverb state is cleared. It must not run concurrently with
// block.
func (h *blockHost) resize(sampleRate float64, blockSize int) error {
	if err := h.proc.Prepare(sampleRate, blockSize, h.channels); err != nil {
		return err
	}
	if err := h.scratch.Resize(h.channels, blockSize); err != nil {
		return err
	}
	cmdDebug("Host sized to %d frames at %.0f Hz", blockSize, sampleRate)
	return nil
}

// block returns scratch views for n frames. Frames beyond the prepared size
// are cut off and counted in truncated.
func (h *blockHost) block(n int) [][]float64 {
	if limit := h.scratch.Len(); n > limit {
		h.truncated.Add(uint64(n - limit))
		n = limit
	}
	return h.scratch.Block(n)
}

// truncatedFrames returns how many frames were cut off so far.
func (h *blockHost) truncatedFrames() uint64 { return h.truncated.Load() }
