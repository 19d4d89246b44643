package main

import (
	"encoding/binary"
	"io"
	"math"
)

// pcmReader streams a clip as interleaved little-endian float32 frames.
type pcmReader struct {
	c     *clip
	frame int
	ch    int
}

func newPCMReader(c *clip) *pcmReader {
	return &pcmReader{c: c}
}

// Read fills p with whole samples; a trailing partial sample slot is left
// for the next call.
func (r *pcmReader) Read(p []byte) (int, error) {
	frames := r.c.frames()
	channels := r.c.channels()
	if r.frame >= frames || channels == 0 {
		return 0, io.EOF
	}

	n := 0
	for n+4 <= len(p) && r.frame < frames {
		v := float32(r.c.data[r.ch][r.frame])
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(v))
		n += 4

		r.ch++
		if r.ch == channels {
			r.ch = 0
			r.frame++
		}
	}
	return n, nil
}
