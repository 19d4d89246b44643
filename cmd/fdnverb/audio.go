package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/GeoffreyPlitt/debuggo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

var audioDebug = debuggo.Debug("fdnverb:audio")

var (
	errUnsupportedFormat   = errors.New("unsupported audio format")
	errUnsupportedBitDepth = errors.New("unsupported bit depth")
	errInvalidWAV          = errors.New("invalid WAV file")
)

// clip is decoded audio in planar float form, scaled to [-1, 1].
type clip struct {
	sampleRate int
	bitDepth   int
	data       [][]float64
}

func (c *clip) channels() int { return len(c.data) }

func (c *clip) frames() int {
	if len(c.data) == 0 {
		return 0
	}
	return len(c.data[0])
}

// fullScale returns the magnitude of the most negative sample at bits.
func fullScale(bits int) (float64, error) {
	switch bits {
	case 16, 24, 32:
		return float64(int64(1) << (bits - 1)), nil
	default:
		return 0, fmt.Errorf("%w: %d", errUnsupportedBitDepth, bits)
	}
}

func newClip(sampleRate, bits, channels, frames int) *clip {
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = make([]float64, frames)
	}
	return &clip{sampleRate: sampleRate, bitDepth: bits, data: data}
}

// readAudio decodes a WAV or FLAC file, chosen by extension.
func readAudio(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var c *clip
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		c, err = decodeWAV(f)
	case ".flac":
		c, err = decodeFLAC(f)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	audioDebug("Read %s: %d Hz, %d ch, %d bits, %d frames",
		path, c.sampleRate, c.channels(), c.bitDepth, c.frames())
	return c, nil
}

func decodeWAV(r io.ReadSeeker) (*clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	bits := int(dec.BitDepth)
	scale, err := fullScale(bits)
	if err != nil {
		return nil, err
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, errInvalidWAV
	}
	frames := len(buf.Data) / channels

	c := newClip(buf.Format.SampleRate, bits, channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			c.data[ch][i] = float64(buf.Data[i*channels+ch]) / scale
		}
	}
	return c, nil
}

func decodeFLAC(r io.Reader) (*clip, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	info := stream.Info
	bits := int(info.BitsPerSample)
	scale, err := fullScale(bits)
	if err != nil {
		return nil, err
	}

	channels := int(info.NChannels)
	c := &clip{sampleRate: int(info.SampleRate), bitDepth: bits, data: make([][]float64, channels)}
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for ch := 0; ch < channels; ch++ {
			for _, s := range frame.Subframes[ch].Samples {
				c.data[ch] = append(c.data[ch], float64(s)/scale)
			}
		}
	}
	return c, nil
}

// writeWAV encodes c as integer PCM at bits per sample. Samples outside
// [-1, 1] are clipped.
func writeWAV(path string, c *clip, bits int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encodeWAV(f, c, bits); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	audioDebug("Wrote %s: %d Hz, %d ch, %d bits, %d frames",
		path, c.sampleRate, c.channels(), bits, c.frames())
	return nil
}

func encodeWAV(w io.WriteSeeker, c *clip, bits int) error {
	scale, err := fullScale(bits)
	if err != nil {
		return err
	}

	channels := c.channels()
	frames := c.frames()
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = quantize(c.data[ch][i], scale)
		}
	}

	enc := wav.NewEncoder(w, c.sampleRate, bits, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: c.sampleRate},
		Data:           data,
		SourceBitDepth: bits,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func quantize(v, scale float64) int {
	q := math.Round(v * scale)
	if q >= scale {
		q = scale - 1
	}
	if q < -scale {
		q = -scale
	}
	return int(q)
}
