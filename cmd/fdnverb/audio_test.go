package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWAVRoundTrip(t *testing.T) {
	for _, bits := range []int{16, 24} {
		src := newClip(44100, bits, 2, 64)
		for i := range src.data[0] {
			src.data[0][i] = 0.5 * math.Sin(float64(i)/5)
			src.data[1][i] = -0.25 * math.Cos(float64(i)/7)
		}

		path := filepath.Join(t.TempDir(), "clip.wav")
		if err := writeWAV(path, src, bits); err != nil {
			t.Fatalf("bits=%d: writeWAV: %v", bits, err)
		}
		got, err := readAudio(path)
		if err != nil {
			t.Fatalf("bits=%d: readAudio: %v", bits, err)
		}

		if got.sampleRate != 44100 || got.channels() != 2 || got.frames() != 64 || got.bitDepth != bits {
			t.Fatalf("bits=%d: layout = %d Hz %d ch %d frames %d bits",
				bits, got.sampleRate, got.channels(), got.frames(), got.bitDepth)
		}

		tol := 1 / float64(int64(1)<<(bits-1))
		for ch := range src.data {
			for i, want := range src.data[ch] {
				if d := math.Abs(got.data[ch][i] - want); d > tol {
					t.Fatalf("bits=%d ch=%d i=%d: got %v want %v", bits, ch, i, got.data[ch][i], want)
				}
			}
		}
	}
}

func TestQuantizeClips(t *testing.T) {
	const scale = 32768
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.5, 16384},
		{1, 32767},
		{1.5, 32767},
		{-1, -32768},
		{-2, -32768},
	}
	for _, tt := range tests {
		if got := quantize(tt.in, scale); got != tt.want {
			t.Errorf("quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFullScaleRejectsOddDepths(t *testing.T) {
	for _, bits := range []int{0, 8, 12, 64} {
		if _, err := fullScale(bits); !errors.Is(err, errUnsupportedBitDepth) {
			t.Errorf("fullScale(%d) err = %v", bits, err)
		}
	}
}

func TestReadAudioRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ogg")
	if err := os.WriteFile(path, []byte("OggS"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readAudio(path); !errors.Is(err, errUnsupportedFormat) {
		t.Fatalf("err = %v, want errUnsupportedFormat", err)
	}
}

func TestReadAudioRejectsGarbageWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("definitely not a riff file"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readAudio(path); err == nil {
		t.Fatal("expected error for invalid WAV")
	}
}

func TestReadAudioRejectsGarbageFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.flac")
	if err := os.WriteFile(path, []byte("definitely not a flac stream"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readAudio(path); err == nil {
		t.Fatal("expected error for invalid FLAC")
	}
}
