package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func defaultSettings() settings {
	return settings{
		delayMs:    150,
		decayGain:  0.85,
		rangeMs:    50,
		wet:        0.8,
		topology:   "matrix",
		interp:     "linear",
		lanes:      8,
		seed:       1,
		diffusion:  true,
		smoothing:  0.05,
		blockSize:  512,
		bits:       24,
		seconds:    1,
		sampleRate: 48000,
		channels:   2,
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*settings)
	}{
		{"topology", func(s *settings) { s.topology = "spring" }},
		{"lanes", func(s *settings) { s.lanes = 6 }},
		{"decay", func(s *settings) { s.decayGain = 1 }},
		{"wet", func(s *settings) { s.wet = 2 }},
		{"delay", func(s *settings) { s.delayMs = 0 }},
		{"interp", func(s *settings) { s.interp = "cubic" }},
		{"tone", func(s *settings) { s.impulse = true; s.toneHz = 30000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := defaultSettings()
			tt.modify(&s)
			if err := run(s, nil, &bytes.Buffer{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunFileNeedsTwoArgs(t *testing.T) {
	if err := run(defaultSettings(), []string{"in.wav"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for missing output")
	}
}

func TestRunImpulseWritesReportAndFile(t *testing.T) {
	s := defaultSettings()
	s.impulse = true
	s.delayMs = 30
	s.seconds = 2

	dir := t.TempDir()
	irPath := filepath.Join(dir, "ir.wav")
	var stdout bytes.Buffer
	if err := run(s, []string{irPath}, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "RT60") {
		t.Fatalf("report missing RT60:\n%s", stdout.String())
	}

	resp, err := readAudio(irPath)
	if err != nil {
		t.Fatalf("readAudio: %v", err)
	}
	if resp.channels() != 2 || resp.frames() != 96000 {
		t.Fatalf("ir layout = %d ch %d frames", resp.channels(), resp.frames())
	}

	// Feed the rendered response back through the file path.
	s.impulse = false
	s.noTail = true
	outPath := filepath.Join(dir, "wet.wav")
	if err := run(s, []string{irPath, outPath}, &stdout); err != nil {
		t.Fatalf("run file: %v", err)
	}
	wet, err := readAudio(outPath)
	if err != nil {
		t.Fatalf("readAudio: %v", err)
	}
	if wet.frames() != 96000 {
		t.Fatalf("wet frames = %d, want 96000", wet.frames())
	}
}

func TestRunImpulseToneWithHermite(t *testing.T) {
	s := defaultSettings()
	s.impulse = true
	s.interp = "hermite"
	s.toneHz = 440
	s.burstMs = 100
	s.delayMs = 40

	var stdout bytes.Buffer
	if err := run(s, nil, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Band [Hz]") {
		t.Fatalf("report missing band table:\n%s", stdout.String())
	}
}
