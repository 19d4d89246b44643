package main

import (
	"testing"

	"github.com/cwbudde/algo-fdnverb/dsp/effects/reverb"
)

func TestBlockHostCountsTruncatedFrames(t *testing.T) {
	proc, err := reverb.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h := newBlockHost(proc, 2)
	if err := h.resize(48000, 64); err != nil {
		t.Fatalf("resize: %v", err)
	}

	views := h.block(100)
	if len(views) != 2 || len(views[0]) != 64 {
		t.Fatalf("block(100) = %d x %d, want 2 x 64", len(views), len(views[0]))
	}
	if got := h.truncatedFrames(); got != 36 {
		t.Fatalf("truncatedFrames() = %d, want 36", got)
	}

	if err := h.resize(48000, 128); err != nil {
		t.Fatalf("resize: %v", err)
	}
	views = h.block(100)
	if len(views[0]) != 100 {
		t.Fatalf("block(100) after resize = %d frames, want 100", len(views[0]))
	}
	if got := h.truncatedFrames(); got != 36 {
		t.Fatalf("truncatedFrames() = %d, want 36 after resize", got)
	}
	if err := proc.ProcessChecked(views); err != nil {
		t.Fatalf("ProcessChecked after resize: %v", err)
	}
}

func TestBlockHostResizeRejectsBadLayout(t *testing.T) {
	proc, err := reverb.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := newBlockHost(proc, 3).resize(48000, 64); err == nil {
		t.Fatal("resize with 3 channels succeeded")
	}
}
