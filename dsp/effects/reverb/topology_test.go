package reverb

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-fdnverb/dsp/delay"

	"github.com/cwbudde/algo-fdnverb/internal/testutil"
)

func TestNewTopologyKinds(t *testing.T) {
	tests := []struct {
		kind TopologyKind
		name string
	}{
		{TopologyMatrix, "matrix"},
		{TopologyDelayArray, "delay-array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, err := NewTopology(tt.kind, 8, 1, true, true, 0.05)
			if err != nil {
				t.Fatalf("NewTopology: %v", err)
			}
			if top.Kind() != tt.kind || top.Kind().String() != tt.name {
				t.Fatalf("Kind() = %v, want %v", top.Kind(), tt.kind)
			}
			if top.Lanes() != 8 {
				t.Fatalf("Lanes() = %d, want 8", top.Lanes())
			}
			parsed, err := ParseTopologyKind(tt.name)
			if err != nil || parsed != tt.kind {
				t.Fatalf("ParseTopologyKind(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}

	if _, err := NewTopology(TopologyKind(9), 8, 1, true, true, 0.05); err == nil {
		t.Fatal("expected error for unknown topology")
	}
	if _, err := ParseTopologyKind("plate"); err == nil {
		t.Fatal("expected error for unknown topology name")
	}
}

func TestTopologyCheckParams(t *testing.T) {
	over := float64(delay.MaxDelaySamples + 1)
	tests := []struct {
		name    string
		kind    TopologyKind
		diffuse bool
		params  LaneParams
		wantErr bool
	}{
		{"matrix fits", TopologyMatrix, true, LaneParams{BaseDelay: 7200, JitterSpan: 2400}, false},
		{"matrix longest lane", TopologyMatrix, true, LaneParams{BaseDelay: 120000}, true},
		{"matrix jitter span", TopologyMatrix, true, LaneParams{BaseDelay: 7200, JitterSpan: over}, true},
		{"matrix jitter ignored without diffusion", TopologyMatrix, false, LaneParams{BaseDelay: 7200, JitterSpan: over}, false},
		{"array longest lane", TopologyDelayArray, false, LaneParams{BaseDelay: 120000}, true},
		{"array ignores jitter", TopologyDelayArray, false, LaneParams{BaseDelay: 7200, JitterSpan: over}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, err := NewTopology(tt.kind, 8, 1, tt.diffuse, true, 0.05)
			if err != nil {
				t.Fatalf("NewTopology: %v", err)
			}
			err = top.CheckParams(tt.params)
			if tt.wantErr && !errors.Is(err, delay.ErrDelayExceedsCapacity) {
				t.Fatalf("CheckParams = %v, want ErrDelayExceedsCapacity", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("CheckParams: %v", err)
			}
		})
	}
}

func TestMatrixTopologyWithoutDiffusion(t *testing.T) {
	top, err := NewMatrixTopology(8, 1, false, false, 0.05)
	if err != nil {
		t.Fatalf("NewMatrixTopology: %v", err)
	}
	if top.Diffuser() != nil {
		t.Fatal("expected no diffuser")
	}
	if err := top.Prepare(48000, 64); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	top.SetParams(LaneParams{BaseDelay: 32, DecayGain: 0.5}, true)

	lanes := testutil.Zeros(8, 64)
	lanes[0][0] = 1
	top.Process(lanes, 64)

	if lanes[0][32] != 0.5 {
		t.Fatalf("first echo = %v, want 0.5", lanes[0][32])
	}
	for i := 0; i < 32; i++ {
		if lanes[0][i] != 0 {
			t.Fatalf("sample %d = %v before first echo", i, lanes[0][i])
		}
	}
}

func TestDelayArrayTopologyEchoes(t *testing.T) {
	top, err := NewDelayArrayTopology(4, 0.05)
	if err != nil {
		t.Fatalf("NewDelayArrayTopology: %v", err)
	}
	if err := top.Prepare(48000, 128); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	top.SetParams(LaneParams{BaseDelay: 20, DecayGain: 0.5}, true)

	lanes := testutil.Zeros(4, 128)
	lanes[0][0] = 1
	top.Process(lanes, 128)

	want := map[int]float64{20: 1, 40: 0.5, 60: 0.25, 80: 0.125, 100: 0.0625, 120: 0.03125}
	for i, v := range lanes[0] {
		if v != want[i] {
			t.Fatalf("lane 0 sample %d = %v, want %v", i, v, want[i])
		}
	}
	for c := 1; c < 4; c++ {
		for i, v := range lanes[c] {
			if v != 0 {
				t.Fatalf("lane %d sample %d = %v, lanes must stay independent", c, i, v)
			}
		}
	}
}

func TestDelayArrayTopologyDecays(t *testing.T) {
	top, err := NewDelayArrayTopology(8, 0.05)
	if err != nil {
		t.Fatalf("NewDelayArrayTopology: %v", err)
	}
	if err := top.Prepare(48000, 256); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	top.SetParams(LaneParams{BaseDelay: 480, DecayGain: 0.85, DampingHz: 4000}, true)

	lanes := testutil.Zeros(8, 256)
	for c := range lanes {
		lanes[c][0] = 1
	}
	top.Process(lanes, 256)
	for c := range lanes {
		clear(lanes[c])
	}

	prev := top.StoredEnergy()
	for block := 0; block < 400; block++ {
		top.Process(lanes, 256)
		for c := range lanes {
			clear(lanes[c])
		}
	}
	if e := top.StoredEnergy(); !(e < prev*1e-6) {
		t.Fatalf("stored energy %g did not decay from %g", e, prev)
	}
}
