package reverb

import (
	"testing"

	"github.com/cwbudde/algo-fdnverb/internal/testutil"
)

func TestNewRouterValidation(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		lanes    int
	}{
		{"zero channels", 0, 8},
		{"zero lanes", 2, 0},
		{"lanes not multiple", 3, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRouter(tt.channels, tt.lanes); err == nil {
				t.Fatalf("NewRouter(%d, %d) succeeded, want error", tt.channels, tt.lanes)
			}
		})
	}
}

func TestRouterStereoAlternatesLanes(t *testing.T) {
	r, err := NewRouter(2, 8)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	for c := 0; c < 8; c++ {
		if got, want := r.HostChannel(c), c%2; got != want {
			t.Fatalf("HostChannel(%d) = %d, want %d", c, got, want)
		}
	}

	host := [][]float64{{1, 2, 3}, {-1, -2, -3}}
	lanes := testutil.Zeros(8, 3)
	r.FanOut(host, lanes, 3)
	for c, lane := range lanes {
		testutil.RequireSliceNearlyEqual(t, lane, host[c%2], 0)
	}
}

func TestRouterRoundTripPreservesLevel(t *testing.T) {
	for _, channels := range []int{1, 2} {
		r, err := NewRouter(channels, 8)
		if err != nil {
			t.Fatalf("NewRouter: %v", err)
		}

		host := make([][]float64, channels)
		for ch := range host {
			host[ch] = testutil.DeterministicNoise(int64(ch+1), 1, 64)
		}
		lanes := testutil.Zeros(8, 64)
		out := testutil.Zeros(channels, 64)

		r.FanOut(host, lanes, 64)
		r.FoldBack(lanes, out, 64)

		for ch := range host {
			testutil.RequireSliceNearlyEqual(t, out[ch], host[ch], 1e-12)
		}
	}
}

func TestRouterFoldBackMono(t *testing.T) {
	r, err := NewRouter(1, 8)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	if r.FoldScale() != 1.0/8 {
		t.Fatalf("FoldScale() = %v, want 1/8", r.FoldScale())
	}

	lanes := testutil.Zeros(8, 2)
	for c := range lanes {
		lanes[c][0] = float64(c)
	}
	out := [][]float64{{99, 99}}
	r.FoldBack(lanes, out, 2)

	if out[0][0] != 28.0/8 || out[0][1] != 0 {
		t.Fatalf("FoldBack = %v, want [3.5 0]", out[0])
	}
}
