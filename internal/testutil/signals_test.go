package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}

	c := DeterministicNoise(43, 1.0, 64)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}

	for i, v := range Impulse(4, 10) {
		if v != 0 {
			t.Fatalf("imp[%d] = %v, want all zeros for out-of-bounds pos", i, v)
		}
	}
}

func TestPlanarCopiesAreIndependent(t *testing.T) {
	p := Planar(2, []float64{1, 2})
	p[0][0] = 9
	if p[1][0] != 1 {
		t.Fatalf("channel 1 aliased channel 0: %v", p[1])
	}
	if z := Zeros(3, 4); len(z) != 3 || len(z[2]) != 4 {
		t.Fatalf("Zeros shape = %dx%d", len(z), len(z[2]))
	}
}

func TestEnergyAndRMS(t *testing.T) {
	if got := Energy([]float64{3, 4}); got != 25 {
		t.Fatalf("Energy = %v, want 25", got)
	}
	if got := RMS([]float64{2, -2, 2, -2}); got != 2 {
		t.Fatalf("RMS = %v, want 2", got)
	}
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}
}
