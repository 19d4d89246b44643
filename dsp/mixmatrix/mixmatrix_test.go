package mixmatrix

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fdnverb/internal/testutil"
)

func TestNewHadamardValidation(t *testing.T) {
	for _, size := range []int{0, -4, 3, 6, 12} {
		if _, err := NewHadamard(size); err == nil {
			t.Fatalf("NewHadamard(%d): expected error", size)
		}
	}

	_, err := NewHadamard(6)
	if !errors.Is(err, ErrNotPowerOfTwo) {
		t.Fatalf("NewHadamard(6) = %v, want ErrNotPowerOfTwo", err)
	}
}

func TestNewHouseholderValidation(t *testing.T) {
	if _, err := NewHouseholder(0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("NewHouseholder(0) = %v, want ErrInvalidSize", err)
	}
	if _, err := NewHouseholder(6); err != nil {
		t.Fatalf("NewHouseholder(6) = %v, want nil", err)
	}
}

func TestHadamardKnownVectors(t *testing.T) {
	h, err := NewHadamard(4)
	if err != nil {
		t.Fatal(err)
	}

	v := []float64{1, 0, 0, 0}
	h.InPlace(v)
	for i, x := range v {
		if math.Abs(x-0.5) > 1e-15 {
			t.Fatalf("v[%d] = %v, want 0.5", i, x)
		}
	}

	v = []float64{1, 1, 1, 1}
	h.InPlace(v)
	want := []float64{2, 0, 0, 0}
	for i := range v {
		if math.Abs(v[i]-want[i]) > 1e-15 {
			t.Fatalf("v[%d] = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestHadamardIsInvolution(t *testing.T) {
	h, err := NewHadamard(8)
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.DeterministicNoise(7, 1, 8)
	v := append([]float64(nil), in...)
	h.InPlace(v)
	h.InPlace(v)

	testutil.RequireSliceNearlyEqual(t, v, in, 1e-12)
}

func TestHouseholderKnownVector(t *testing.T) {
	h, err := NewHouseholder(4)
	if err != nil {
		t.Fatal(err)
	}

	v := []float64{1, 0, 0, 0}
	h.InPlace(v)

	want := []float64{0.5, -0.5, -0.5, -0.5}
	for i := range v {
		if math.Abs(v[i]-want[i]) > 1e-15 {
			t.Fatalf("v[%d] = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestEnergyPreservation(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8, 16, 32} {
		had, err := NewHadamard(size)
		if err != nil {
			t.Fatal(err)
		}
		hh, err := NewHouseholder(size)
		if err != nil {
			t.Fatal(err)
		}

		for seed := int64(1); seed <= 20; seed++ {
			in := testutil.DeterministicNoise(seed, 3, size)
			want := Energy(in)

			for _, tr := range []Transform{had, hh} {
				v := append([]float64(nil), in...)
				tr.InPlace(v)
				if got := Energy(v); math.Abs(got-want) > 1e-12*math.Max(1, want) {
					t.Fatalf("size %d seed %d %T: energy %v, want %v", size, seed, tr, got, want)
				}
			}
		}
	}
}

func TestHouseholderNonPowerOfTwoPreservesEnergy(t *testing.T) {
	h, err := NewHouseholder(6)
	if err != nil {
		t.Fatal(err)
	}

	v := []float64{0.3, -1, 2, 0.25, -0.75, 1.5}
	want := Energy(v)
	h.InPlace(v)
	if got := Energy(v); math.Abs(got-want) > 1e-12 {
		t.Fatalf("energy %v, want %v", got, want)
	}
}

func TestTransformsAreBitReproducible(t *testing.T) {
	had, _ := NewHadamard(8)
	hh, _ := NewHouseholder(8)
	in := testutil.DeterministicNoise(99, 1, 8)

	for _, tr := range []Transform{had, hh} {
		a := append([]float64(nil), in...)
		b := append([]float64(nil), in...)
		tr.InPlace(a)
		tr.InPlace(b)
		for i := range a {
			if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
				t.Fatalf("%T: index %d differs: %v vs %v", tr, i, a[i], b[i])
			}
		}
	}
}

func TestInPlacePanicsOnLengthMismatch(t *testing.T) {
	h, _ := NewHouseholder(4)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for short vector")
		}
	}()
	h.InPlace(make([]float64, 3))
}

func TestIsPowerOfTwo(t *testing.T) {
	for n, want := range map[int]bool{0: false, 1: true, 2: true, 3: false, 8: true, 12: false, 64: true, -8: false} {
		if got := IsPowerOfTwo(n); got != want {
			t.Fatalf("IsPowerOfTwo(%d) = %v, want %v", n, got, want)
		}
	}
}

func BenchmarkHadamard8(b *testing.B) {
	h, _ := NewHadamard(8)
	v := testutil.DeterministicNoise(1, 1, 8)
	b.ReportAllocs()
	for b.Loop() {
		h.InPlace(v)
	}
}

func BenchmarkHouseholder8(b *testing.B) {
	h, _ := NewHouseholder(8)
	v := testutil.DeterministicNoise(1, 1, 8)
	b.ReportAllocs()
	for b.Loop() {
		h.InPlace(v)
	}
}
