package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinear(t *testing.T) {
	if got := Linear(0.25, 2, 4); got != 2.5 {
		t.Fatalf("Linear(0.25, 2, 4) = %v, want 2.5", got)
	}
	if got := Linear(0, 0.3, 9); got != 0.3 {
		t.Fatalf("Linear(0, 0.3, 9) = %v, want exact x0", got)
	}
}

func TestModeTaps(t *testing.T) {
	if ModeLinear.Taps() != 2 || ModeHermite.Taps() != 4 {
		t.Fatalf("taps = %d/%d, want 2/4", ModeLinear.Taps(), ModeHermite.Taps())
	}
	if ModeHermite.String() != "hermite" {
		t.Fatalf("String() = %q", ModeHermite.String())
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeLinear, ModeHermite} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("ParseMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
	if _, err := ParseMode("cubic"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
