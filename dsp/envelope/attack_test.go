package envelope

import (
	"math"
	"testing"
)

func TestAttackGainLength(t *testing.T) {
	for _, n := range []int{1, 5, 23, 24, 25, 100, 1000} {
		if got := len(AttackGain(n, 2)); got != n {
			t.Errorf("len(AttackGain(%d)) = %d", n, got)
		}
	}
	if got := AttackGain(0, 2); len(got) != 0 {
		t.Errorf("AttackGain(0) = %v, want empty", got)
	}
	if got := AttackGain(-3, 2); len(got) != 0 {
		t.Errorf("AttackGain(-3) = %v, want empty", got)
	}
}

func TestAttackGainDeterministic(t *testing.T) {
	a := AttackGain(24, 0)
	b := AttackGain(24, 0)
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("index %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestAttackGainLinearForZeroProfile(t *testing.T) {
	// p = 0 keeps the interpolation state at zero, leaving the ramp j/n.
	got := AttackGain(24, 0)
	for j, v := range got {
		want := float64(j) / 24
		if math.Abs(v-want) > 1e-15 {
			t.Errorf("index %d: got %v, want %v", j, v, want)
		}
	}
}

func TestAttackGainBoundedAndRising(t *testing.T) {
	for _, p := range []float64{-1.4, -0.5, 0, 0.5, 2, 5, 10} {
		g := AttackGain(240, p)
		if g[0] != 0 {
			t.Errorf("p=%v: first sample = %v, want 0", p, g[0])
		}
		for i, v := range g {
			// Steep profiles overshoot before settling back towards 1.
			if math.IsNaN(v) || v < -0.01 || v > 4 {
				t.Fatalf("p=%v: sample %d = %v out of envelope range", p, i, v)
			}
		}
		if last := g[len(g)-1]; math.Abs(last-1) > 0.05 {
			t.Errorf("p=%v: last sample = %v, want close to 1", p, last)
		}
	}
}

func TestAttackGainSteeperForLargerProfile(t *testing.T) {
	soft := AttackGain(120, 0.5)
	hard := AttackGain(120, 4)
	var sumSoft, sumHard float64
	for i := range soft {
		sumSoft += soft[i]
		sumHard += hard[i]
	}
	if sumHard <= sumSoft {
		t.Errorf("area p=4 (%v) should exceed area p=0.5 (%v)", sumHard, sumSoft)
	}

	swell := AttackGain(120, -1)
	linear := AttackGain(120, 0)
	if swell[60] >= linear[60] {
		t.Errorf("negative profile should lag the linear ramp: %v >= %v", swell[60], linear[60])
	}
}

func TestAttackGainShortSegments(t *testing.T) {
	// Fewer samples than segments leaves some segments empty.
	g := AttackGain(5, 3)
	if len(g) != 5 {
		t.Fatalf("len = %d, want 5", len(g))
	}
	for i, v := range g {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite %v", i, v)
		}
	}
}

func TestScaled(t *testing.T) {
	base := AttackGain(48, 1.5)
	buf := make([]float64, 0, 64)
	got := Scaled(buf, 48, 1.5, 0.25)
	if len(got) != 48 {
		t.Fatalf("len = %d, want 48", len(got))
	}
	if &got[0] != &buf[:1][0] {
		t.Error("Scaled did not reuse dst")
	}
	for i := range got {
		if math.Abs(got[i]-0.25*base[i]) > 1e-15 {
			t.Fatalf("index %d: got %v, want %v", i, got[i], 0.25*base[i])
		}
	}

	if got := Scaled(nil, 0, 1, 1); len(got) != 0 {
		t.Errorf("Scaled(n=0) len = %d", len(got))
	}
}
