package testutil

import (
	"os"
	"testing"
)

func TestSpearFileString(t *testing.T) {
	f := SpearFile{
		Partials: 2,
		Frames: []Frame{
			{Time: 0, Points: []Point{{Index: 0, Freq: 440, Amp: 0.5}}},
			{Time: 0.01},
		},
	}

	want := "par-text-frame-format\n" +
		"point-type index frequency amplitude\n" +
		"partials-count 2\n" +
		"frame-count 2\n" +
		"frame-data\n" +
		"0 1 0 440 0.5\n" +
		"0.01 0\n"
	if got := f.String(); got != want {
		t.Fatalf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestSpearFileFrameCountOverride(t *testing.T) {
	f := SpearFile{Partials: 1, FrameCount: 3, Frames: []Frame{{Time: 0}}}
	path := f.WriteTemp(t, "short.txt")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); got != f.String() {
		t.Fatalf("file content mismatch:\n%s", got)
	}
}

func TestPluckedLevel(t *testing.T) {
	lev := PluckedLevel(120)
	RequireFinite(t, lev)
	RequireNear(t, "lev[10]", lev[10], 1.5, 1e-12)
	RequireNear(t, "lev[30]", lev[30], 1.0, 1e-12)
	RequireNear(t, "lev[35]", lev[35], 1.05, 1e-12)
}

func TestHarmonic(t *testing.T) {
	time := FrameTimes(3, 0.5)
	f := Harmonic(time, []float64{100, 200}, [][]float64{Constant(1, 3), Ramp(2, 3)})
	if len(f.Frames) != 3 || len(f.Frames[2].Points) != 2 {
		t.Fatalf("unexpected layout: %+v", f)
	}
	RequireNear(t, "amp", f.Frames[2].Points[1].Amp, 2, 0)
	RequireNear(t, "time", f.Frames[1].Time, 0.5, 0)
}
