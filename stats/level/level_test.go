package level

import (
	"math"
	"testing"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestMedian(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{[]float64{1, 2, 3}, 2},
		{[]float64{1, 2, 3, 4}, 2.5},
		{[]float64{3, 1, 2}, 2},
		{[]float64{4, 1, 3, 2}, 2.5},
		{[]float64{7}, 7},
		{[]float64{0, 0, 0, 5}, 0},
		{nil, 0},
	}
	for _, tc := range tests {
		if got := Median(tc.in); !almostEqual(got, tc.want, tolerance) {
			t.Errorf("Median(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMedianDoesNotSortInput(t *testing.T) {
	x := []float64{3, 1, 2}
	Median(x)
	if x[0] != 3 || x[1] != 1 || x[2] != 2 {
		t.Errorf("input modified: %v", x)
	}
}

func TestFrequencyIncludeAbsent(t *testing.T) {
	freq := []float64{100, 0, 120, 110}
	present := []bool{true, false, true, true}

	r := Frequency(freq, present, RangeIncludeAbsent)
	if r.Lowest != 0 {
		t.Errorf("Lowest = %v, want 0 (zero-fill participates)", r.Lowest)
	}
	if r.Highest != 120 {
		t.Errorf("Highest = %v, want 120", r.Highest)
	}
	if !almostEqual(r.Mean, 110, tolerance) {
		t.Errorf("Mean = %v, want 110", r.Mean)
	}
	if r.Count != 3 {
		t.Errorf("Count = %d, want 3", r.Count)
	}
}

func TestFrequencyExcludeAbsent(t *testing.T) {
	freq := []float64{0, 100, 0, 120, 110}
	present := []bool{false, true, false, true, true}

	r := Frequency(freq, present, RangeExcludeAbsent)
	if r.Lowest != 100 || r.Highest != 120 {
		t.Errorf("range = [%v, %v], want [100, 120]", r.Lowest, r.Highest)
	}
	if !almostEqual(r.Mean, 110, tolerance) {
		t.Errorf("Mean = %v, want 110", r.Mean)
	}

	// A detected zero-frequency sample is excluded like the mean excludes it.
	r = Frequency([]float64{0, 50}, []bool{true, true}, RangeExcludeAbsent)
	if r.Lowest != 50 {
		t.Errorf("Lowest = %v, want 50", r.Lowest)
	}

	// Without presence flags non-zero samples count as detected.
	r = Frequency([]float64{0, 80, 40}, nil, RangeExcludeAbsent)
	if r.Lowest != 40 || r.Highest != 80 {
		t.Errorf("range = [%v, %v], want [40, 80]", r.Lowest, r.Highest)
	}
}

func TestFrequencyNeverDetected(t *testing.T) {
	freq := []float64{0, 0, 0}
	for _, policy := range []RangePolicy{RangeExcludeAbsent, RangeIncludeAbsent} {
		r := Frequency(freq, []bool{false, false, false}, policy)
		if r.Lowest != 0 || r.Highest != 0 || r.Mean != 0 || r.Count != 0 {
			t.Errorf("%v: got %+v, want zero range", policy, r)
		}
	}
}

func TestParseRangePolicy(t *testing.T) {
	for _, p := range []RangePolicy{RangeExcludeAbsent, RangeIncludeAbsent} {
		got, ok := ParseRangePolicy(p.String())
		if !ok || got != p {
			t.Errorf("ParseRangePolicy(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := ParseRangePolicy("bogus"); ok {
		t.Error("ParseRangePolicy accepted an unknown name")
	}
}

func TestMinMax(t *testing.T) {
	lo, hi := MinMax([]float64{2, -1, 5, 0})
	if lo != -1 || hi != 5 {
		t.Errorf("MinMax = %v, %v", lo, hi)
	}
	lo, hi = MinMax(nil)
	if lo != 0 || hi != 0 {
		t.Errorf("MinMax(nil) = %v, %v", lo, hi)
	}
}

func TestRatioDB(t *testing.T) {
	if got := RatioDB(10, 1); !almostEqual(got, 20, tolerance) {
		t.Errorf("RatioDB(10, 1) = %v, want 20", got)
	}
	if got := RatioDB(1, 1); got != 0 {
		t.Errorf("RatioDB(1, 1) = %v, want 0", got)
	}
	if got := RatioDB(1, 0); got != 0 {
		t.Errorf("RatioDB(1, 0) = %v, want 0", got)
	}
}

func TestAmplitudeDB(t *testing.T) {
	if got := AmplitudeDB(0.1, -100); !almostEqual(got, -20, tolerance) {
		t.Errorf("AmplitudeDB(0.1) = %v, want -20", got)
	}
	if got := AmplitudeDB(0, -100); got != -100 {
		t.Errorf("AmplitudeDB(0) = %v, want floor", got)
	}
}
