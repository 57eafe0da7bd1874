package level

import (
	"math"
	"sort"
)

// RangePolicy selects whether frames without a detection take part in the
// lowest/highest frequency computation.
type RangePolicy int

const (
	// RangeExcludeAbsent ignores undetected and zero-frequency frames, the
	// same samples the mean frequency ignores.
	RangeExcludeAbsent RangePolicy = iota
	// RangeIncludeAbsent runs min/max over the raw sequence, zero-fill
	// included. The first sample seeds both bounds.
	RangeIncludeAbsent
)

// String returns the policy name used in configuration files.
func (p RangePolicy) String() string {
	switch p {
	case RangeExcludeAbsent:
		return "exclude-absent"
	case RangeIncludeAbsent:
		return "include-absent"
	default:
		return "unknown"
	}
}

// ParseRangePolicy maps a configuration name to a RangePolicy.
func ParseRangePolicy(name string) (RangePolicy, bool) {
	switch name {
	case "exclude-absent", "":
		return RangeExcludeAbsent, true
	case "include-absent":
		return RangeIncludeAbsent, true
	default:
		return RangeExcludeAbsent, false
	}
}

// FreqRange holds the frequency summary of one partial.
type FreqRange struct {
	Lowest  float64
	Highest float64
	Mean    float64 // mean over samples with frequency > 0
	Count   int     // number of samples contributing to Mean
}

// Frequency computes the frequency range of freq in a single pass. present
// flags detected frames; a nil present treats every non-zero sample as
// detected. The mean always excludes samples with frequency <= 0 and is 0 if
// none remain.
func Frequency(freq []float64, present []bool, policy RangePolicy) FreqRange {
	var (
		r      FreqRange
		sum    float64
		seeded bool
	)

	for i, f := range freq {
		if f > 0 {
			sum += f
			r.Count++
		}

		if policy == RangeExcludeAbsent {
			detected := f > 0
			if present != nil && i < len(present) {
				detected = detected && present[i]
			}
			if !detected {
				continue
			}
		}

		if !seeded {
			r.Lowest, r.Highest = f, f
			seeded = true
			continue
		}
		if f < r.Lowest {
			r.Lowest = f
		}
		if f > r.Highest {
			r.Highest = f
		}
	}

	if r.Count > 0 {
		r.Mean = sum / float64(r.Count)
	}
	return r
}

// Median returns the median of x without modifying it. For an even number of
// samples the two middle values are averaged. Returns 0 for an empty slice.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, x)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MinMax returns the smallest and largest value of x, or 0, 0 for an empty
// slice.
func MinMax(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return 0, 0
	}
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// RatioDB returns 20*log10(num/den), or 0 when den <= 0.
func RatioDB(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return 20 * math.Log10(num/den)
}

// AmplitudeDB converts a linear amplitude to decibels, returning floor for
// non-positive values.
func AmplitudeDB(value, floor float64) float64 {
	if value <= 0 {
		return floor
	}
	return 20 * math.Log10(value)
}
