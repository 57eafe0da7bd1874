package extrema

import "sort"

// Peaks returns the ascending indices of local maxima in x.
func Peaks(x []float64, opts ...Option) []int {
	return Detect(x, ApplyOptions(opts...))
}

// Troughs returns the ascending indices of local minima in x. Troughs are
// detected as peaks of the negated sequence, so the threshold applies to the
// depth below the sequence maximum.
func Troughs(x []float64, opts ...Option) []int {
	return DetectTroughs(x, ApplyOptions(opts...))
}

// DetectTroughs returns the ascending indices of local minima in x using cfg.
func DetectTroughs(x []float64, cfg Config) []int {
	neg := make([]float64, len(x))
	for i, v := range x {
		neg[i] = -v
	}
	return Detect(neg, cfg)
}

// Detect returns the ascending indices of local maxima in x using cfg.
func Detect(x []float64, cfg Config) []int {
	n := len(x)
	if n < 3 {
		return nil
	}

	thr := cfg.Threshold
	if !cfg.AbsoluteThreshold {
		lo, hi := x[0], x[0]
		for _, v := range x[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		thr = cfg.Threshold*(hi-lo) + lo
	}

	dy := make([]float64, n-1)
	flat := 0
	for i := range dy {
		dy[i] = x[i+1] - x[i]
		if dy[i] == 0 {
			flat++
		}
	}
	if flat == len(dy) {
		return nil
	}
	if flat > 0 {
		resolvePlateaus(dy)
	}

	var candidates []int
	for i := 1; i < n-1; i++ {
		if dy[i] < 0 && dy[i-1] > 0 && x[i] > thr {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) > 1 && cfg.MinDistance > 1 {
		candidates = enforceSpacing(x, candidates, cfg.MinDistance)
	}

	return candidates
}

// resolvePlateaus replaces runs of zero differences in place with the
// neighbouring non-zero slopes. dy must contain at least one non-zero value.
func resolvePlateaus(dy []float64) {
	last := len(dy) - 1
	for i := 0; i <= last; {
		if dy[i] != 0 {
			i++
			continue
		}

		start := i
		for i <= last && dy[i] == 0 {
			i++
		}
		end := i - 1

		switch {
		case start == 0:
			fill(dy[start:end+1], dy[end+1])
		case end == last:
			fill(dy[start:end+1], dy[start-1])
		default:
			left, right := dy[start-1], dy[end+1]
			for j := start; j <= end; j++ {
				// j < median(start..end), compared in doubled units.
				if 2*j < start+end {
					dy[j] = left
				} else {
					dy[j] = right
				}
			}
		}
	}
}

func fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}

func enforceSpacing(x []float64, candidates []int, distance int) []int {
	order := make([]int, len(candidates))
	copy(order, candidates)
	sort.SliceStable(order, func(a, b int) bool {
		return x[order[a]] > x[order[b]]
	})

	removed := make([]bool, len(x))
	for i := range removed {
		removed[i] = true
	}
	for _, c := range candidates {
		removed[c] = false
	}

	for _, c := range order {
		if removed[c] {
			continue
		}
		lo := max(0, c-distance)
		hi := min(len(x)-1, c+distance)
		for j := lo; j <= hi; j++ {
			removed[j] = true
		}
		removed[c] = false
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if !removed[c] {
			kept = append(kept, c)
		}
	}
	return kept
}
