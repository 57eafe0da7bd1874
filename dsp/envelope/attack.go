package envelope

import "github.com/cwbudde/algo-vecmath"

const (
	// Segments is the number of macro-segments the onset is divided into.
	Segments = 24

	segmentRate = 0.05
	initialY    = 0.6
	slopeY      = 0.11
)

// AttackGain returns n amplitude multipliers describing a normalized onset
// shaped by p. The result is deterministic for fixed inputs. n <= 0 yields an
// empty slice.
func AttackGain(n int, p float64) []float64 {
	if n <= 0 {
		return []float64{}
	}
	return appendAttackGain(make([]float64, 0, n), n, p)
}

// Scaled writes level*AttackGain(n, p) into dst and returns it. dst is reused
// when its capacity allows, otherwise a new slice is allocated.
func Scaled(dst []float64, n int, p, level float64) []float64 {
	if n <= 0 {
		return dst[:0]
	}
	if cap(dst) < n {
		dst = make([]float64, 0, n)
	}
	dst = appendAttackGain(dst[:0], n, p)
	vecmath.ScaleBlock(dst, dst, level)
	return dst
}

func appendAttackGain(dst []float64, n int, p float64) []float64 {
	y := initialY
	if p > 0 {
		y += slopeY * p
	}

	var z float64
	j := 0
	nf := float64(n)

	for i := 1; i <= Segments; i++ {
		k := n * i / Segments
		x := 1 - z - 1.5*y
		y += segmentRate * x

		var d float64
		if k != j {
			d = segmentRate * y * p / float64(k-j)
		}

		for ; j < k; j++ {
			m := float64(j) / nf
			dst = append(dst, (1-m)*z+m)
			z += d
		}
	}

	return dst
}
