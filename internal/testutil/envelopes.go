package testutil

import "math"

// FrameTimes returns n frame times spaced hop seconds apart, starting at 0.
func FrameTimes(n int, hop float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * hop
	}
	return out
}

// PluckedLevel returns a deterministic level trajectory: a linear rise to
// 1.5 over 10 frames, a linear decay to 1.0 at frame 30, then a 5 Hz
// vibrato of depth 0.05 around 1.0 sampled every 10 ms.
func PluckedLevel(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		switch {
		case i < 10:
			out[i] = 1.5 * float64(i) / 10
		case i < 30:
			out[i] = 1.5 - 0.5*float64(i-10)/20
		default:
			out[i] = 1 + 0.05*math.Sin(2*math.Pi*5*float64(i-30)*0.01)
		}
	}
	return out
}

// Constant returns n copies of value.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp returns n values rising linearly from 0 to peak (inclusive).
func Ramp(peak float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = peak
		return out
	}
	for i := range out {
		out[i] = peak * float64(i) / float64(n-1)
	}
	return out
}
