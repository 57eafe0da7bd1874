package modulation

import (
	"errors"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// MinSamples is the shortest envelope Analyze accepts.
const MinSamples = 16

// Errors returned by Analyze.
var (
	ErrTooShort         = errors.New("modulation: envelope shorter than 16 samples")
	ErrInvalidFrameRate = errors.New("modulation: frame rate must be positive")
)

// Result holds the modulation estimate. Rate and Depth are both 0 when no
// spectral peak meets the configured significance limits.
type Result struct {
	Rate     float64   // dominant modulation frequency in Hz, 0 if none
	Depth    float64   // modulation amplitude relative to the envelope mean, 0 if none
	Mean     float64   // envelope mean
	Spectrum []float64 // magnitude of bins 0..fftSize/2
	BinHz    float64
}

// Analyze estimates the modulation spectrum of envelope sampled at frameRate
// frames per second. The linear trend is removed before windowing, so a
// steady rise or decay is not reported as modulation.
//
//nolint:funlen,cyclop
func Analyze(envelope []float64, frameRate float64, opts ...Option) (Result, error) {
	n := len(envelope)
	if n < MinSamples {
		return Result{}, ErrTooShort
	}
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		return Result{}, ErrInvalidFrameRate
	}

	mean := 0.0
	for _, v := range envelope {
		mean += v
	}
	mean /= float64(n)

	cfg := ApplyOptions(opts...)
	centered := detrend(envelope, mean)

	win := hann(n)
	windowed := make([]float64, n)
	vecmath.MulBlock(windowed, centered, win)

	winSum := 0.0
	for _, w := range win {
		winSum += w
	}

	fftSize := nextPowerOf2(n)
	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, err
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, err
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	res := Result{
		Mean:     mean,
		Spectrum: mag,
		BinHz:    frameRate / float64(fftSize),
	}

	peak := 1
	for k := 2; k < bins; k++ {
		if mag[k] > mag[peak] {
			peak = k
		}
	}
	// A periodic component is a local maximum. Trend residue that survives
	// detrending piles up at DC and bin 1 without one.
	if mag[peak] <= mag[peak-1] || (peak < bins-1 && mag[peak] < mag[peak+1]) {
		return res, nil
	}
	if mean == 0 || winSum <= 0 {
		return res, nil
	}

	offset, amp := 0.0, mag[peak]
	if peak > 1 && peak < bins-1 {
		offset, amp = parabolicPeak(mag[peak-1], mag[peak], mag[peak+1])
	}

	rate := (float64(peak) + offset) * res.BinHz
	depth := 2 * amp / winSum / math.Abs(mean)
	cycles := rate * float64(n) / frameRate
	if depth < cfg.MinDepth || cycles < cfg.MinCycles {
		return res, nil
	}

	res.Rate, res.Depth = rate, depth
	return res, nil
}

// detrend subtracts the least-squares line from x. mean is the mean of x.
func detrend(x []float64, mean float64) []float64 {
	n := len(x)
	mid := float64(n-1) / 2

	var sxy, sxx float64
	for i, v := range x {
		d := float64(i) - mid
		sxy += d * (v - mean)
		sxx += d * d
	}
	slope := 0.0
	if sxx > 0 {
		slope = sxy / sxx
	}

	out := make([]float64, n)
	for i, v := range x {
		out[i] = v - mean - slope*(float64(i)-mid)
	}
	return out
}

// FrameRate returns the mean frame rate of a monotonically increasing time
// axis, or 0 when it cannot be determined.
func FrameRate(time []float64) float64 {
	if len(time) < 2 {
		return 0
	}
	span := time[len(time)-1] - time[0]
	if span <= 0 {
		return 0
	}
	return float64(len(time)-1) / span
}

func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	den := float64(n - 1)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/den)
	}
	return w
}

// parabolicPeak fits a parabola through three magnitude samples around a
// local maximum and returns the fractional bin offset and the peak height.
func parabolicPeak(left, center, right float64) (offset, height float64) {
	den := left - 2*center + right
	if den == 0 {
		return 0, center
	}
	offset = 0.5 * (left - right) / den
	height = center - 0.25*(left-right)*offset
	return offset, height
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
