// Package modulation estimates the dominant amplitude-modulation rate of a
// level envelope, such as the sustained segment of a partial whose level
// beats or wobbles.
//
// The envelope is detrended, Hann-windowed, zero-padded to a power of two
// and transformed with an FFT. The strongest non-DC bin, refined by parabolic
// interpolation, gives the modulation rate; its window-corrected amplitude
// relative to the envelope mean gives the modulation depth. A peak that is
// not a local maximum, falls below the depth floor, or completes fewer than
// the minimum number of cycles over the envelope is not reported.
//
// # Usage
//
//	res, err := modulation.Analyze(sustain, frameRate)
//	fmt.Printf("%.2f Hz, depth %.3f\n", res.Rate, res.Depth)
package modulation
