// Package extrema detects local maxima (peaks) and minima (troughs) in
// sampled envelopes.
//
// Detection is controlled by two parameters:
//
//   - Threshold: a candidate must lie strictly above
//     min + Threshold*(max-min) of the whole sequence (or above Threshold
//     itself when an absolute threshold is requested).
//   - MinDistance: after candidates are found they are visited from the
//     highest to the lowest (equal heights: lower index first); every kept
//     extremum removes all other candidates within MinDistance samples.
//
// Tie rules for flat runs: the first differences of a plateau are replaced by
// the slope on their left (left half) and on their right (middle and right
// half), so a flat top reports its middle sample, and the lower of the two
// middle samples when the plateau has even length. Plateaus touching either
// end take the slope of their single neighbour. The first and last samples
// are never extrema, and a completely flat sequence has none.
package extrema
