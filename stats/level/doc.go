// Package level provides robust summary statistics for partial trajectories:
// medians, running frequency ranges with an explicit policy for frames in
// which the partial was not detected, and decibel ratios.
package level
