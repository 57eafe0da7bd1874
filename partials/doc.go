// Package partials reads SPEAR "par-text-frame-format" exports and derives a
// compact timbral description for every tracked partial.
//
// A file holds a fixed header followed by one line per analysis frame:
//
//	par-text-frame-format
//	point-type index frequency amplitude
//	partials-count <N>
//	frame-count <M>
//	frame-data
//	<time> <k> <idx> <freq> <amp> ...
//
// [ReadFromFile] expands the sparse frames into dense, equal-length
// trajectories (frames without a reading for a partial are zero-filled and
// flagged absent), characterizes each partial and sorts the partials by
// ascending mean frequency, so position i is harmonic rank i.
//
// Per partial the characterizer reports:
//
//   - MidFreq, LowestFreq, HighestFreq: frequency statistics
//   - MidLevel: median level
//   - LevelRandomization: modulation depth of the sustained level in dB
//   - Attack: time at which the onset has settled halfway to MidLevel
//   - AttackProfile: shape parameter of the fitted attack envelope
//   - ModulationRate: dominant amplitude-modulation frequency
//
// # Usage
//
//	c, err := partials.ReadFromFile("060-C.txt")
//	if err != nil {
//		return err
//	}
//	for _, p := range c.Partials() {
//		fmt.Printf("%.1f Hz %.4f %.3f s\n", p.MidFreq, p.MidLevel, p.Attack)
//	}
package partials
