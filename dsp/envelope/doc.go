// Package envelope provides the parametric attack-envelope model used to
// describe how a partial rises from silence to its steady level.
//
// The model is a 24-segment recurrence driven by a single shape parameter p:
//
//   - p > 0:  fast, percussive onset (larger p rises more steeply)
//   - p = 0:  linear ramp from 0 towards 1
//   - p < 0:  gradual swell that lags behind the linear ramp
//
// [AttackGain] returns the normalized curve, [Scaled] multiplies it by a
// steady-state level and is the basis function fitted against observed onset
// data by the partials characterizer.
package envelope
