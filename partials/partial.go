package partials

import (
	"fmt"

	"github.com/cwbudde/algo-partials/dsp/extrema"
	"github.com/cwbudde/algo-partials/measure/modulation"
	"github.com/cwbudde/algo-partials/stats/level"
)

// FitStatus describes the outcome of the attack-profile fit.
type FitStatus int

const (
	// FitSkipped means the onset segment was too short to fit.
	FitSkipped FitStatus = iota
	// FitConverged means the solver met its tolerances.
	FitConverged
	// FitNotConverged means the best estimate is kept but unreliable.
	FitNotConverged
)

func (s FitStatus) String() string {
	switch s {
	case FitSkipped:
		return "skipped"
	case FitConverged:
		return "converged"
	case FitNotConverged:
		return "not-converged"
	default:
		return "unknown"
	}
}

// ParseFitStatus maps a String value back to a FitStatus.
func ParseFitStatus(name string) (FitStatus, bool) {
	for _, s := range []FitStatus{FitSkipped, FitConverged, FitNotConverged} {
		if s.String() == name {
			return s, true
		}
	}
	return FitSkipped, false
}

// Partial is one tracked sinusoidal component. Freq, Level and Present hold
// one entry per frame. A zero Freq/Level entry with Present false means the
// partial was not detected in that frame.
//
// Derived fields are filled by CalcFreqRange and Characterize and must be
// treated as read-only afterwards.
//
//nolint:revive
type Partial struct {
	Freq    []float64
	Level   []float64
	Present []bool

	LowestFreq  float64
	HighestFreq float64
	MidFreq     float64

	MidLevel           float64
	LevelRandomization float64 // dB

	Attack         float64 // time at the end of the onset segment
	AttackIndex    int
	AttackDetected bool
	AttackProfile  float64
	Fit            FitStatus
	FitIterations  int

	ModulationRate  float64 // Hz
	ModulationDepth float64

	Peaks   []int
	Troughs []int
}

// NewPartial returns an empty partial with room for frames samples.
func NewPartial(frames int) *Partial {
	return &Partial{
		Freq:    make([]float64, 0, frames),
		Level:   make([]float64, 0, frames),
		Present: make([]bool, 0, frames),
	}
}

// Append adds one frame reading.
func (p *Partial) Append(freq, amp float64, present bool) {
	p.Freq = append(p.Freq, freq)
	p.Level = append(p.Level, amp)
	p.Present = append(p.Present, present)
}

// Len returns the number of frames.
func (p *Partial) Len() int {
	return len(p.Level)
}

// CalcFreqRange computes LowestFreq, HighestFreq and MidFreq in one pass.
func (p *Partial) CalcFreqRange(policy level.RangePolicy) {
	r := level.Frequency(p.Freq, p.Present, policy)
	p.LowestFreq = r.Lowest
	p.HighestFreq = r.Highest
	p.MidFreq = r.Mean
}

// Characterize derives the level and attack descriptors from the level
// trajectory. time is the shared time axis and must have one entry per frame.
func (p *Partial) Characterize(time []float64, opts ...Option) error {
	return p.characterize(time, ApplyOptions(opts...))
}

//nolint:funlen
func (p *Partial) characterize(time []float64, cfg Config) error {
	n := len(p.Level)
	if n == 0 {
		return ErrEmptyPartial
	}
	if len(time) != n {
		return fmt.Errorf("%w: %d time values, %d levels", ErrLengthMismatch, len(time), n)
	}

	p.Peaks = extrema.Detect(p.Level, cfg.Extrema)
	p.Troughs = extrema.DetectTroughs(p.Level, cfg.Extrema)

	p.MidLevel = level.Median(p.Level)

	levMax := p.MidLevel
	for _, i := range p.Peaks {
		levMax = max(levMax, p.Level[i])
	}

	levMin := levMax
	for _, i := range p.Troughs {
		if p.Level[i] > cfg.TroughRatio*levMax {
			levMin = min(levMin, p.Level[i])
		}
	}

	p.LevelRandomization = level.RatioDB(levMax, levMin)

	p.AttackProfile = 0
	p.Fit = FitSkipped
	p.FitIterations = 0

	if len(p.Peaks) == 0 {
		// No onset peak: the whole partial is treated as steady state.
		p.AttackDetected = false
		p.AttackIndex = 0
		p.Attack = time[0]
	} else {
		p.AttackDetected = true
		p.AttackIndex = attackEnd(p.Level, p.MidLevel, max(cfg.AttackStart, p.Peaks[0]))
		p.Attack = time[p.AttackIndex]
	}

	// AttackGain(1, p) is 0 for every p, so one onset sample cannot
	// constrain the profile.
	if p.AttackIndex >= minFitSamples && p.MidLevel > 0 {
		fit, err := fitAttackProfile(p.Level[:p.AttackIndex], p.MidLevel, cfg.Fit)
		if err != nil {
			return err
		}
		p.AttackProfile = fit.profile
		p.FitIterations = fit.iterations
		p.Fit = FitConverged
		if !fit.converged {
			p.Fit = FitNotConverged
			cfg.Logger.Warn("attack profile fit did not converge",
				"mid_freq", p.MidFreq,
				"attack_samples", p.AttackIndex,
				"profile", fit.profile,
				"iterations", fit.iterations,
				"reason", fit.reason,
			)
		}
	}

	p.ModulationRate, p.ModulationDepth = 0, 0
	if cfg.Modulation && p.MidLevel > 0 {
		sustain := p.Level[p.AttackIndex:]
		frameRate := modulation.FrameRate(time)
		if len(sustain) >= modulation.MinSamples && frameRate > 0 {
			res, err := modulation.Analyze(sustain, frameRate, modulation.WithMinDepth(cfg.ModulationMinDepth))
			if err == nil {
				p.ModulationRate, p.ModulationDepth = res.Rate, res.Depth
			} else {
				cfg.Logger.Debug("modulation estimate skipped", "mid_freq", p.MidFreq, "error", err)
			}
		}
	}

	return nil
}

// attackEnd advances from start while the level stays above the midpoint
// between the level at start and midLevel, and returns the first index that
// fails the test. The search stops at the last frame.
func attackEnd(lev []float64, midLevel float64, start int) int {
	last := len(lev) - 1
	if start > last {
		start = last
	}
	threshold := 0.5 * (lev[start] + midLevel)

	i := start
	for i < last && lev[i] > threshold {
		i++
	}
	return i
}
