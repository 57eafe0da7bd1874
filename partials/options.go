package partials

import (
	"log/slog"

	"github.com/cwbudde/algo-partials/dsp/extrema"
	"github.com/cwbudde/algo-partials/measure/modulation"
	"github.com/cwbudde/algo-partials/stats/level"
)

// FitConfig controls the bounded least-squares fit of the attack profile.
type FitConfig struct {
	InitialProfile float64
	MinProfile     float64
	MaxProfile     float64
	MaxIterations  int
	XTol           float64
	FTol           float64
	GTol           float64
}

// DefaultFitConfig returns the fit bounds and tolerances used for SPEAR
// exports: initial guess 2, bounds [-1.4, 10].
func DefaultFitConfig() FitConfig {
	return FitConfig{
		InitialProfile: 2.0,
		MinProfile:     -1.4,
		MaxProfile:     10.0,
		MaxIterations:  200,
		XTol:           1e-10,
		FTol:           1e-12,
		GTol:           1e-12,
	}
}

// Config holds characterization parameters.
type Config struct {
	Extrema     extrema.Config
	TroughRatio float64 // troughs must exceed TroughRatio*levMax to count
	AttackStart int     // earliest index the attack search starts from
	RangePolicy level.RangePolicy
	Fit         FitConfig
	Modulation  bool

	// ModulationMinDepth is the smallest relative depth reported as
	// modulation; weaker spectral peaks leave the rate and depth at 0.
	ModulationMinDepth float64
	Logger             *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the characterization defaults.
func DefaultConfig() Config {
	return Config{
		Extrema:     extrema.DefaultConfig(),
		TroughRatio: 0.5,
		AttackStart: 5,
		RangePolicy: level.RangeExcludeAbsent,
		Fit:         DefaultFitConfig(),
		Modulation:  true,

		ModulationMinDepth: modulation.DefaultConfig().MinDepth,
	}
}

// WithPeakThreshold sets the relative extrema threshold.
func WithPeakThreshold(threshold float64) Option {
	return func(cfg *Config) {
		if threshold >= 0 {
			cfg.Extrema.Threshold = threshold
		}
	}
}

// WithMinPeakDistance sets the minimum spacing between extrema in frames.
func WithMinPeakDistance(distance int) Option {
	return func(cfg *Config) {
		if distance >= 1 {
			cfg.Extrema.MinDistance = distance
		}
	}
}

// WithTroughRatio sets the fraction of levMax a trough must exceed.
func WithTroughRatio(ratio float64) Option {
	return func(cfg *Config) {
		if ratio >= 0 && ratio <= 1 {
			cfg.TroughRatio = ratio
		}
	}
}

// WithAttackStart sets the earliest frame index of the attack search.
func WithAttackStart(index int) Option {
	return func(cfg *Config) {
		if index >= 0 {
			cfg.AttackStart = index
		}
	}
}

// WithRangePolicy selects how undetected frames affect LowestFreq and
// HighestFreq.
func WithRangePolicy(policy level.RangePolicy) Option {
	return func(cfg *Config) {
		cfg.RangePolicy = policy
	}
}

// WithFitConfig replaces the attack-profile fit settings.
func WithFitConfig(fit FitConfig) Option {
	return func(cfg *Config) {
		cfg.Fit = fit
	}
}

// WithModulation enables or disables the modulation-rate estimate.
func WithModulation(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Modulation = enabled
	}
}

// WithModulationMinDepth sets the modulation depth floor. Negative values are
// ignored.
func WithModulationMinDepth(depth float64) Option {
	return func(cfg *Config) {
		if depth >= 0 {
			cfg.ModulationMinDepth = depth
		}
	}
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}
