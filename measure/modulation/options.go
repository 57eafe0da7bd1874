package modulation

// Config holds the significance limits a spectral peak must meet before
// Analyze reports it as a modulation.
type Config struct {
	MinDepth  float64 // depth relative to the envelope mean
	MinCycles float64 // periods of the rate within the analyzed span
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a 0.1% depth floor and a two-cycle minimum.
func DefaultConfig() Config {
	return Config{
		MinDepth:  1e-3,
		MinCycles: 2,
	}
}

// WithMinDepth sets the smallest reported depth. Negative values are ignored.
func WithMinDepth(depth float64) Option {
	return func(cfg *Config) {
		if depth >= 0 {
			cfg.MinDepth = depth
		}
	}
}

// WithMinCycles sets how many periods of the peak rate must fit in the
// envelope. Negative values are ignored.
func WithMinCycles(cycles float64) Option {
	return func(cfg *Config) {
		if cycles >= 0 {
			cfg.MinCycles = cycles
		}
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
	return cfg
}
