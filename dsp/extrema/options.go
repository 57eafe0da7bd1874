package extrema

// Config holds extrema detection parameters.
type Config struct {
	Threshold         float64
	MinDistance       int
	AbsoluteThreshold bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the parameters used for partial level envelopes:
// a 1% relative threshold and a five-sample minimum spacing.
func DefaultConfig() Config {
	return Config{
		Threshold:   0.01,
		MinDistance: 5,
	}
}

// WithThreshold sets the detection threshold. It is relative to the
// sequence range unless WithAbsoluteThreshold is also given.
func WithThreshold(threshold float64) Option {
	return func(cfg *Config) {
		cfg.Threshold = threshold
	}
}

// WithMinDistance sets the minimum spacing between reported extrema.
// Values below 1 are ignored.
func WithMinDistance(distance int) Option {
	return func(cfg *Config) {
		if distance >= 1 {
			cfg.MinDistance = distance
		}
	}
}

// WithAbsoluteThreshold interprets Threshold as an absolute level.
func WithAbsoluteThreshold() Option {
	return func(cfg *Config) {
		cfg.AbsoluteThreshold = true
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
