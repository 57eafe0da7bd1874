package config

const (
	defaultConfigPath  = "~/.config/partialfit/config.toml"
	projectConfigName  = "partialfit.toml"
	defaultCatalogPath = "~/.cache/partialfit/catalog.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			PeakThreshold:   0.01,
			MinPeakDistance: 5,
			TroughRatio:     0.5,
			AttackStart:     5,
			RangePolicy:     "exclude-absent",
			Modulation:      true,
			ModulationDepth: 1e-3,
		},
		Fit: Fit{
			InitialProfile: 2.0,
			MinProfile:     -1.4,
			MaxProfile:     10.0,
			MaxIterations:  200,
			XTol:           1e-10,
			FTol:           1e-12,
			GTol:           1e-12,
		},
		Aggregate: Aggregate{
			Harmonics:         64,
			Notes:             11,
			LevelFloor:        -100,
			DefaultAttack:     0.05,
			MaxAttack:         0.5,
			MinProfiledAttack: 0.05,
			ProfileMin:        -1.2,
			ProfileMax:        2.4,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
		Catalog: Catalog{
			Enabled:        false,
			Path:           defaultCatalogPath,
			RetentionDays:  90,
			TimeoutSeconds: 10,
		},
	}
}
