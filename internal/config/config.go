package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/cwbudde/algo-partials/aggregate"
	"github.com/cwbudde/algo-partials/partials"
	"github.com/cwbudde/algo-partials/stats/level"
)

//go:embed sample_config.toml
var sampleConfig string

// Analysis contains the characterization parameters.
type Analysis struct {
	PeakThreshold   float64 `toml:"peak_threshold"`
	MinPeakDistance int     `toml:"min_peak_distance"`
	TroughRatio     float64 `toml:"trough_ratio"`
	AttackStart     int     `toml:"attack_start"`
	RangePolicy     string  `toml:"range_policy"`
	Modulation      bool    `toml:"modulation"`
	ModulationDepth float64 `toml:"modulation_min_depth"`
}

// Fit contains the attack-profile solver settings.
type Fit struct {
	InitialProfile float64 `toml:"initial_profile"`
	MinProfile     float64 `toml:"min_profile"`
	MaxProfile     float64 `toml:"max_profile"`
	MaxIterations  int     `toml:"max_iterations"`
	XTol           float64 `toml:"xtol"`
	FTol           float64 `toml:"ftol"`
	GTol           float64 `toml:"gtol"`
}

// Aggregate contains the multi-note table layout and clamps.
type Aggregate struct {
	Harmonics         int     `toml:"harmonics"`
	Notes             int     `toml:"notes"`
	LevelFloor        float64 `toml:"level_floor"`
	DefaultAttack     float64 `toml:"default_attack"`
	MaxAttack         float64 `toml:"max_attack"`
	MinProfiledAttack float64 `toml:"min_profiled_attack"`
	ProfileMin        float64 `toml:"profile_min"`
	ProfileMax        float64 `toml:"profile_max"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Catalog contains configuration for the analysis cache.
type Catalog struct {
	Enabled        bool   `toml:"enabled"`
	Path           string `toml:"path"`
	RetentionDays  int    `toml:"retention_days"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Config encapsulates all configuration values for partialfit.
type Config struct {
	Analysis  Analysis  `toml:"analysis"`
	Fit       Fit       `toml:"fit"`
	Aggregate Aggregate `toml:"aggregate"`
	Logging   Logging   `toml:"logging"`
	Catalog   Catalog   `toml:"catalog"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. An empty path
// tries the user config and then ./partialfit.toml; a missing file yields the
// defaults. The resolved path and whether it existed are returned too.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// PartialsOptions converts the analysis and fit tables into characterization
// options. The config must have been validated.
func (c *Config) PartialsOptions() []partials.Option {
	policy, _ := level.ParseRangePolicy(c.Analysis.RangePolicy)
	return []partials.Option{
		partials.WithPeakThreshold(c.Analysis.PeakThreshold),
		partials.WithMinPeakDistance(c.Analysis.MinPeakDistance),
		partials.WithTroughRatio(c.Analysis.TroughRatio),
		partials.WithAttackStart(c.Analysis.AttackStart),
		partials.WithRangePolicy(policy),
		partials.WithModulation(c.Analysis.Modulation),
		partials.WithModulationMinDepth(c.Analysis.ModulationDepth),
		partials.WithFitConfig(partials.FitConfig{
			InitialProfile: c.Fit.InitialProfile,
			MinProfile:     c.Fit.MinProfile,
			MaxProfile:     c.Fit.MaxProfile,
			MaxIterations:  c.Fit.MaxIterations,
			XTol:           c.Fit.XTol,
			FTol:           c.Fit.FTol,
			GTol:           c.Fit.GTol,
		}),
	}
}

// AggregateConfig returns the aggregation layout.
func (c *Config) AggregateConfig() aggregate.Config {
	a := c.Aggregate
	return aggregate.Config{
		Harmonics:         a.Harmonics,
		Notes:             a.Notes,
		LevelFloor:        a.LevelFloor,
		DefaultAttack:     a.DefaultAttack,
		MaxAttack:         a.MaxAttack,
		MinProfiledAttack: a.MinProfiledAttack,
		ProfileMin:        a.ProfileMin,
		ProfileMax:        a.ProfileMax,
	}
}

// CatalogRetention returns how long cached analyses are kept.
func (c *Config) CatalogRetention() time.Duration {
	return time.Duration(c.Catalog.RetentionDays) * 24 * time.Hour
}

// CatalogTimeout returns the deadline applied to catalog operations.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ErrConfigExists is returned by WriteSample when the target file exists and
// overwrite was not requested.
var ErrConfigExists = errors.New("config file already exists")

// WriteSample writes the annotated sample configuration and returns the
// absolute path it wrote. An empty path targets the user config location.
func WriteSample(path string, overwrite bool) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	target, err := expandPath(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}

	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return target, fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrConfigExists, target)
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("stat config: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return target, nil
}
