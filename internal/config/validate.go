package config

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-partials/internal/logging"
	"github.com/cwbudde/algo-partials/stats/level"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateFit(); err != nil {
		return err
	}
	if err := c.AggregateConfig().Validate(); err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Catalog.RetentionDays < 0 {
		return errors.New("catalog.retention_days must be >= 0")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.PeakThreshold < 0 || a.PeakThreshold > 1 {
		return errors.New("analysis.peak_threshold must be between 0 and 1")
	}
	if a.MinPeakDistance < 1 {
		return fmt.Errorf("analysis.min_peak_distance must be > 0: %d", a.MinPeakDistance)
	}
	if a.TroughRatio < 0 || a.TroughRatio > 1 {
		return errors.New("analysis.trough_ratio must be between 0 and 1")
	}
	if a.AttackStart < 0 {
		return fmt.Errorf("analysis.attack_start must be >= 0: %d", a.AttackStart)
	}
	if a.ModulationDepth < 0 {
		return fmt.Errorf("analysis.modulation_min_depth must be >= 0: %g", a.ModulationDepth)
	}
	if _, ok := level.ParseRangePolicy(a.RangePolicy); !ok {
		return fmt.Errorf("analysis.range_policy: unsupported value %q", a.RangePolicy)
	}
	return nil
}

func (c *Config) validateFit() error {
	f := c.Fit
	if f.MinProfile > f.MaxProfile {
		return fmt.Errorf("fit.min_profile (%g) exceeds fit.max_profile (%g)", f.MinProfile, f.MaxProfile)
	}
	if f.MaxIterations <= 0 {
		return fmt.Errorf("fit.max_iterations must be > 0: %d", f.MaxIterations)
	}
	if f.XTol < 0 || f.FTol < 0 || f.GTol < 0 {
		return errors.New("fit tolerances must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
