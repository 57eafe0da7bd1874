package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Analysis.RangePolicy = strings.ToLower(strings.TrimSpace(c.Analysis.RangePolicy))
	if c.Analysis.RangePolicy == "" {
		c.Analysis.RangePolicy = Default().Analysis.RangePolicy
	}

	c.normalizeLogging()

	c.Catalog.Path = strings.TrimSpace(c.Catalog.Path)
	if c.Catalog.Path == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	var err error
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		c.Catalog.TimeoutSeconds = Default().Catalog.TimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
