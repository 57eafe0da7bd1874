// Package config loads, normalizes, and validates partialfit configuration.
//
// Settings live in a TOML file with one table per concern (analysis, fit,
// aggregate, logging, catalog). Missing keys keep their defaults, so an empty
// file is valid. Use PartialsOptions and AggregateConfig to hand the values to
// the library packages.
package config
