// Package main hosts the partialfit CLI.
//
// partialfit reads SPEAR par-text-frame-format exports, prints per-partial
// descriptors (level, randomization, attack time and profile), aggregates a
// set of notes into per-harmonic JSON tables, and renders the attack envelope
// model. Settings come from a TOML file (see "partialfit config init").
package main
