// Package aggregate collects the characterized partials of several recorded
// notes into per-harmonic tables suitable for a synthesis model.
//
// Each table row describes one harmonic rank across all note slots: a mask
// with bit i set when note slot i has a measurable level, and one value per
// slot. Build is a pure function of its inputs; WriteJSON serializes the
// result.
package aggregate
