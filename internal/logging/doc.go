// Package logging builds the slog loggers used by the partialfit CLI.
//
// Library packages never construct loggers themselves; they accept a
// *slog.Logger through their options and fall back to a discarding handler.
package logging
