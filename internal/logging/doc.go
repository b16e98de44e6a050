// Package logging constructs the slog loggers used across seqsort.
//
// It offers a compact console handler for interactive runs and a JSON handler
// for machine consumption, plus attribute helpers and standardized field keys
// so components log sequence names, extensions, and batch identifiers
// consistently.
package logging
