// Package config loads, normalizes, and validates seqsort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/seqsort/config.toml or a
// project-local seqsort.toml. Always obtain settings through this package so
// downstream code receives sanitized paths, uppercased extensions, and clear
// validation errors.
package config
