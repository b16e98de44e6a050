// Package services defines the shared error taxonomy for batch phases.
//
// Errors are wrapped with a sentinel marker so the orchestrator can decide
// whether a failure aborts the batch (filesystem, validation, configuration)
// or is reported and skipped (external encoder exits non-zero).
package services
