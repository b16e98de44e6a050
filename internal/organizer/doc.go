// Package organizer turns runs into destination-folder layouts.
//
// It is split into a pure planning step, which computes the full manifest of
// SEQNNN/<EXTENSION>/<basename> placements, and an apply step that creates
// folders and moves files. Dry-run mode uses the plan alone, so the manifest
// shape is identical whether or not anything touched disk.
package organizer
