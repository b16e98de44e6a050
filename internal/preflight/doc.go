// Package preflight validates the environment before a batch mutates
// anything: destination existence and writability, source readability,
// encoder availability, and free space on the destination volume.
package preflight
