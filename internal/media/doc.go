// Package media parses the camera file naming convention.
//
// Camera basenames look like G0001234.JPG: a single role character, a
// zero-padded frame number, and an extension. The frame number identifies the
// same capture event across extensions (a JPG and its GPR raw pair share it).
package media
