// Package encoding derives and runs the per-sequence preview encoder.
//
// The builder turns a sequence plan into a fully-substituted ffmpeg
// invocation (frame rate, start number, zero-padded input glob, scale filter,
// output clip path) without executing anything. The Runner spawns the process
// and waits; a non-zero exit is reported as a per-sequence warning, never a
// batch failure.
package encoding
