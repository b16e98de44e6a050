// Package index builds the frame index from one or more source roots.
//
// The builder walks every root recursively, classifies regular files via the
// media naming rules, and produces an integer-keyed index of same-frame file
// pairs. The index is transient: built once per batch and discarded when the
// batch completes.
package index
