package sequence

import "fmt"

// Run is a maximal group of frame keys that belong to one output sequence.
// Keys are ascending. Runs are ordered and numbered by their minimum key.
type Run struct {
	// Ordinal is the 1-based sequence number, contiguous across a batch.
	Ordinal int
	Keys    []int
}

// Min returns the smallest frame key in the run.
func (r Run) Min() int {
	return r.Keys[0]
}

// Max returns the largest frame key in the run.
func (r Run) Max() int {
	return r.Keys[len(r.Keys)-1]
}

// FolderName returns the destination folder basename for the run, e.g.
// SEQ001. The ordinal is zero-padded to three digits minimum.
func (r Run) FolderName() string {
	return fmt.Sprintf("SEQ%03d", r.Ordinal)
}
