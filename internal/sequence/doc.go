// Package sequence partitions the frame index into runs, one per output
// sequence folder.
//
// The default contiguous strategy groups maximal runs of consecutive frame
// numbers; an alternative mtime strategy groups by modification-time
// proximity. Both honor the same contract: disjoint non-empty runs covering
// every key, numbered 1-based in ascending minimum-key order.
package sequence
