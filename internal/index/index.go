package index

import (
	"sort"

	"seqsort/internal/media"
)

// Index maps frame keys to the files captured for that frame, one per
// extension. Within one build pass a (key, extension) pair resolves to at
// most one path; a later duplicate overwrites an earlier one and is counted.
type Index struct {
	frames     map[int]map[string]media.File
	duplicates int
}

func newIndex() *Index {
	return &Index{frames: make(map[int]map[string]media.File)}
}

func (ix *Index) insert(file media.File) {
	byExt, ok := ix.frames[file.Key]
	if !ok {
		byExt = make(map[string]media.File, 2)
		ix.frames[file.Key] = byExt
	}
	if _, exists := byExt[file.Extension]; exists {
		ix.duplicates++
	}
	byExt[file.Extension] = file
}

// Len returns the number of distinct frame keys.
func (ix *Index) Len() int {
	return len(ix.frames)
}

// Empty reports whether the scan found no media at all.
func (ix *Index) Empty() bool {
	return len(ix.frames) == 0
}

// Keys returns all frame keys in ascending order.
func (ix *Index) Keys() []int {
	keys := make([]int, 0, len(ix.frames))
	for key := range ix.frames {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// Lookup returns the file recorded for a (key, extension) pair.
func (ix *Index) Lookup(key int, ext string) (media.File, bool) {
	byExt, ok := ix.frames[key]
	if !ok {
		return media.File{}, false
	}
	file, ok := byExt[ext]
	return file, ok
}

// Extensions returns the sorted set of extensions present across the given
// keys.
func (ix *Index) Extensions(keys []int) []string {
	seen := make(map[string]struct{})
	for _, key := range keys {
		for ext := range ix.frames[key] {
			seen[ext] = struct{}{}
		}
	}
	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Duplicates returns how many (key, extension) collisions were overwritten
// during the build. Merged source trees with true duplicate frames surface
// here.
func (ix *Index) Duplicates() int {
	return ix.duplicates
}
