package sequence

import (
	"fmt"
	"sort"
	"time"

	"seqsort/internal/config"
	"seqsort/internal/index"
)

// Strategy partitions an index into runs. Implementations must return runs
// whose key sets are pairwise disjoint, non-empty, and together cover every
// key in the index, ordered by minimum key with contiguous 1-based ordinals.
type Strategy interface {
	Name() string
	Partition(ix *index.Index) []Run
}

// ForConfig selects the configured grouping strategy.
func ForConfig(cfg *config.Config) (Strategy, error) {
	switch cfg.Grouping.Strategy {
	case "contiguous", "":
		return Contiguous{}, nil
	case "mtime":
		return MtimeWindow{Window: time.Duration(cfg.Grouping.MtimeWindowSeconds) * time.Second}, nil
	default:
		return nil, fmt.Errorf("grouping strategy: unsupported value %q", cfg.Grouping.Strategy)
	}
}

// Contiguous groups keys that form uninterrupted integer runs. This is the
// default policy and matches the camera's own frame numbering.
type Contiguous struct{}

func (Contiguous) Name() string { return "contiguous" }

func (Contiguous) Partition(ix *index.Index) []Run {
	return Partition(ix.Keys())
}

// Partition splits a sorted-or-not key slice into maximal runs of
// consecutive integers. A single scan over the sorted keys starts a new run
// whenever the gap to the previous key exceeds one.
func Partition(keys []int) []Run {
	if len(keys) == 0 {
		return nil
	}
	sorted := make([]int, len(keys))
	copy(sorted, keys)
	sort.Ints(sorted)

	var runs []Run
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i] != sorted[i-1]+1 {
			runs = append(runs, Run{
				Ordinal: len(runs) + 1,
				Keys:    sorted[start:i:i],
			})
			start = i
		}
	}
	return runs
}

// MtimeWindow groups frames whose modification times sit within Window of
// their neighbor, regardless of numbering gaps. Useful for raw workflows
// where counters reset mid-shoot.
type MtimeWindow struct {
	Window time.Duration
}

func (MtimeWindow) Name() string { return "mtime" }

func (s MtimeWindow) Partition(ix *index.Index) []Run {
	keys := ix.Keys()
	if len(keys) == 0 {
		return nil
	}

	type stamped struct {
		key  int
		when time.Time
	}
	frames := make([]stamped, 0, len(keys))
	for _, key := range keys {
		frames = append(frames, stamped{key: key, when: earliestModTime(ix, key)})
	}
	sort.Slice(frames, func(i, j int) bool {
		if frames[i].when.Equal(frames[j].when) {
			return frames[i].key < frames[j].key
		}
		return frames[i].when.Before(frames[j].when)
	})

	var groups [][]int
	var current []int
	for i, frame := range frames {
		if i > 0 && frame.when.Sub(frames[i-1].when) > s.Window {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, frame.key)
	}
	groups = append(groups, current)

	runs := make([]Run, 0, len(groups))
	for _, group := range groups {
		sort.Ints(group)
		runs = append(runs, Run{Keys: group})
	}
	// Ordinals follow ascending minimum key so numbering stays stable for a
	// given index regardless of timestamp order.
	sort.Slice(runs, func(i, j int) bool { return runs[i].Min() < runs[j].Min() })
	for i := range runs {
		runs[i].Ordinal = i + 1
	}
	return runs
}

func earliestModTime(ix *index.Index, key int) time.Time {
	var earliest time.Time
	for _, ext := range ix.Extensions([]int{key}) {
		file, ok := ix.Lookup(key, ext)
		if !ok {
			continue
		}
		if earliest.IsZero() || file.ModTime.Before(earliest) {
			earliest = file.ModTime
		}
	}
	return earliest
}
