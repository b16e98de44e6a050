package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// FrameDigits is the digit width GoPro cameras use for still sequences.
const FrameDigits = 7

// TouchFrames creates empty files prefix<7-digit-frame>.<ext> for every frame
// in [first, last] and every extension, in dir.
func TouchFrames(t *testing.T, dir, prefix string, first, last int, exts ...string) {
	t.Helper()
	for frame := first; frame <= last; frame++ {
		for _, ext := range exts {
			name := fmt.Sprintf("%s%0*d.%s", prefix, FrameDigits, frame, ext)
			if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
				t.Fatalf("touch %s: %v", name, err)
			}
		}
	}
}

// TouchFramesAt is TouchFrames with an explicit modification time, advancing
// by step per frame. Used by mtime-grouping tests.
func TouchFramesAt(t *testing.T, dir, prefix string, first, last int, start time.Time, step time.Duration, exts ...string) {
	t.Helper()
	for frame := first; frame <= last; frame++ {
		stamp := start.Add(time.Duration(frame-first) * step)
		for _, ext := range exts {
			name := fmt.Sprintf("%s%0*d.%s", prefix, FrameDigits, frame, ext)
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				t.Fatalf("touch %s: %v", name, err)
			}
			if err := os.Chtimes(path, stamp, stamp); err != nil {
				t.Fatalf("chtimes %s: %v", name, err)
			}
		}
	}
}

// FragmentedTree lays out frame runs the way a GoPro fills a FAT32 card:
// files spill into numbered 001GOPRO, 002GOPRO, ... folders every perFolder
// files, regardless of run boundaries. Returns the folder paths created.
func FragmentedTree(t *testing.T, root string, runs [][2]int, perFolder int, exts ...string) []string {
	t.Helper()
	if perFolder <= 0 {
		perFolder = 1000
	}

	var folders []string
	counter := 0
	folderIndex := 0
	currentDir := ""

	nextFolder := func() {
		folderIndex++
		currentDir = filepath.Join(root, fmt.Sprintf("%03dGOPRO", folderIndex))
		if err := os.MkdirAll(currentDir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", currentDir, err)
		}
		folders = append(folders, currentDir)
		counter = perFolder
	}
	nextFolder()

	for _, run := range runs {
		for frame := run[0]; frame <= run[1]; frame++ {
			if counter == 0 {
				nextFolder()
			}
			for _, ext := range exts {
				name := fmt.Sprintf("G%0*d.%s", FrameDigits, frame, ext)
				if err := os.WriteFile(filepath.Join(currentDir, name), nil, 0o644); err != nil {
					t.Fatalf("touch %s: %v", name, err)
				}
			}
			counter--
		}
	}
	return folders
}
