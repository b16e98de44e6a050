package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"seqsort/internal/organizer"
)

// Result describes the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDestination verifies that the destination root pre-exists and is a
// writable directory. The destination is never created implicitly.
func CheckDestination(path string) Result {
	const name = "Destination"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSourceRoot verifies that a source root exists and is readable.
func CheckSourceRoot(path string) Result {
	name := fmt.Sprintf("Source %s", path)
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: "error: is not a directory"}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: insufficient permissions: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: "readable"}
}

// CheckEncoder verifies that the encoder binary can be resolved on PATH.
// Only relevant when preview generation is requested.
func CheckEncoder(binary string) Result {
	const name = "FFmpeg"
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found in PATH", binary)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckFreeSpace compares the destination volume's free bytes against the
// planned payload. The payload only consumes new space when moves cross a
// filesystem boundary, so this is a conservative estimate.
func CheckFreeSpace(destination string, required uint64) Result {
	const name = "Free space"
	var stat unix.Statfs_t
	if err := unix.Statfs(destination, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs: %v", err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%d MiB free, %d MiB planned", available>>20, required>>20)
	if available < required {
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// PayloadBytes sums the on-disk size of every planned source file.
func PayloadBytes(manifest *organizer.Manifest) uint64 {
	if manifest == nil {
		return 0
	}
	var total uint64
	for _, seq := range manifest.Sequences {
		for _, files := range seq.Files {
			for _, file := range files {
				if info, err := os.Stat(file.Source); err == nil {
					total += uint64(info.Size())
				}
			}
		}
	}
	return total
}

// Failed filters results down to the ones that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
