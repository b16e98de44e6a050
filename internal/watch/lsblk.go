package watch

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// commandRunner abstracts subprocess execution so tests can fake lsblk.
type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execCommandRunner struct{}

func (execCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Mount describes a mounted partition as reported by lsblk.
type Mount struct {
	Device     string
	Mountpoint string
	Fstype     string
}

func queryMount(ctx context.Context, runner commandRunner, device string) (Mount, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return Mount{}, fmt.Errorf("no device specified")
	}

	output, err := runner.Output(ctx, "lsblk", "-P", "-o", "MOUNTPOINT,FSTYPE", device)
	if err != nil {
		return Mount{}, fmt.Errorf("failed to run lsblk: %w", err)
	}

	mountpoint, fstype := ParseLSBLKMountInfo(string(output))
	return Mount{Device: device, Mountpoint: mountpoint, Fstype: fstype}, nil
}

// ParseLSBLKMountInfo parses lsblk -P output and returns the first
// MOUNTPOINT/FSTYPE pair.
func ParseLSBLKMountInfo(output string) (string, string) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		data := parseLSBLKKeyValueLine(line)
		if len(data) == 0 {
			continue
		}
		return data["MOUNTPOINT"], data["FSTYPE"]
	}
	return "", ""
}

func parseLSBLKKeyValueLine(line string) map[string]string {
	result := make(map[string]string)
	for _, field := range strings.Fields(line) {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		result[key] = value
	}
	return result
}
