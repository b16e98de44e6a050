package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Media describes the camera naming convention being ingested.
type Media struct {
	// PrimaryExtension is the compressed image format used for preview movies.
	PrimaryExtension string `toml:"primary_extension"`
}

// Grouping selects how frames are partitioned into sequences.
type Grouping struct {
	// Strategy is "contiguous" (filename numbering) or "mtime"
	// (modification-time proximity).
	Strategy string `toml:"strategy"`
	// MtimeWindowSeconds is the maximum gap between neighboring files that
	// still counts as the same sequence under the mtime strategy.
	MtimeWindowSeconds int `toml:"mtime_window_seconds"`
}

// Movie contains settings for per-sequence preview generation.
type Movie struct {
	FPS       int    `toml:"fps"`
	Width     int    `toml:"width"`
	Extension string `toml:"extension"`
	// Subdir places preview clips under their own subfolder inside each
	// sequence folder. Empty keeps the clip in the sequence root.
	Subdir      string `toml:"subdir"`
	FFmpegPath  string `toml:"ffmpeg_path"`
	Codec       string `toml:"codec"`
	CRF         int    `toml:"crf"`
	PixelFormat string `toml:"pixel_format"`
}

// Journal contains settings for the optional batch history database.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Watch contains settings for removable-media monitoring.
type Watch struct {
	// Filesystems lists partition filesystem types that trigger a sort when
	// inserted. Camera cards are almost always vfat or exfat.
	Filesystems []string `toml:"filesystems"`
	// MountPollSeconds is the interval between mountpoint lookups after a
	// partition appears.
	MountPollSeconds int `toml:"mount_poll_seconds"`
	// MountPollAttempts bounds how long we wait for the desktop automounter.
	MountPollAttempts int `toml:"mount_poll_attempts"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for seqsort.
type Config struct {
	Media    Media    `toml:"media"`
	Grouping Grouping `toml:"grouping"`
	Movie    Movie    `toml:"movie"`
	Journal  Journal  `toml:"journal"`
	Watch    Watch    `toml:"watch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/seqsort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was actually found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("seqsort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for preview generation.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Movie.FFmpegPath) != "" {
		return c.Movie.FFmpegPath
	}
	return "ffmpeg"
}
