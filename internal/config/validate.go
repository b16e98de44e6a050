package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateGrouping(); err != nil {
		return err
	}
	if err := c.validateMovie(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.PrimaryExtension == "" {
		return errors.New("media.primary_extension must be set")
	}
	return nil
}

func (c *Config) validateGrouping() error {
	switch c.Grouping.Strategy {
	case "contiguous":
	case "mtime":
		if c.Grouping.MtimeWindowSeconds <= 0 {
			return errors.New("grouping.mtime_window_seconds must be positive when strategy is mtime")
		}
	default:
		return fmt.Errorf("grouping.strategy: unsupported value %q (expected contiguous or mtime)", c.Grouping.Strategy)
	}
	return nil
}

func (c *Config) validateMovie() error {
	if c.Movie.FPS <= 0 {
		return errors.New("movie.fps must be positive")
	}
	if c.Movie.Width <= 0 {
		return errors.New("movie.width must be positive")
	}
	if c.Movie.Extension == "" {
		return errors.New("movie.extension must be set")
	}
	if c.Movie.CRF < 0 || c.Movie.CRF > 51 {
		return errors.New("movie.crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.MountPollSeconds <= 0 {
		return errors.New("watch.mount_poll_seconds must be positive")
	}
	if c.Watch.MountPollAttempts <= 0 {
		return errors.New("watch.mount_poll_attempts must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
