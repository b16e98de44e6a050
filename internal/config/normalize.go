package config

import "strings"

func (c *Config) normalize() error {
	c.Media.PrimaryExtension = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(c.Media.PrimaryExtension, ".")))
	c.Grouping.Strategy = strings.ToLower(strings.TrimSpace(c.Grouping.Strategy))
	if c.Grouping.Strategy == "" {
		c.Grouping.Strategy = defaultGroupingStrategy
	}

	c.Movie.Extension = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(c.Movie.Extension, ".")))
	c.Movie.Subdir = strings.Trim(strings.TrimSpace(c.Movie.Subdir), "/")
	c.Movie.FFmpegPath = strings.TrimSpace(c.Movie.FFmpegPath)

	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	journalPath, err := expandPath(c.Journal.Path)
	if err != nil {
		return err
	}
	c.Journal.Path = journalPath

	normalized := make([]string, 0, len(c.Watch.Filesystems))
	for _, fs := range c.Watch.Filesystems {
		fs = strings.ToLower(strings.TrimSpace(fs))
		if fs != "" {
			normalized = append(normalized, fs)
		}
	}
	c.Watch.Filesystems = normalized

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
