package config

const (
	defaultPrimaryExtension  = "JPG"
	defaultGroupingStrategy  = "contiguous"
	defaultMtimeWindow       = 5
	defaultMovieFPS          = 30
	defaultMovieWidth        = 1920
	defaultMovieExtension    = "MP4"
	defaultMovieCodec        = "libx264"
	defaultMovieCRF          = 25
	defaultMoviePixelFormat  = "yuv420p"
	defaultJournalPath       = "~/.local/share/seqsort/journal.db"
	defaultMountPollSeconds  = 2
	defaultMountPollAttempts = 15
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Media: Media{
			PrimaryExtension: defaultPrimaryExtension,
		},
		Grouping: Grouping{
			Strategy:           defaultGroupingStrategy,
			MtimeWindowSeconds: defaultMtimeWindow,
		},
		Movie: Movie{
			FPS:         defaultMovieFPS,
			Width:       defaultMovieWidth,
			Extension:   defaultMovieExtension,
			Codec:       defaultMovieCodec,
			CRF:         defaultMovieCRF,
			PixelFormat: defaultMoviePixelFormat,
		},
		Journal: Journal{
			Enabled: false,
			Path:    defaultJournalPath,
		},
		Watch: Watch{
			Filesystems:       []string{"vfat", "exfat"},
			MountPollSeconds:  defaultMountPollSeconds,
			MountPollAttempts: defaultMountPollAttempts,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
