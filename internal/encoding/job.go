package encoding

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"seqsort/internal/config"
	"seqsort/internal/organizer"
)

// Job describes one fully-derived encoder invocation. It is never executed by
// the builder; a Runner consumes it.
type Job struct {
	// Sequence is the sequence folder basename, e.g. SEQ001.
	Sequence string
	// InputPattern is the printf-style glob ffmpeg reads, e.g.
	// <dest>/SEQ001/JPG/G%07d.JPG.
	InputPattern string
	// StartNumber is the literal digit field of the first file in the run,
	// zero padding intact.
	StartNumber string
	// OutputPath is where the preview clip lands.
	OutputPath string
	// Args is the complete ffmpeg argument list, output path included.
	Args []string
}

// CommandLine renders the invocation for logs and dry-run output.
func (j Job) CommandLine(binary string) string {
	return binary + " " + strings.Join(j.Args, " ")
}

// Builder derives encoder jobs from sequence plans.
type Builder struct {
	cfg *config.Config
}

// NewBuilder constructs a job builder bound to the given configuration.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// Job derives the encoder invocation for one sequence. It reports false when
// the sequence holds no files under the primary extension, in which case no
// preview is produced for it.
//
// The numeric pattern width comes from the FIRST file's literal digit field,
// not from the widest key in the run. Camera output is fixed-width, and the
// first filename is what defines the format the encoder must match.
func (b *Builder) Job(seq organizer.SequencePlan) (Job, bool) {
	primary := b.cfg.Media.PrimaryExtension
	files := seq.Files[primary]
	if len(files) == 0 {
		return Job{}, false
	}
	first := files[0]

	pattern := fmt.Sprintf("%s%%0%dd.%s", first.Prefix, len(first.Digits), primary)
	input := filepath.Join(seq.Folder, primary, pattern)

	outDir := seq.Folder
	if b.cfg.Movie.Subdir != "" {
		outDir = filepath.Join(seq.Folder, b.cfg.Movie.Subdir)
	}
	output := filepath.Join(outDir, filepath.Base(seq.Folder)+"."+b.cfg.Movie.Extension)

	movie := b.cfg.Movie
	args := []string{
		"-r", strconv.Itoa(movie.FPS),
		"-f", "image2",
		"-start_number", first.Digits,
		"-i", input,
		"-vf", fmt.Sprintf("scale=%d:-1", movie.Width),
		"-vcodec", movie.Codec,
		"-crf", strconv.Itoa(movie.CRF),
		"-pix_fmt", movie.PixelFormat,
		"-y", output,
	}

	return Job{
		Sequence:     filepath.Base(seq.Folder),
		InputPattern: input,
		StartNumber:  first.Digits,
		OutputPath:   output,
		Args:         args,
	}, true
}
