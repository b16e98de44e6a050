package encoding

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"seqsort/internal/config"
	"seqsort/internal/logging"
	"seqsort/internal/services"
)

// Runner executes encoder jobs. Implementations wait for the process to exit
// before returning; a batch encodes its sequences strictly one at a time.
type Runner interface {
	Run(ctx context.Context, job Job) error
}

type execRunner struct {
	binary string
	logger *slog.Logger
}

// NewRunner returns a Runner that spawns the configured ffmpeg binary.
func NewRunner(cfg *config.Config, logger *slog.Logger) Runner {
	return &execRunner{
		binary: cfg.FFmpegBinary(),
		logger: logging.NewComponentLogger(logger, "encoder"),
	}
}

func (r *execRunner) Run(ctx context.Context, job Job) error {
	r.logger.Info("launching encoder",
		logging.String(logging.FieldSequence, job.Sequence),
		logging.String("command", job.CommandLine(r.binary)),
	)

	cmd := exec.CommandContext(ctx, r.binary, job.Args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := job.Sequence
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if tail := lastLine(output); tail != "" {
				detail = detail + ": " + tail
			}
		}
		return services.Wrap(services.ErrExternalTool, "encode", "run encoder", detail, err)
	}

	r.logger.Info("preview created",
		logging.String(logging.FieldSequence, job.Sequence),
		logging.String("output", job.OutputPath),
	)
	return nil
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
