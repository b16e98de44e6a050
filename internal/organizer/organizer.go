package organizer

import (
	"context"
	"log/slog"
	"path/filepath"

	"seqsort/internal/fileutil"
	"seqsort/internal/logging"
	"seqsort/internal/services"
)

// Organizer applies a manifest to the filesystem: it creates sequence and
// extension folders and moves every planned file into place.
type Organizer struct {
	logger *slog.Logger
}

// New constructs the organizer. A nil logger is replaced with a no-op logger.
func New(logger *slog.Logger) *Organizer {
	return &Organizer{logger: logging.NewComponentLogger(logger, "organizer")}
}

// Apply performs the planned moves in manifest order. Folder creation is
// idempotent. The first filesystem failure aborts the batch; moves already
// committed are not rolled back.
func (o *Organizer) Apply(ctx context.Context, manifest *Manifest) error {
	for _, seq := range manifest.Sequences {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fileutil.EnsureDir(seq.Folder); err != nil {
			return services.Wrap(services.ErrFilesystem, "apply", "create sequence folder", seq.Folder, err)
		}
		for _, ext := range seq.Extensions {
			files := seq.Files[ext]
			if len(files) == 0 {
				continue
			}
			extFolder := filepath.Join(seq.Folder, ext)
			if err := fileutil.EnsureDir(extFolder); err != nil {
				return services.Wrap(services.ErrFilesystem, "apply", "create extension folder", extFolder, err)
			}
			for _, file := range files {
				dst := filepath.Join(extFolder, file.Basename)
				if err := fileutil.MoveFile(file.Source, dst); err != nil {
					return services.Wrap(services.ErrFilesystem, "apply", "move file", dst, err)
				}
			}
			o.logger.Info("moved files",
				logging.String(logging.FieldSequence, filepath.Base(seq.Folder)),
				logging.String(logging.FieldExtension, ext),
				logging.Int("count", len(files)),
				logging.String("folder", extFolder),
			)
		}
	}
	return nil
}
