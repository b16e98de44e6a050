package index

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"

	"seqsort/internal/logging"
	"seqsort/internal/media"
	"seqsort/internal/services"
)

// sequenceFolderPattern matches folders produced by an earlier sort. Skipping
// them keeps a rerun over an already sorted tree from re-indexing its own
// output.
var sequenceFolderPattern = regexp.MustCompile(`^SEQ\d{3}$`)

// Builder walks source roots and classifies every regular file it finds.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder constructs an index builder. A nil logger is replaced with a
// no-op logger.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{logger: logging.NewComponentLogger(logger, "indexer")}
}

// Build scans the given roots recursively and returns the frame index.
// Traversal order is not significant; later stages sort explicitly. Files
// that do not match the camera naming convention are skipped and counted,
// never fatal. An unreadable root aborts the build.
func (b *Builder) Build(ctx context.Context, roots []string) (*Index, error) {
	ix := newIndex()
	skipped := 0

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "index", "resolve root", root, err)
		}
		err = filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if entry.IsDir() {
				if sequenceFolderPattern.MatchString(entry.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if !entry.Type().IsRegular() {
				return nil
			}

			file, ok := media.ParseBasename(entry.Name())
			if !ok {
				skipped++
				b.logger.Debug("skipping unclassifiable file", logging.String("path", path))
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				return err
			}
			file.Path = path
			file.ModTime = info.ModTime()

			if prev, exists := ix.Lookup(file.Key, file.Extension); exists {
				b.logger.Warn("duplicate frame overwritten",
					logging.Int("frame", file.Key),
					logging.String(logging.FieldExtension, file.Extension),
					logging.String("kept", path),
					logging.String("replaced", prev.Path),
				)
			}
			ix.insert(file)
			return nil
		})
		if err != nil {
			return nil, services.Wrap(services.ErrFilesystem, "index", "walk source root", absRoot, err)
		}
	}

	b.logger.Info("source scan complete",
		logging.Int("frames", ix.Len()),
		logging.Int("skipped", skipped),
		logging.Int("duplicates", ix.Duplicates()),
		logging.Int("roots", len(roots)),
	)
	return ix, nil
}
