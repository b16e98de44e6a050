package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"seqsort/internal/config"
	"seqsort/internal/encoding"
	"seqsort/internal/fileutil"
	"seqsort/internal/index"
	"seqsort/internal/journal"
	"seqsort/internal/logging"
	"seqsort/internal/organizer"
	"seqsort/internal/preflight"
	"seqsort/internal/sequence"
	"seqsort/internal/services"
)

// lockFileName lives inside the destination so concurrent invocations against
// the same card fail fast instead of interleaving moves.
const lockFileName = ".seqsort.lock"

// Request carries the per-invocation inputs. Everything else comes from the
// configuration the Sorter was built with.
type Request struct {
	// Roots are the directories scanned for media. The CLI defaults this to
	// the current working directory.
	Roots []string
	// Destination is the existing directory sequence folders are created in.
	Destination string
	// DryRun stops after planning; nothing on disk changes.
	DryRun bool
	// Movie enables preview generation after files are in place.
	Movie bool
}

// Result summarizes one batch for callers that render output or record
// history.
type Result struct {
	BatchID    string
	Manifest   *organizer.Manifest
	Runs       []sequence.Run
	Strategy   string
	Duplicates int
	// Encoded maps sequence ordinal to the preview path for sequences whose
	// encoder run succeeded.
	Encoded map[int]string
	// EncodeFailures lists sequences whose encoder run failed. Encoder
	// failures never fail the batch.
	EncodeFailures []string
	DryRun         bool
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Empty reports whether the scan found nothing to sort.
func (r *Result) Empty() bool {
	return r == nil || r.Manifest.Empty()
}

// Sorter runs the full pipeline: scan, partition, plan, move, encode, record.
type Sorter struct {
	cfg     *config.Config
	logger  *slog.Logger
	runner  encoding.Runner
	journal *journal.Store
}

// Option customizes Sorter construction.
type Option func(*Sorter)

// WithRunner overrides the encoder runner.
func WithRunner(r encoding.Runner) Option {
	return func(s *Sorter) { s.runner = r }
}

// WithJournal attaches a history store. Without one, batches are not
// recorded.
func WithJournal(store *journal.Store) Option {
	return func(s *Sorter) { s.journal = store }
}

// New constructs a Sorter bound to the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Sorter {
	s := &Sorter{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "batch"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = encoding.NewRunner(cfg, logger)
	}
	return s
}

// Run executes one batch. Filesystem failures abort the batch; encoder
// failures are collected as warnings and the batch still completes.
func (s *Sorter) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{
		BatchID:   uuid.NewString(),
		DryRun:    req.DryRun,
		StartedAt: time.Now().UTC(),
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	ix, err := index.NewBuilder(s.logger).Build(ctx, req.Roots)
	if err != nil {
		return nil, err
	}
	result.Duplicates = ix.Duplicates()

	strategy, err := sequence.ForConfig(s.cfg)
	if err != nil {
		return nil, err
	}
	result.Strategy = strategy.Name()
	result.Runs = strategy.Partition(ix)
	result.Manifest = organizer.Plan(ix, result.Runs, req.Destination)

	if result.Manifest.Empty() {
		s.logger.Info("no media found", logging.String("destination", req.Destination))
		result.FinishedAt = time.Now().UTC()
		s.record(ctx, req, result, nil)
		return result, nil
	}

	s.logger.Info("batch planned",
		logging.String(logging.FieldBatchID, result.BatchID),
		logging.Int("sequences", len(result.Manifest.Sequences)),
		logging.Int("files", result.Manifest.TotalFiles()),
		logging.Int("duplicates", result.Duplicates),
		logging.Bool("dryrun", req.DryRun),
	)

	if req.DryRun {
		result.FinishedAt = time.Now().UTC()
		s.record(ctx, req, result, nil)
		return result, nil
	}

	// In-place sorts are pure renames and consume no space; only moves that
	// cross a filesystem boundary need room on the destination.
	if crossesVolume(req.Roots, req.Destination) {
		payload := preflight.PayloadBytes(result.Manifest)
		if check := preflight.CheckFreeSpace(req.Destination, payload); !check.Passed {
			s.logger.Warn("destination may run out of space", logging.String("detail", check.Detail))
		}
	}

	lock := flock.New(filepath.Join(req.Destination, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "sort", "acquire lock", req.Destination, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrValidation, "sort", "acquire lock",
			fmt.Sprintf("another sort is already running against %s", req.Destination), nil)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			s.logger.Warn("failed to release destination lock", logging.Error(unlockErr))
		}
	}()

	if err := organizer.New(s.logger).Apply(ctx, result.Manifest); err != nil {
		result.FinishedAt = time.Now().UTC()
		s.record(ctx, req, result, err)
		return nil, err
	}

	if req.Movie {
		s.encode(ctx, result)
	}

	result.FinishedAt = time.Now().UTC()
	s.record(ctx, req, result, nil)
	return result, nil
}

func crossesVolume(roots []string, destination string) bool {
	for _, root := range roots {
		if !fileutil.SameVolume(root, destination) {
			return true
		}
	}
	return false
}

func (s *Sorter) validate(req Request) error {
	if len(req.Roots) == 0 {
		return services.Wrap(services.ErrValidation, "sort", "validate request", "no source roots given", nil)
	}
	if req.Destination == "" {
		return services.Wrap(services.ErrValidation, "sort", "validate request", "destination is required", nil)
	}
	if !fileutil.DirExists(req.Destination) {
		return services.Wrap(services.ErrValidation, "sort", "validate request",
			fmt.Sprintf("destination %s does not exist", req.Destination), nil)
	}
	return nil
}

// encode generates a preview per sequence, one at a time. Each failure is
// logged and collected; the remaining sequences still encode.
func (s *Sorter) encode(ctx context.Context, result *Result) {
	builder := encoding.NewBuilder(s.cfg)
	result.Encoded = make(map[int]string)

	for i := range result.Manifest.Sequences {
		seq := &result.Manifest.Sequences[i]
		job, ok := builder.Job(*seq)
		if !ok {
			s.logger.Debug("sequence has no primary frames, skipping preview",
				logging.String(logging.FieldSequence, filepath.Base(seq.Folder)))
			continue
		}
		if err := fileutil.EnsureDir(filepath.Dir(job.OutputPath)); err != nil {
			s.logger.Warn("preview directory unavailable",
				logging.String(logging.FieldSequence, job.Sequence),
				logging.Error(err))
			result.EncodeFailures = append(result.EncodeFailures, job.Sequence)
			continue
		}
		if err := s.runner.Run(ctx, job); err != nil {
			if services.Fatal(err) || errors.Is(ctx.Err(), context.Canceled) {
				s.logger.Warn("encoder aborted", logging.Error(err))
				result.EncodeFailures = append(result.EncodeFailures, job.Sequence)
				return
			}
			s.logger.Warn("preview failed",
				logging.String(logging.FieldSequence, job.Sequence),
				logging.Error(err))
			result.EncodeFailures = append(result.EncodeFailures, job.Sequence)
			continue
		}
		seq.MoviePath = job.OutputPath
		result.Encoded[seq.Ordinal] = job.OutputPath
	}
}

// record writes the batch to the journal when one is attached. Journal
// failures are logged and swallowed; history must never fail a sort.
func (s *Sorter) record(ctx context.Context, req Request, result *Result, runErr error) {
	if s.journal == nil {
		return
	}

	status := journal.StatusCompleted
	detail := ""
	switch {
	case runErr != nil:
		status = journal.StatusFailed
		detail = runErr.Error()
	case result.Empty():
		status = journal.StatusEmpty
	}

	record := journal.BatchRecord{
		ID:          result.BatchID,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
		Destination: req.Destination,
		DryRun:      req.DryRun,
		Movie:       req.Movie,
		Sequences:   len(result.Manifest.Sequences),
		Files:       result.Manifest.TotalFiles(),
		Status:      status,
		Error:       detail,
	}

	bounds := make(map[int][2]int, len(result.Runs))
	for _, run := range result.Runs {
		bounds[run.Ordinal] = [2]int{run.Min(), run.Max()}
	}

	var sequences []journal.SequenceRecord
	for _, seq := range result.Manifest.Sequences {
		row := journal.SequenceRecord{
			BatchID:   result.BatchID,
			Ordinal:   seq.Ordinal,
			Folder:    filepath.Base(seq.Folder),
			Files:     seq.FileCount(),
			MoviePath: seq.MoviePath,
		}
		if b, ok := bounds[seq.Ordinal]; ok {
			row.FirstFrame, row.LastFrame = b[0], b[1]
		}
		sequences = append(sequences, row)
	}

	if err := s.journal.RecordBatch(ctx, record, sequences); err != nil {
		s.logger.Warn("failed to record batch history", logging.Error(err))
	}
}
