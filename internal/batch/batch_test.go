package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"seqsort/internal/config"
	"seqsort/internal/encoding"
	"seqsort/internal/journal"
	"seqsort/internal/logging"
	"seqsort/internal/services"
	"seqsort/internal/testsupport"
)

type fakeRunner struct {
	jobs []encoding.Job
	fail map[string]bool
}

func (r *fakeRunner) Run(_ context.Context, job encoding.Job) error {
	r.jobs = append(r.jobs, job)
	if r.fail[job.Sequence] {
		return services.Wrap(services.ErrExternalTool, "encode", "run encoder", job.Sequence, errors.New("exit status 1"))
	}
	if err := os.WriteFile(job.OutputPath, []byte("clip"), 0o644); err != nil {
		return err
	}
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func newTestSorter(t *testing.T, cfg *config.Config, opts ...Option) *Sorter {
	t.Helper()
	return New(cfg, logging.NewNop(), opts...)
}

func TestRunMovesFragmentedTree(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.FragmentedTree(t, source, [][2]int{{1, 5}, {20, 23}}, 3, "JPG", "GPR")

	sorter := newTestSorter(t, testConfig(), WithRunner(&fakeRunner{}))
	result, err := sorter.Run(context.Background(), Request{
		Roots:       []string{source},
		Destination: dest,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(result.Runs))
	}
	if result.Strategy != "contiguous" {
		t.Errorf("strategy = %q", result.Strategy)
	}

	for seq, frames := range map[string][2]int{"SEQ001": {1, 5}, "SEQ002": {20, 23}} {
		for _, ext := range []string{"JPG", "GPR"} {
			for key := frames[0]; key <= frames[1]; key++ {
				name := fmt.Sprintf("G%0*d.%s", testsupport.FrameDigits, key, ext)
				path := filepath.Join(dest, seq, ext, name)
				if _, statErr := os.Stat(path); statErr != nil {
					t.Errorf("missing %s: %v", path, statErr)
				}
			}
		}
	}

	// Sources are drained, not copied.
	entries, err := os.ReadDir(source)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, entry := range entries {
		leftover, err := os.ReadDir(filepath.Join(source, entry.Name()))
		if err != nil {
			t.Fatalf("ReadDir %s: %v", entry.Name(), err)
		}
		if len(leftover) != 0 {
			t.Errorf("source folder %s still holds %d files", entry.Name(), len(leftover))
		}
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 1, 4, "JPG")

	sorter := newTestSorter(t, testConfig(), WithRunner(&fakeRunner{}))
	result, err := sorter.Run(context.Background(), Request{
		Roots:       []string{source},
		Destination: dest,
		DryRun:      true,
		Movie:       true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Manifest.Empty() {
		t.Fatal("dry run should still produce a plan")
	}
	if result.Manifest.TotalFiles() != 4 {
		t.Errorf("planned files = %d, want 4", result.Manifest.TotalFiles())
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run created %d entries in destination", len(entries))
	}
	if _, err := os.Stat(filepath.Join(source, fmt.Sprintf("G%0*d.JPG", testsupport.FrameDigits, 1))); err != nil {
		t.Errorf("dry run moved a source file: %v", err)
	}
}

func TestRunEncodesPreviews(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 1, 3, "JPG")
	testsupport.TouchFrames(t, source, "G", 10, 12, "JPG")

	runner := &fakeRunner{}
	sorter := newTestSorter(t, testConfig(), WithRunner(runner))
	result, err := sorter.Run(context.Background(), Request{
		Roots:       []string{source},
		Destination: dest,
		Movie:       true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(runner.jobs) != 2 {
		t.Fatalf("expected 2 encoder jobs, got %d", len(runner.jobs))
	}
	if len(result.Encoded) != 2 {
		t.Fatalf("expected 2 encoded previews, got %d", len(result.Encoded))
	}
	for ordinal, path := range result.Encoded {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing preview for sequence %d: %v", ordinal, err)
		}
	}
	if result.Manifest.Sequences[0].MoviePath == "" {
		t.Error("MoviePath not recorded on the plan")
	}
}

func TestRunEncoderFailureIsNotFatal(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 1, 3, "JPG")
	testsupport.TouchFrames(t, source, "G", 10, 12, "JPG")

	runner := &fakeRunner{fail: map[string]bool{"SEQ001": true}}
	sorter := newTestSorter(t, testConfig(), WithRunner(runner))
	result, err := sorter.Run(context.Background(), Request{
		Roots:       []string{source},
		Destination: dest,
		Movie:       true,
	})
	if err != nil {
		t.Fatalf("encoder failure must not fail the batch: %v", err)
	}

	if len(result.EncodeFailures) != 1 || result.EncodeFailures[0] != "SEQ001" {
		t.Errorf("EncodeFailures = %v", result.EncodeFailures)
	}
	if _, ok := result.Encoded[2]; !ok {
		t.Error("SEQ002 should still encode after SEQ001 fails")
	}
	// Files are in place regardless of the preview outcome.
	if _, err := os.Stat(filepath.Join(dest, "SEQ001", "JPG")); err != nil {
		t.Errorf("SEQ001 files missing: %v", err)
	}
}

func TestRunEmptySourceIsNotAnError(t *testing.T) {
	sorter := newTestSorter(t, testConfig(), WithRunner(&fakeRunner{}))
	result, err := sorter.Run(context.Background(), Request{
		Roots:       []string{t.TempDir()},
		Destination: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Empty() {
		t.Error("expected empty result")
	}
}

func TestRunRejectsMissingDestination(t *testing.T) {
	sorter := newTestSorter(t, testConfig(), WithRunner(&fakeRunner{}))
	_, err := sorter.Run(context.Background(), Request{
		Roots:       []string{t.TempDir()},
		Destination: filepath.Join(t.TempDir(), "missing"),
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestRunRecordsJournal(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 5, 8, "JPG")

	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	defer store.Close()

	sorter := newTestSorter(t, testConfig(), WithRunner(&fakeRunner{}), WithJournal(store))
	result, err := sorter.Run(context.Background(), Request{
		Roots:       []string{source},
		Destination: dest,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	batches, err := store.ListBatches(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListBatches: %v", err)
	}
	if len(batches) != 1 {
		t.Fatalf("expected 1 journal batch, got %d", len(batches))
	}
	if batches[0].ID != result.BatchID {
		t.Errorf("journal id %q, result id %q", batches[0].ID, result.BatchID)
	}
	if batches[0].Status != journal.StatusCompleted || batches[0].Files != 4 {
		t.Errorf("unexpected journal row: %+v", batches[0])
	}

	rows, err := store.BatchSequences(context.Background(), result.BatchID)
	if err != nil {
		t.Fatalf("BatchSequences: %v", err)
	}
	if len(rows) != 1 || rows[0].FirstFrame != 5 || rows[0].LastFrame != 8 {
		t.Errorf("unexpected sequence rows: %+v", rows)
	}
}

func TestRunLockBlocksConcurrentBatch(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 1, 2, "JPG")

	blocked := make(chan error, 1)
	release := make(chan struct{})
	runner := &blockingRunner{entered: make(chan struct{}), release: release}

	sorter := newTestSorter(t, testConfig(), WithRunner(runner))
	go func() {
		_, err := sorter.Run(context.Background(), Request{
			Roots:       []string{source},
			Destination: dest,
			Movie:       true,
		})
		blocked <- err
	}()

	<-runner.entered

	otherSource := t.TempDir()
	testsupport.TouchFrames(t, otherSource, "G", 50, 51, "JPG")
	other := newTestSorter(t, testConfig(), WithRunner(&fakeRunner{}))
	_, err := other.Run(context.Background(), Request{
		Roots:       []string{otherSource},
		Destination: dest,
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected lock contention error, got %v", err)
	}

	close(release)
	if err := <-blocked; err != nil {
		t.Fatalf("first batch failed: %v", err)
	}
}

type blockingRunner struct {
	entered chan struct{}
	release chan struct{}
	once    bool
}

func (r *blockingRunner) Run(_ context.Context, job encoding.Job) error {
	if !r.once {
		r.once = true
		close(r.entered)
		<-r.release
	}
	return os.WriteFile(job.OutputPath, []byte("clip"), 0o644)
}
