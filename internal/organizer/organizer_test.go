package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"seqsort/internal/index"
	"seqsort/internal/organizer"
	"seqsort/internal/sequence"
	"seqsort/internal/testsupport"
)

func buildIndex(t *testing.T, roots ...string) *index.Index {
	t.Helper()
	ix, err := index.NewBuilder(nil).Build(context.Background(), roots)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ix
}

func TestPlanPairsExtensionsAndToleratesSparseRaws(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	// Frames 1-5 with both extensions, then 10 (JPG only) and 11 (both).
	testsupport.TouchFrames(t, source, "G", 1, 5, "JPG", "GPR")
	testsupport.TouchFrames(t, source, "G", 10, 10, "JPG")
	testsupport.TouchFrames(t, source, "G", 11, 11, "JPG", "GPR")

	ix := buildIndex(t, source)
	runs := sequence.Partition(ix.Keys())
	manifest := organizer.Plan(ix, runs, dest)

	if len(manifest.Sequences) != 2 {
		t.Fatalf("expected 2 sequences, got %d", len(manifest.Sequences))
	}

	first := manifest.Sequences[0]
	if first.Folder != filepath.Join(dest, "SEQ001") {
		t.Fatalf("first folder = %q", first.Folder)
	}
	if len(first.Files["JPG"]) != 5 || len(first.Files["GPR"]) != 5 {
		t.Fatalf("first counts = JPG:%d GPR:%d", len(first.Files["JPG"]), len(first.Files["GPR"]))
	}

	second := manifest.Sequences[1]
	if second.Folder != filepath.Join(dest, "SEQ002") {
		t.Fatalf("second folder = %q", second.Folder)
	}
	if len(second.Files["JPG"]) != 2 || len(second.Files["GPR"]) != 1 {
		t.Fatalf("second counts = JPG:%d GPR:%d", len(second.Files["JPG"]), len(second.Files["GPR"]))
	}
	if second.Files["GPR"][0].Key != 11 {
		t.Fatalf("expected lone GPR to be frame 11, got %d", second.Files["GPR"][0].Key)
	}

	if manifest.TotalFiles() != 13 {
		t.Fatalf("total files = %d, want 13", manifest.TotalFiles())
	}
}

func TestPlanFilesAreContiguousPerExtension(t *testing.T) {
	source := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 100, 120, "JPG")
	testsupport.TouchFrames(t, source, "G", 200, 205, "JPG")

	ix := buildIndex(t, source)
	manifest := organizer.Plan(ix, sequence.Partition(ix.Keys()), t.TempDir())

	for _, seq := range manifest.Sequences {
		for ext, files := range seq.Files {
			for i, file := range files {
				if i == 0 {
					continue
				}
				if file.Key != files[i-1].Key+1 {
					t.Fatalf("%s/%s not contiguous at %d: %d after %d",
						seq.Folder, ext, i, file.Key, files[i-1].Key)
				}
			}
		}
	}
}

func TestPlanIsPure(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 1, 3, "JPG")

	ix := buildIndex(t, source)
	organizer.Plan(ix, sequence.Partition(ix.Keys()), dest)

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("plan touched the destination: %v", entries)
	}
	// Sources untouched too.
	if _, err := os.Stat(filepath.Join(source, "G0000001.JPG")); err != nil {
		t.Fatalf("source moved during plan: %v", err)
	}
}

func TestApplyMovesFilesAndIsIdempotentOnFolders(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 1, 3, "JPG", "GPR")

	// Pre-create the expected folders; apply must treat that as a no-op.
	if err := os.MkdirAll(filepath.Join(dest, "SEQ001", "JPG"), 0o755); err != nil {
		t.Fatal(err)
	}

	ix := buildIndex(t, source)
	manifest := organizer.Plan(ix, sequence.Partition(ix.Keys()), dest)

	if err := organizer.New(nil).Apply(context.Background(), manifest); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for frame := 1; frame <= 3; frame++ {
		for _, ext := range []string{"JPG", "GPR"} {
			name := "G000000" + strconv.Itoa(frame) + "." + ext
			want := filepath.Join(dest, "SEQ001", ext, name)
			if _, err := os.Stat(want); err != nil {
				t.Fatalf("missing %s: %v", want, err)
			}
		}
	}

	// Source tree is drained of media.
	entries, err := os.ReadDir(source)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("source still has %d entries", len(entries))
	}
}

func TestApplyFailureIsFatal(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()
	testsupport.TouchFrames(t, source, "G", 1, 2, "JPG")

	ix := buildIndex(t, source)
	manifest := organizer.Plan(ix, sequence.Partition(ix.Keys()), dest)
	// Sabotage one source after planning.
	if err := os.Remove(filepath.Join(source, "G0000002.JPG")); err != nil {
		t.Fatal(err)
	}

	if err := organizer.New(nil).Apply(context.Background(), manifest); err == nil {
		t.Fatal("expected apply to fail on missing source")
	}
}
