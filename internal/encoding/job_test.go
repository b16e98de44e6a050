package encoding_test

import (
	"path/filepath"
	"strings"
	"testing"

	"seqsort/internal/config"
	"seqsort/internal/encoding"
	"seqsort/internal/organizer"
)

func planFixture(folder string) organizer.SequencePlan {
	return organizer.SequencePlan{
		Ordinal:    1,
		Folder:     folder,
		Extensions: []string{"GPR", "JPG"},
		Files: map[string][]organizer.PlannedFile{
			"JPG": {
				{Source: "/src/G0000123.JPG", Basename: "G0000123.JPG", Key: 123, Digits: "0000123", Prefix: "G"},
				{Source: "/src/G0000124.JPG", Basename: "G0000124.JPG", Key: 124, Digits: "0000124", Prefix: "G"},
			},
			"GPR": {
				{Source: "/src/G0000123.GPR", Basename: "G0000123.GPR", Key: 123, Digits: "0000123", Prefix: "G"},
			},
		},
	}
}

func TestJobDerivesPatternFromFirstFile(t *testing.T) {
	cfg := config.Default()
	folder := filepath.Join("/dest", "SEQ001")

	job, ok := encoding.NewBuilder(&cfg).Job(planFixture(folder))
	if !ok {
		t.Fatal("expected a job for a sequence with JPG files")
	}

	if job.Sequence != "SEQ001" {
		t.Fatalf("sequence = %q", job.Sequence)
	}
	if job.StartNumber != "0000123" {
		t.Fatalf("start number = %q, want literal digits of first file", job.StartNumber)
	}
	wantInput := filepath.Join(folder, "JPG", "G%07d.JPG")
	if job.InputPattern != wantInput {
		t.Fatalf("input pattern = %q, want %q", job.InputPattern, wantInput)
	}
	wantOutput := filepath.Join(folder, "SEQ001.MP4")
	if job.OutputPath != wantOutput {
		t.Fatalf("output = %q, want %q", job.OutputPath, wantOutput)
	}

	cmd := job.CommandLine("ffmpeg")
	for _, fragment := range []string{
		"-r 30", "-f image2", "-start_number 0000123",
		"scale=1920:-1", "-vcodec libx264", "-crf 25", "-pix_fmt yuv420p", "-y " + wantOutput,
	} {
		if !strings.Contains(cmd, fragment) {
			t.Fatalf("command %q missing %q", cmd, fragment)
		}
	}
}

func TestJobWidthFollowsFirstFileNotMaxKey(t *testing.T) {
	cfg := config.Default()
	plan := organizer.SequencePlan{
		Folder:     "/dest/SEQ001",
		Extensions: []string{"JPG"},
		Files: map[string][]organizer.PlannedFile{
			"JPG": {
				// First file uses 3-digit padding even though later keys
				// would need more; the first filename defines the format.
				{Basename: "P099.JPG", Key: 99, Digits: "099", Prefix: "P"},
				{Basename: "P100.JPG", Key: 100, Digits: "100", Prefix: "P"},
				{Basename: "P101.JPG", Key: 101, Digits: "101", Prefix: "P"},
			},
		},
	}

	job, ok := encoding.NewBuilder(&cfg).Job(plan)
	if !ok {
		t.Fatal("expected a job")
	}
	if !strings.Contains(job.InputPattern, "P%03d.JPG") {
		t.Fatalf("input pattern = %q, want 3-digit width from first file", job.InputPattern)
	}
	if job.StartNumber != "099" {
		t.Fatalf("start number = %q", job.StartNumber)
	}
}

func TestJobSkipsSequencesWithoutPrimaryExtension(t *testing.T) {
	cfg := config.Default()
	plan := organizer.SequencePlan{
		Folder:     "/dest/SEQ002",
		Extensions: []string{"GPR"},
		Files: map[string][]organizer.PlannedFile{
			"GPR": {{Basename: "G0000001.GPR", Key: 1, Digits: "0000001", Prefix: "G"}},
		},
	}
	if _, ok := encoding.NewBuilder(&cfg).Job(plan); ok {
		t.Fatal("expected no job for raw-only sequence")
	}
}

func TestJobHonorsMovieSubdir(t *testing.T) {
	cfg := config.Default()
	cfg.Movie.Subdir = "MP4"

	job, ok := encoding.NewBuilder(&cfg).Job(planFixture("/dest/SEQ003"))
	if !ok {
		t.Fatal("expected a job")
	}
	want := filepath.Join("/dest/SEQ003", "MP4", "SEQ003.MP4")
	if job.OutputPath != want {
		t.Fatalf("output = %q, want %q", job.OutputPath, want)
	}
}
