package organizer

import (
	"path/filepath"

	"seqsort/internal/index"
	"seqsort/internal/sequence"
)

// PlannedFile is one file placement inside a sequence extension folder.
type PlannedFile struct {
	// Source is the absolute path the file currently lives at.
	Source string
	// Basename is preserved from the source; the destination is
	// <folder>/<extension>/<basename>.
	Basename string
	// Key and Digits mirror the parsed frame identity. The encoder derives
	// its numeric pattern from the first planned file's Digits.
	Key    int
	Digits string
	Prefix string
}

// SequencePlan holds the destination layout for one run.
type SequencePlan struct {
	Ordinal int
	// Folder is the absolute sequence folder path, e.g. <dest>/SEQ001.
	Folder string
	// Extensions lists the extension subfolders in sorted order.
	Extensions []string
	// Files maps extension to the ordered placements under that subfolder.
	// A frame missing one extension simply contributes nothing to that list.
	Files map[string][]PlannedFile
	// MoviePath is filled in after preview generation, empty otherwise.
	MoviePath string
}

// FileCount returns the number of placements across all extensions.
func (p SequencePlan) FileCount() int {
	total := 0
	for _, files := range p.Files {
		total += len(files)
	}
	return total
}

// Manifest is the full batch plan: every sequence folder and every file that
// was (or, under dry-run, would be) placed there.
type Manifest struct {
	Destination string
	Sequences   []SequencePlan
}

// Empty reports whether the batch found nothing to sort.
func (m *Manifest) Empty() bool {
	return m == nil || len(m.Sequences) == 0
}

// TotalFiles returns the number of planned placements across the batch.
func (m *Manifest) TotalFiles() int {
	if m == nil {
		return 0
	}
	total := 0
	for _, seq := range m.Sequences {
		total += seq.FileCount()
	}
	return total
}

// Plan computes the destination layout for every run. It is pure: no
// directory is created and no file is touched. Apply consumes the result;
// dry-run callers simply stop after Plan.
func Plan(ix *index.Index, runs []sequence.Run, destination string) *Manifest {
	manifest := &Manifest{Destination: destination}
	for _, run := range runs {
		plan := SequencePlan{
			Ordinal:    run.Ordinal,
			Folder:     filepath.Join(destination, run.FolderName()),
			Extensions: ix.Extensions(run.Keys),
			Files:      make(map[string][]PlannedFile),
		}
		for _, ext := range plan.Extensions {
			for _, key := range run.Keys {
				file, ok := ix.Lookup(key, ext)
				if !ok {
					continue
				}
				plan.Files[ext] = append(plan.Files[ext], PlannedFile{
					Source:   file.Path,
					Basename: filepath.Base(file.Path),
					Key:      file.Key,
					Digits:   file.Digits,
					Prefix:   file.Prefix,
				})
			}
		}
		manifest.Sequences = append(manifest.Sequences, plan)
	}
	return manifest
}
