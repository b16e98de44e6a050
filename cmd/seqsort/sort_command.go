package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"seqsort/internal/batch"
	"seqsort/internal/config"
	"seqsort/internal/encoding"
	"seqsort/internal/preflight"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var destinationFlag string
	var dryRunFlag bool
	var movieFlag bool

	cmd := &cobra.Command{
		Use:   "sort [source ...]",
		Short: "Group frames into sequence folders",
		Long: `Sort scans the source directories for numbered camera files, groups them
into sequences, and moves them into SEQ folders under the destination.
Sources default to the current directory, as does the destination, so
running seqsort sort inside a card's DCIM folder sorts it in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			roots, err := resolveRoots(args)
			if err != nil {
				return err
			}
			destination, err := filepath.Abs(destinationFlag)
			if err != nil {
				return fmt.Errorf("resolve destination: %w", err)
			}

			checks := make([]preflight.Result, 0, len(roots)+2)
			for _, root := range roots {
				checks = append(checks, preflight.CheckSourceRoot(root))
			}
			checks = append(checks, preflight.CheckDestination(destination))
			if movieFlag {
				checks = append(checks, preflight.CheckEncoder(cfg.FFmpegBinary()))
			}
			if failed := preflight.Failed(checks); len(failed) > 0 {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, check := range failed {
					fmt.Fprintln(out, renderStatusLine(check.Name, statusError, check.Detail, colorize))
				}
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}

			store, err := ctx.openJournal()
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			if store != nil {
				defer store.Close()
			}

			opts := []batch.Option{}
			if store != nil {
				opts = append(opts, batch.WithJournal(store))
			}
			sorter := batch.New(cfg, logger, opts...)

			result, err := sorter.Run(cmd.Context(), batch.Request{
				Roots:       roots,
				Destination: destination,
				DryRun:      dryRunFlag,
				Movie:       movieFlag,
			})
			if err != nil {
				return err
			}

			renderResult(cmd, cfg, result, movieFlag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destinationFlag, "destination", "d", ".", "Directory sequence folders are created in")
	cmd.Flags().BoolVarP(&dryRunFlag, "dryrun", "n", false, "Plan only; move nothing")
	cmd.Flags().BoolVarP(&movieFlag, "movie", "m", false, "Encode a preview clip per sequence")
	return cmd
}

func resolveRoots(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve source %q: %w", arg, err)
		}
		roots = append(roots, abs)
	}
	return roots, nil
}

func renderResult(cmd *cobra.Command, cfg *config.Config, result *batch.Result, movie bool) {
	out := cmd.OutOrStdout()

	if result.Empty() {
		fmt.Fprintln(out, "No media found.")
		return
	}

	headers := []string{"Sequence", "Frames", "Files", "Preview"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
	rows := make([][]string, 0, len(result.Runs))

	bounds := make(map[int][2]int, len(result.Runs))
	for _, run := range result.Runs {
		bounds[run.Ordinal] = [2]int{run.Min(), run.Max()}
	}
	for _, seq := range result.Manifest.Sequences {
		frames := ""
		if b, ok := bounds[seq.Ordinal]; ok {
			frames = fmt.Sprintf("%d-%d", b[0], b[1])
		}
		preview := seq.MoviePath
		if preview == "" {
			preview = "-"
		}
		rows = append(rows, []string{
			filepath.Base(seq.Folder),
			frames,
			strconv.Itoa(seq.FileCount()),
			preview,
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))

	verb := "Moved"
	if result.DryRun {
		verb = "Would move"
	}
	fmt.Fprintf(out, "%s %d file(s) into %d sequence(s).\n",
		verb, result.Manifest.TotalFiles(), len(result.Manifest.Sequences))
	if result.Duplicates > 0 {
		fmt.Fprintf(out, "Warning: %d duplicate filename(s) were superseded during scanning.\n", result.Duplicates)
	}

	if result.DryRun && movie {
		builder := encoding.NewBuilder(cfg)
		for _, seq := range result.Manifest.Sequences {
			job, ok := builder.Job(seq)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "Would encode: %s\n", job.CommandLine(cfg.FFmpegBinary()))
		}
	}
	if result.DryRun {
		fmt.Fprintln(out, "Dry run: nothing was moved.")
	}

	for _, seq := range result.EncodeFailures {
		fmt.Fprintf(out, "Warning: preview for %s failed; frames are sorted, the clip is missing.\n", seq)
	}
}
