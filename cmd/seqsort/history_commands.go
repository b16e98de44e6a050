package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"seqsort/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past sort batches",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func (c *commandContext) requireJournal() (*journal.Store, error) {
	store, err := c.openJournal()
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("journaling is disabled; enable it in the [journal] config section")
	}
	return store, nil
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			batches, err := store.ListBatches(cmd.Context(), limitFlag)
			if err != nil {
				return fmt.Errorf("list batches: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(batches) == 0 {
				fmt.Fprintln(out, "No batches recorded.")
				return nil
			}

			headers := []string{"ID", "Started", "Destination", "Sequences", "Files", "Dry run", "Status"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					b.ID,
					b.StartedAt.Local().Format(time.DateTime),
					b.Destination,
					strconv.Itoa(b.Sequences),
					strconv.Itoa(b.Files),
					yesNo(b.DryRun),
					b.Status,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "l", 20, "Maximum number of batches to show")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <batch-id>",
		Short: "Show the sequences of one batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			sequences, err := store.BatchSequences(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load batch sequences: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(sequences) == 0 {
				fmt.Fprintf(out, "No sequences recorded for batch %s.\n", args[0])
				return nil
			}

			headers := []string{"Sequence", "Frames", "Files", "Preview"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
			rows := make([][]string, 0, len(sequences))
			for _, seq := range sequences {
				preview := seq.MoviePath
				if preview == "" {
					preview = "-"
				}
				rows = append(rows, []string{
					seq.Folder,
					fmt.Sprintf("%d-%d", seq.FirstFrame, seq.LastFrame),
					strconv.Itoa(seq.Files),
					preview,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
}
