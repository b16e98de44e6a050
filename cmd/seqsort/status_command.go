package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"seqsort/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var destinationFlag string

	cmd := &cobra.Command{
		Use:   "status [source ...]",
		Short: "Check that a sort would be able to run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
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
			checks = append(checks, preflight.CheckEncoder(cfg.FFmpegBinary()))

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, check := range checks {
				kind := statusOK
				if !check.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
			}

			if failed := preflight.Failed(checks); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&destinationFlag, "destination", "d", ".", "Directory sequence folders would be created in")
	return cmd
}
