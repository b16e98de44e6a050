package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seqsort/internal/batch"
	"seqsort/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var movieFlag bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sort cards automatically as they are inserted",
		Long: `Watch listens for removable media insertions and sorts each card in place
as soon as the desktop automounter finishes mounting it. Only partitions
with the configured filesystem types (FAT and exFAT by default) are
picked up. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
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

			handler := func(handlerCtx context.Context, mount watch.Mount) error {
				_, runErr := sorter.Run(handlerCtx, batch.Request{
					Roots:       []string{mount.Mountpoint},
					Destination: mount.Mountpoint,
					Movie:       movieFlag,
				})
				return runErr
			}

			signalCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			monitor := watch.NewMonitor(cfg, logger, handler)
			if err := monitor.Start(signalCtx); err != nil {
				return fmt.Errorf("start media watch: %w", err)
			}
			defer monitor.Stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Watching for cards. Press Ctrl-C to stop.")
			<-signalCtx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&movieFlag, "movie", "m", false, "Encode a preview clip per sequence")
	return cmd
}
