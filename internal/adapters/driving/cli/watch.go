package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the root and keep the index current",
	Long: `Starts the live file watcher. Changes are debounced, coalesced per
path, and indexed in batches. A reconciliation pass runs first so
edits made while docsync was not running are picked up, and periodic
drift scans continue in the background while watching.

Stops on Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watchService == nil {
		return errors.New("watch service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := watchService.Start(ctx); err != nil {
		return fmt.Errorf("start watch: %w", err)
	}
	defer func() {
		if err := watchService.Stop(); err != nil {
			cmd.PrintErrf("stop watch: %v\n", err)
		}
	}()

	status := watchService.Status()
	cmd.Printf("Watching %s (Ctrl-C to stop)\n", status.Root)

	// Catch-up scan plus the periodic drift loop.
	if scheduler != nil {
		schedulerDone := make(chan error, 1)
		go func() {
			schedulerDone <- scheduler.Start(ctx)
		}()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				cmd.PrintErrf("stop scheduler: %v\n", err)
			}
		}()

		select {
		case <-ctx.Done():
		case err := <-schedulerDone:
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("scheduler: %w", err)
			}
		}
	} else {
		<-ctx.Done()
	}

	cmd.Println("\nStopping...")
	return nil
}
