package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the live activity dashboard",
	Long: `Launch the interactive terminal dashboard for docsync.

The dashboard starts the file watcher and background reconciliation,
then shows the watcher state, the working copy tenant, pending change
counts and a scrolling feed of recent indexing and reconciliation
activity.

Controls:
  r        - Run reconciliation now
  ↑/k, ↓/j - Scroll activity
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if watchService == nil {
		return errors.New("watch service not configured")
	}
	if reconcileOrchestrator == nil {
		return errors.New("reconcile service not configured")
	}

	// The dashboard owns the watcher and scheduler for its lifetime.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := watchService.Start(ctx); err != nil {
		return fmt.Errorf("start watch: %w", err)
	}
	defer func() {
		if err := watchService.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "stop watch: %v\n", err)
		}
	}()

	if scheduler != nil {
		go func() {
			if err := scheduler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				fmt.Fprintf(os.Stderr, "scheduler stopped: %v\n", err)
			}
		}()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "stop scheduler: %v\n", err)
			}
		}()
	}

	ports := &tui.Ports{
		Watch:     watchService,
		Reconcile: reconcileOrchestrator,
		History:   scheduler,
		Settings:  settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
