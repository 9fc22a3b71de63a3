package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

var (
	reconcileApply bool
	reconcileJSON  bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Detect and repair index drift",
	Long: `Scans the watched root and compares it against the stored index.
Files created, modified, or deleted while docsync was not running show
up as drift. Without --apply the prescribed actions are only printed;
with --apply they are executed through the indexing pipeline and the
run is recorded in history.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileApply, "apply", false, "execute the prescribed actions")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	if reconcileOrchestrator == nil {
		return errors.New("reconcile service not configured")
	}

	ctx := context.Background()

	var report *domain.ReconcileReport
	var err error
	if reconcileApply {
		report, err = reconcileOrchestrator.Run(ctx)
		if err != nil {
			return fmt.Errorf("reconcile failed: %w", err)
		}
	} else {
		report, err = reconcileOrchestrator.Plan(ctx)
		if err != nil {
			return fmt.Errorf("reconcile plan failed: %w", err)
		}
	}

	return outputReconcileReport(cmd, report)
}

func outputReconcileReport(cmd *cobra.Command, report *domain.ReconcileReport) error {
	if reconcileJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if report.InSync() {
		cmd.Printf("In sync: %d files scanned, no drift.\n", report.ScannedFiles)
		return nil
	}

	cmd.Printf("Scanned %d files in %s\n", report.ScannedFiles, report.Duration.Round(time.Millisecond))
	cmd.Printf("  new: %d  modified: %d  deleted: %d\n\n", report.NewCount, report.ModifiedCount, report.DeletedCount)

	for _, action := range report.Actions {
		cmd.Printf("  %-8s %s\n", action.Op, action.Path)
	}

	if reconcileApply {
		cmd.Printf("\nApplied %d actions.\n", len(report.Actions))
	} else {
		cmd.Println("\nRun with --apply to execute these actions.")
	}
	return nil
}
