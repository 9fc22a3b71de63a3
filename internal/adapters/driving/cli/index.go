package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a single file",
	Long: `Runs the indexing pipeline for one file: parse, validate, chunk,
embed, and store. The path is relative to the watched root.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var removeCmd = &cobra.Command{
	Use:   "remove [path]",
	Short: "Remove a file from the index",
	Long: `Deletes a file's document, chunks, vectors, references, and
supersession entries. The file itself is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(removeCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	result, err := indexService.IndexFile(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	printIndexResult(cmd, result)
	if !result.Success {
		return fmt.Errorf("indexing %s failed", result.Path)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	result, err := indexService.RemoveFile(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	for _, warning := range result.Warnings {
		cmd.Printf("  warning: %s\n", warning)
	}
	if !result.Success {
		for _, errMsg := range result.Errors {
			cmd.Printf("  error: %s\n", errMsg)
		}
		return fmt.Errorf("removing %s failed", result.Path)
	}

	cmd.Printf("Removed %s from the index.\n", result.Path)
	return nil
}

func printIndexResult(cmd *cobra.Command, result *domain.IndexResult) {
	if result.Success {
		cmd.Printf("Indexed %s: %d chunks in %s\n", result.Path, result.ChunkCount, result.Duration)
	} else {
		cmd.Printf("Failed %s\n", result.Path)
	}
	for _, warning := range result.Warnings {
		cmd.Printf("  warning: %s\n", warning)
	}
	for _, errMsg := range result.Errors {
		cmd.Printf("  error: %s\n", errMsg)
	}
}
