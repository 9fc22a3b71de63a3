package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain [path]",
	Short: "Show a document's supersession chain",
	Long: `Walks supersession relations from the document back to the chain's
origin and forward to its newest member, printed oldest to newest.`,
	Args: cobra.ExactArgs(1),
	RunE: runChain,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func runChain(cmd *cobra.Command, args []string) error {
	if supersessionService == nil {
		return errors.New("supersession service not configured")
	}

	path := args[0]

	entries, err := supersessionService.Chain(context.Background(), path)
	if err != nil {
		return fmt.Errorf("chain lookup failed: %w", err)
	}

	if len(entries) <= 1 {
		cmd.Printf("%s is not part of a supersession chain.\n", path)
		return nil
	}

	cmd.Printf("Supersession chain (%d documents, oldest first):\n\n", len(entries))
	for i, entry := range entries {
		marker := "  "
		if entry.Path == path {
			marker = "* "
		}
		title := entry.Title
		if title == "" {
			title = entry.Path
		}
		cmd.Printf("  %s[%d] %s\n", marker, i+1, title)
		cmd.Printf("        %s (modified %s)\n", entry.Path, entry.ModifiedAt.Format("2006-01-02 15:04"))
	}

	latest := entries[len(entries)-1]
	if latest.Path != path {
		cmd.Printf("\nCurrent version: %s\n", latest.Path)
	}
	return nil
}
