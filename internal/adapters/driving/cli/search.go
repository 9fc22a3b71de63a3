package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

var (
	searchLimit             int
	searchJSON              bool
	searchExcludeSuperseded bool
	searchOpen              bool
	searchCopy              bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs semantic search across all indexed chunks. Superseded
documents rank with penalised scores; pass --exclude-superseded to
drop them entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchExcludeSuperseded, "exclude-superseded", false, "drop superseded documents from the results")
	searchCmd.Flags().BoolVar(&searchOpen, "open", false, "open the top result in the default application")
	searchCmd.Flags().BoolVar(&searchCopy, "copy", false, "copy the top result's content to the clipboard")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit:             searchLimit,
		ExcludeSuperseded: searchExcludeSuperseded,
	}

	results, err := searchService.Search(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		if err := outputSearchJSON(cmd, results); err != nil {
			return err
		}
	} else if err := outputSearchTable(cmd, results); err != nil {
		return err
	}

	if searchOpen || searchCopy {
		return applyResultAction(cmd, results)
	}
	return nil
}

// applyResultAction runs the requested --open/--copy action on the
// top result.
func applyResultAction(cmd *cobra.Command, results []domain.SearchResult) error {
	if actionService == nil {
		return errors.New("action service not configured")
	}
	if len(results) == 0 {
		return nil
	}

	top := &results[0]
	if searchCopy {
		if err := actionService.CopyToClipboard(context.Background(), top); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		cmd.Println("Copied top result to the clipboard.")
	}
	if searchOpen {
		if err := actionService.OpenDocument(context.Background(), top); err != nil {
			return fmt.Errorf("open failed: %w", err)
		}
		cmd.Printf("Opened %s.\n", top.Document.Path)
	}
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Document.Title
		if title == "" {
			title = results[i].Document.Path
		}

		marker := ""
		if results[i].Superseded {
			marker = " [superseded]"
		}

		cmd.Printf("  [%d] %s (%.2f)%s\n", i+1, title, results[i].Score, marker)
		cmd.Printf("      %s", results[i].Document.Path)
		if results[i].Chunk.HeaderPath != "" {
			cmd.Printf("  %s", results[i].Chunk.HeaderPath)
		}
		cmd.Println()

		snippet := snippetOf(results[i].Chunk.Content, 120)
		if snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d results\n", len(results))
	return nil
}

// snippetOf returns the first line of content, truncated to max runes.
func snippetOf(content string, max int) string {
	for i, r := range content {
		if r == '\n' {
			content = content[:i]
			break
		}
	}
	runes := []rune(content)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return content
}
