package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage indexed documents",
	Long:  `List, inspect, or promote indexed documents.`,
	RunE:  runDocumentsList,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed documents",
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsContentCmd = &cobra.Command{
	Use:   "content [path]",
	Short: "Print the stored chunk content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsContent,
}

var documentsPromoteCmd = &cobra.Command{
	Use:   "promote [path] [level]",
	Short: "Set a document's promotion level",
	Long: `Sets the promotion level (standard, important, critical). The level
persists across re-indexing while the document header stays silent
about promotion.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocumentsPromote,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsContentCmd)
	documentsCmd.AddCommand(documentsPromoteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	cmd.Println("Indexed documents:")
	cmd.Println()
	for i := range docs {
		title := docs[i].Title
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  %s\n", docs[i].Path)
		cmd.Printf("    Title: %s\n", title)
		if docs[i].DocType != "" {
			cmd.Printf("    Type: %s\n", docs[i].DocType)
		}
		if docs[i].Promotion != domain.PromotionStandard {
			cmd.Printf("    Promotion: %s\n", docs[i].Promotion)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]

	details, err := documentService.GetDetails(context.Background(), path)
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	cmd.Printf("Document: %s\n\n", details.Path)
	cmd.Printf("  Title:       %s\n", details.Title)
	if details.DocType != "" {
		cmd.Printf("  Type:        %s\n", details.DocType)
	}
	cmd.Printf("  Tenant:      %s\n", details.TenantKey)
	cmd.Printf("  Promotion:   %s\n", details.Promotion)
	cmd.Printf("  Chunks:      %d\n", details.ChunkCount)
	cmd.Printf("  Links:       %d outgoing, %d backlinks, %d broken\n",
		details.Links, details.Backlinks, details.BrokenLinks)
	cmd.Printf("  Created:     %s\n", details.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:     %s\n", details.UpdatedAt.Format("2006-01-02 15:04:05"))

	if details.Superseded {
		cmd.Println("\n  Superseded by:")
		for _, by := range details.SupersededBy {
			cmd.Printf("    %s\n", by)
		}
	}

	return nil
}

func runDocumentsContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	content, err := documentService.GetContent(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentsPromote(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	path := args[0]
	level := domain.PromotionLevel(args[1])
	if !level.IsValid() {
		return fmt.Errorf("invalid promotion level %q (standard, important, critical)", args[1])
	}

	if err := documentService.Promote(context.Background(), path, level); err != nil {
		return fmt.Errorf("failed to promote document: %w", err)
	}

	cmd.Printf("Promoted %s to %s.\n", path, level)
	return nil
}
