package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var linksCmd = &cobra.Command{
	Use:   "links [path]",
	Short: "Show a document's link graph entries",
	Long: `Prints the resolved outgoing links, the backlinks pointing at the
document, and any references that did not resolve on the last
indexing pass.`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

func init() {
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, args []string) error {
	if referenceService == nil {
		return errors.New("reference service not configured")
	}

	path := args[0]

	outgoing := referenceService.Links(path)
	backlinks := referenceService.Backlinks(path)
	broken := referenceService.BrokenLinks(path)

	cmd.Printf("Links for %s\n\n", path)

	cmd.Printf("  Outgoing (%d):\n", len(outgoing))
	for _, target := range outgoing {
		cmd.Printf("    -> %s\n", target)
	}
	if len(outgoing) == 0 {
		cmd.Println("    (none)")
	}

	cmd.Printf("\n  Backlinks (%d):\n", len(backlinks))
	for _, source := range backlinks {
		cmd.Printf("    <- %s\n", source)
	}
	if len(backlinks) == 0 {
		cmd.Println("    (none)")
	}

	cmd.Printf("\n  Broken (%d):\n", len(broken))
	for _, ref := range broken {
		cmd.Printf("    !! %s (line %d)\n", ref.Target, ref.Line)
	}
	if len(broken) == 0 {
		cmd.Println("    (none)")
	}

	if cycle := referenceService.FindCycle(path); cycle != nil {
		cmd.Printf("\n  Cycle: %s\n", joinArrow(cycle))
	}

	return nil
}

// joinArrow renders a cycle as a -> b -> a.
func joinArrow(paths []string) string {
	out := ""
	for i, p := range paths {
		if i > 0 {
			out += " -> "
		}
		out += p
	}
	if len(paths) > 0 {
		out += " -> " + paths[0]
	}
	return out
}
