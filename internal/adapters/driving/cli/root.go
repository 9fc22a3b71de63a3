// Package cli provides the cobra command tree. Commands run against
// package-level service variables injected by the cmd wiring; tests
// swap them for mocks.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services the commands run against.
var (
	watchService          driving.WatchService
	reconcileOrchestrator driving.ReconcileOrchestrator
	indexService          driving.IndexService
	searchService         driving.SearchService
	referenceService      driving.ReferenceService
	supersessionService   driving.SupersessionService
	documentService       driving.DocumentService
	settingsService       driving.SettingsService
	scheduler             driving.Scheduler
	actionService         driving.ResultActionService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Document sync and indexing engine",
	Long: `Docsync keeps a directory of documents mirrored into a searchable
index. It watches for file changes, reconciles drift after downtime,
chunks and embeds content, and tracks cross-references and
supersession between documents.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services bundles the driving ports the command tree depends on.
// Any nil entry leaves the corresponding commands unconfigured.
type Services struct {
	Watch        driving.WatchService
	Reconcile    driving.ReconcileOrchestrator
	Index        driving.IndexService
	Search       driving.SearchService
	References   driving.ReferenceService
	Supersession driving.SupersessionService
	Documents    driving.DocumentService
	Settings     driving.SettingsService
	Scheduler    driving.Scheduler
	Actions      driving.ResultActionService
}

// Configure injects the services the commands run against.
func Configure(s Services) {
	watchService = s.Watch
	reconcileOrchestrator = s.Reconcile
	indexService = s.Index
	searchService = s.Search
	referenceService = s.References
	supersessionService = s.Supersession
	documentService = s.Documents
	settingsService = s.Settings
	scheduler = s.Scheduler
	actionService = s.Actions
}

// SetVersion records the build version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
