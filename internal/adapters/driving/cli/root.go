// Package cli implements the margin command-line interface.
// Commands hold no logic of their own; they call the driving ports the
// composition root injects via Initialize.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/margin-labs/margin-cli/internal/core/ports/driven"
	"github.com/margin-labs/margin-cli/internal/core/ports/driving"
	"github.com/margin-labs/margin-cli/internal/logger"
)

// version is set by the build via -ldflags.
var version = "dev"

// Injected services. Nil until Initialize runs; commands check before use.
var (
	syncOrchestrator driving.SyncOrchestrator
	settingsService  driving.SettingsService
	highlightsAPI    driven.HighlightsAPI
	historyStore     driven.HistoryStore
)

// verboseFlag enables verbose logging across all commands.
var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "margin",
	Short: "Sync reading highlights into your local markdown vault",
	Long: `margin syncs highlights, notes and tags from your Margin account
into a folder of markdown files. Files are merged idempotently: your
edits survive, and re-running a sync never duplicates a highlight.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose output")
}

// Services carries everything the commands need.
type Services struct {
	Sync     driving.SyncOrchestrator
	Settings driving.SettingsService
	API      driven.HighlightsAPI
	History  driven.HistoryStore
}

// Initialize injects services into the command tree. Must run before
// Execute.
func Initialize(s Services) {
	syncOrchestrator = s.Sync
	settingsService = s.Settings
	highlightsAPI = s.API
	historyStore = s.History
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
