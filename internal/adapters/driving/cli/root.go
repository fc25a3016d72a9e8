// Package cli implements the drafter command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/core/ports/driving"
	"github.com/seamwork/drafter/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

var (
	draftingService    driving.DraftingService
	historyService     driving.HistoryService
	queryService       driving.QueryService
	libraryService     driving.LibraryService
	settingsService    driving.SettingsService
	measurementWatcher driven.MeasurementWatcher
)

var (
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "drafter",
	Short: "Parametric pattern drafting from the command line",
	Long: `drafter recomputes parametric garment pattern draftings.

A drafting is an ordered list of construction operations whose numeric
parameters are formulas over body measurements, increments and the lengths
and angles of earlier geometry. drafter loads drafting files, recomputes
them, edits their formulas and keeps saved revisions in a local library.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")
}

// Services holds the core services the commands drive.
type Services struct {
	Drafting driving.DraftingService
	History  driving.HistoryService
	Query    driving.QueryService
	Library  driving.LibraryService
	Settings driving.SettingsService

	// Watcher reports measurement file changes for the watch command.
	Watcher driven.MeasurementWatcher
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	draftingService = s.Drafting
	historyService = s.History
	queryService = s.Query
	libraryService = s.Library
	settingsService = s.Settings
	measurementWatcher = s.Watcher
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

var (
	errDraftingNotConfigured = errors.New("drafting service not configured")
	errHistoryNotConfigured  = errors.New("history service not configured")
	errQueryNotConfigured    = errors.New("query service not configured")
	errLibraryNotConfigured  = errors.New("library service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
)

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
