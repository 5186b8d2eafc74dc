// Package cli implements the dredge command-line interface using cobra.
// Commands receive their services through Configure; a command invoked
// before its service is wired reports that instead of panicking.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/stashware/dredge-cli/internal/core/ports/driven"
	"github.com/stashware/dredge-cli/internal/core/ports/driving"
	"github.com/stashware/dredge-cli/internal/core/services"
	"github.com/stashware/dredge-cli/internal/logger"
)

// Injected services. Set once by Configure before Execute runs.
var (
	version         = "dev"
	ingestService   driving.IngestOrchestrator
	hostStore       driven.HostStore
	settingsService *services.SettingsService
	configStore     driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dredge",
	Short: "Ingest bulk archive drops into a searchable host store",
	Long: `Dredge ingests zip archives of host data dumps: it infers the
archive's directory topology, groups entries by host, deduplicates
hosts already on record, extracts each new host's files to disk and
persists parsed credentials, software inventories and system
fingerprints to a local SQLite database.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Dependencies carries the wired services the commands need.
type Dependencies struct {
	Ingest   driving.IngestOrchestrator
	Hosts    driven.HostStore
	Settings *services.SettingsService
	Config   driven.ConfigStore
	Version  string
}

// Configure injects services into the command tree.
func Configure(deps Dependencies) {
	ingestService = deps.Ingest
	hostStore = deps.Hosts
	settingsService = deps.Settings
	configStore = deps.Config
	if deps.Version != "" {
		version = deps.Version
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
