package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage ingestion settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

Known keys:
  ingest.credentials_batch_size
  ingest.password_stats_batch_size
  ingest.files_batch_size
  ingest.file_write_parallel_limit
  ingest.output_root`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings := settingsService.Ingest()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[Ingest]")
	cmd.Printf("  Credentials batch size:    %d\n", settings.CredentialsBatchSize)
	cmd.Printf("  Password stats batch size: %d\n", settings.PasswordStatsBatchSize)
	cmd.Printf("  Files batch size:          %d\n", settings.FilesBatchSize)
	cmd.Printf("  File write parallelism:    %d\n", settings.FileWriteParallelLimit)
	cmd.Printf("  Output root:               %s\n", settings.OutputRoot)

	if configStore != nil {
		cmd.Println()
		cmd.Printf("Config file: %s\n", configStore.Path())
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Numeric keys are stored as integers so GetInt finds them.
	var value any = raw
	if strings.HasSuffix(key, "_size") || strings.HasSuffix(key, "_limit") {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s expects an integer, got %q", key, raw)
		}
		if n <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
		value = n
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}

	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}
