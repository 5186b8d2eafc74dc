package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/watcher"
)

var (
	ingestWatch      bool
	ingestOutputRoot string
	ingestSettle     time.Duration
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <archive.zip>",
	Short: "Ingest a bulk archive drop",
	Long: `Processes one zip archive end to end: scan, topology inference,
host grouping with deduplication, file extraction and batched
persistence. Hosts already on record are skipped without reading
their content.

With --watch the argument is a drop directory instead of an archive:
dredge ingests archives already present, then keeps watching for new
ones until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "watch a drop directory for incoming archives")
	ingestCmd.Flags().StringVar(&ingestOutputRoot, "output-root", "", "directory to extract files under (overrides config)")
	ingestCmd.Flags().DurationVar(&ingestSettle, "settle", 0, "how long an archive must be stable before watch ingests it")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if ingestOutputRoot != "" && settingsService != nil {
		settingsService.OverrideOutputRoot(ingestOutputRoot)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ingestWatch {
		return runWatch(ctx, cmd, args[0])
	}
	return ingestOne(ctx, cmd, args[0])
}

func ingestOne(ctx context.Context, cmd *cobra.Command, archivePath string) error {
	cmd.Printf("Ingesting %s...\n", archivePath)

	summary, err := ingestService.Ingest(ctx, archivePath)
	if summary != nil {
		printSummary(cmd, summary)
	}
	if err != nil {
		if errors.Is(err, domain.ErrArchiveCorrupt) {
			return fmt.Errorf("archive is corrupt or not a zip: %s", archivePath)
		}
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}

func runWatch(ctx context.Context, cmd *cobra.Command, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("drop directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cmd.Printf("Watching %s for archives. Press Ctrl+C to stop.\n", dir)

	w := watcher.New(dir, ingestSettle, func(ctx context.Context, path string) {
		if err := ingestOne(ctx, cmd, path); err != nil {
			cmd.Printf("Error: %v\n", err)
		}
	})

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Println("Watch stopped.")
	return nil
}

func printSummary(cmd *cobra.Command, s *domain.RunSummary) {
	cmd.Println()
	cmd.Println("Run Summary")
	cmd.Println("===========")
	cmd.Printf("  Run ID:    %s\n", s.RunID)
	cmd.Printf("  Topology:  %s\n", s.Topology)
	cmd.Printf("  Duration:  %s\n", s.Duration.Round(time.Millisecond))
	cmd.Println()
	cmd.Printf("  Hosts found:     %d\n", s.HostsFound)
	cmd.Printf("  Hosts processed: %d\n", s.HostsProcessed)
	cmd.Printf("  Hosts skipped:   %d\n", s.HostsSkipped)
	if s.HostsFailed > 0 {
		cmd.Printf("  Hosts failed:    %d\n", s.HostsFailed)
	}
	cmd.Println()
	cmd.Printf("  Credentials:     %d\n", s.CredentialsSaved)
	cmd.Printf("  Password stats:  %d\n", s.PasswordStatsSaved)
	cmd.Printf("  Files:           %d\n", s.FilesSaved)
	cmd.Printf("  Software:        %d\n", s.SoftwareSaved)
	if s.RecordsSkipped > 0 {
		cmd.Printf("  Records skipped: %d (failed batches)\n", s.RecordsSkipped)
	}
	if s.FilesFailed > 0 {
		cmd.Printf("  Files failed:    %d\n", s.FilesFailed)
	}
}
