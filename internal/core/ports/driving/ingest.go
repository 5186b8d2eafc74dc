package driving

import (
	"context"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

// IngestOrchestrator runs the full ingestion pipeline over one archive.
type IngestOrchestrator interface {
	// Ingest processes a single archive end to end and returns the run's
	// final accounting. The returned error is non-nil only for the fatal
	// case (unreadable archive index) or caller-driven cancellation;
	// every other failure is reflected in the summary.
	Ingest(ctx context.Context, archivePath string) (*domain.RunSummary, error)
}
