package driven

import (
	"context"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

// HostStore persists host records and answers bulk dedupe lookups.
type HostStore interface {
	// BulkExists reports which of the given host hashes are already on
	// record. One call per ingestion run with all hashes at once - never
	// one query per host.
	BulkExists(ctx context.Context, hashes []string) (map[string]struct{}, error)

	// InsertHost stores a new host record. Its failure aborts that
	// host's processing: no child rows may reference an unknown host.
	InsertHost(ctx context.Context, record domain.HostRecord) error

	// UpdateTotals sets the per-kind record totals after a host's
	// processing completes.
	UpdateTotals(ctx context.Context, hostID string, credentials, files, software int) error

	// GetHost retrieves a host by ID or name.
	GetHost(ctx context.Context, idOrName string) (*domain.HostRecord, error)

	// ListHosts returns all persisted hosts.
	ListHosts(ctx context.Context) ([]domain.HostRecord, error)
}
