package driven

import (
	"context"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

// RelationalWriter issues one bulk insert per call. Each call is a
// single atomic batch: it either commits in full or fails in full, so
// the batch persister can isolate a failure to one batch and keep
// already-committed batches committed.
type RelationalWriter interface {
	// InsertCredentials bulk-inserts credential rows for a host.
	InsertCredentials(ctx context.Context, hostID string, rows []domain.Credential) error

	// InsertPasswordStats bulk-upserts password frequency rows for a host.
	InsertPasswordStats(ctx context.Context, hostID string, rows []domain.PasswordStat) error

	// InsertFiles bulk-inserts file metadata rows for a host.
	InsertFiles(ctx context.Context, hostID string, rows []domain.FileMetadata) error

	// InsertSoftware bulk-inserts software inventory rows for a host.
	InsertSoftware(ctx context.Context, hostID string, rows []domain.SoftwareEntry) error
}
