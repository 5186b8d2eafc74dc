package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
	"github.com/stashware/dredge-cli/internal/logger"
)

// BatchPersister converts record lists into fixed-size bulk writes with
// per-batch fault isolation: a failing batch is logged and skipped,
// already-committed batches remain committed, and there is no automatic
// retry of the same batch.
type BatchPersister struct {
	writer   driven.RelationalWriter
	settings domain.IngestSettings
	sink     driven.ProgressSink
}

// NewBatchPersister creates a persister with the given batch sizes.
func NewBatchPersister(
	writer driven.RelationalWriter,
	settings domain.IngestSettings,
	sink driven.ProgressSink,
) *BatchPersister {
	return &BatchPersister{writer: writer, settings: settings.Normalized(), sink: sink}
}

// BatchOutcome accounts one record kind's persistence for a host.
type BatchOutcome struct {
	Saved   int
	Skipped int
}

// SaveCredentials persists credential rows in fixed-size batches.
func (b *BatchPersister) SaveCredentials(
	ctx context.Context,
	hostID string,
	rows []domain.Credential,
) BatchOutcome {
	return persistBatches(ctx, b, "credentials", rows, b.settings.CredentialsBatchSize,
		b.writer.InsertCredentials, hostID)
}

// SavePasswordStats persists the per-host password frequency table.
// The map is flattened to sorted rows so batches are deterministic.
func (b *BatchPersister) SavePasswordStats(
	ctx context.Context,
	hostID string,
	counts map[string]int,
) BatchOutcome {
	rows := make([]domain.PasswordStat, 0, len(counts))
	for password, count := range counts {
		rows = append(rows, domain.PasswordStat{Password: password, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Password < rows[j].Password })

	return persistBatches(ctx, b, "password_stats", rows, b.settings.PasswordStatsBatchSize,
		b.writer.InsertPasswordStats, hostID)
}

// SaveFiles persists file metadata rows in fixed-size batches.
func (b *BatchPersister) SaveFiles(
	ctx context.Context,
	hostID string,
	rows []domain.FileMetadata,
) BatchOutcome {
	return persistBatches(ctx, b, "files", rows, b.settings.FilesBatchSize,
		b.writer.InsertFiles, hostID)
}

// SaveSoftware persists software inventory rows in fixed-size batches.
// Software shares the files batch size; inventories are small.
func (b *BatchPersister) SaveSoftware(
	ctx context.Context,
	hostID string,
	rows []domain.SoftwareEntry,
) BatchOutcome {
	return persistBatches(ctx, b, "software", rows, b.settings.FilesBatchSize,
		b.writer.InsertSoftware, hostID)
}

// persistBatches splits rows into fixed batches and issues one bulk
// insert per batch, isolating any failure to that batch.
func persistBatches[T any](
	ctx context.Context,
	b *BatchPersister,
	table string,
	rows []T,
	size int,
	insert func(context.Context, string, []T) error,
	hostID string,
) BatchOutcome {
	var outcome BatchOutcome
	for i, batch := range splitBatches(rows, size) {
		if err := insert(ctx, hostID, batch); err != nil {
			logger.Warn("Batch %d of %s failed for host %s: %v", i+1, table, hostID, err)
			if b.sink != nil {
				b.sink.Log(domain.LogEvent{
					Line:     fmt.Sprintf("batch %d of %s failed: %v", i+1, table, err),
					Severity: domain.SeverityWarn,
				})
			}
			outcome.Skipped += len(batch)
			continue
		}
		outcome.Saved += len(batch)
	}
	return outcome
}

// splitBatches splits rows into slices of at most size elements.
func splitBatches[T any](rows []T, size int) [][]T {
	if len(rows) == 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	batches := make([][]T, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		batches = append(batches, rows[start:min(start+size, len(rows))])
	}
	return batches
}
