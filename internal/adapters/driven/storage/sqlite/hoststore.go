package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// bulkExistsChunkSize keeps IN-list queries under SQLite's bound
// parameter limit.
const bulkExistsChunkSize = 500

// hostStore implements driven.HostStore.
type hostStore struct {
	store *Store
}

var _ driven.HostStore = (*hostStore)(nil)

// BulkExists reports which of the given hashes are already on record.
// One logical lookup: the hash list is chunked only to respect the
// driver's bound parameter limit.
func (s *hostStore) BulkExists(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	for start := 0; start < len(hashes); start += bulkExistsChunkSize {
		end := min(start+bulkExistsChunkSize, len(hashes))
		chunk := hashes[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(chunk))
		for i, h := range chunk {
			args[i] = h
		}

		rows, err := s.store.db.QueryContext(ctx,
			"SELECT hash FROM hosts WHERE hash IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("querying host hashes: %w", err)
		}
		if err := collectHashes(rows, existing); err != nil {
			return nil, err
		}
	}
	return existing, nil
}

func collectHashes(rows *sql.Rows, into map[string]struct{}) error {
	defer rows.Close()
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return fmt.Errorf("scanning host hash: %w", err)
		}
		into[hash] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating host hashes: %w", err)
	}
	return nil
}

// InsertHost stores a new host record.
func (s *hostStore) InsertHost(ctx context.Context, record domain.HostRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO hosts (id, name, hash, computer_name, os_name, user_name,
			ip_address, country, hwid, log_date,
			credential_count, file_count, software_count, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Name, record.Hash, record.ComputerName, record.OSName,
		record.UserName, record.IPAddress, record.Country, record.HWID, record.LogDate,
		record.CredentialCount, record.FileCount, record.SoftwareCount, record.IngestedAt)

	if err != nil {
		return fmt.Errorf("inserting host: %w", err)
	}
	return nil
}

// UpdateTotals sets the per-kind record totals for a host.
func (s *hostStore) UpdateTotals(ctx context.Context, hostID string, credentials, files, software int) error {
	_, err := s.store.db.ExecContext(ctx, `
		UPDATE hosts SET credential_count = ?, file_count = ?, software_count = ?
		WHERE id = ?
	`, credentials, files, software, hostID)

	if err != nil {
		return fmt.Errorf("updating host totals: %w", err)
	}
	return nil
}

// GetHost retrieves a host by ID or name.
func (s *hostStore) GetHost(ctx context.Context, idOrName string) (*domain.HostRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, hash, computer_name, os_name, user_name,
			ip_address, country, hwid, log_date,
			credential_count, file_count, software_count, ingested_at
		FROM hosts WHERE id = ? OR name = ?
	`, idOrName, idOrName)

	record, err := scanHost(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning host: %w", err)
	}
	return record, nil
}

// ListHosts returns all persisted hosts.
func (s *hostStore) ListHosts(ctx context.Context) ([]domain.HostRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, hash, computer_name, os_name, user_name,
			ip_address, country, hwid, log_date,
			credential_count, file_count, software_count, ingested_at
		FROM hosts ORDER BY ingested_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying hosts: %w", err)
	}
	defer rows.Close()

	var hosts []domain.HostRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanHost(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning host: %w", err)
		}
		hosts = append(hosts, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hosts: %w", err)
	}
	return hosts, nil
}

// scanHost scans one host row via the given Scan function.
func scanHost(scan func(...any) error) (*domain.HostRecord, error) {
	var record domain.HostRecord
	var ingestedAt sql.NullTime
	if err := scan(&record.ID, &record.Name, &record.Hash, &record.ComputerName,
		&record.OSName, &record.UserName, &record.IPAddress, &record.Country,
		&record.HWID, &record.LogDate, &record.CredentialCount, &record.FileCount,
		&record.SoftwareCount, &ingestedAt); err != nil {
		return nil, err
	}
	if ingestedAt.Valid {
		record.IngestedAt = ingestedAt.Time
	}
	return &record, nil
}
