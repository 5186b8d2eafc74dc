package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// Ensure HostStore implements the interface.
var _ driven.HostStore = (*HostStore)(nil)

// HostStore is an in-memory implementation of driven.HostStore for testing.
type HostStore struct {
	mu    sync.RWMutex
	hosts map[string]domain.HostRecord // keyed by ID

	// BulkExistsCalls counts BulkExists invocations so tests can assert
	// the dedupe lookup runs once per ingestion.
	BulkExistsCalls int

	// InsertErr, when set, is returned by InsertHost.
	InsertErr error
}

// NewHostStore creates a new in-memory host store.
func NewHostStore() *HostStore {
	return &HostStore{
		hosts: make(map[string]domain.HostRecord),
	}
}

// BulkExists reports which of the given hashes are already on record.
func (s *HostStore) BulkExists(ctx context.Context, hashes []string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.BulkExistsCalls++

	known := make(map[string]struct{})
	for _, record := range s.hosts {
		known[record.Hash] = struct{}{}
	}

	found := make(map[string]struct{})
	for _, hash := range hashes {
		if _, ok := known[hash]; ok {
			found[hash] = struct{}{}
		}
	}
	return found, nil
}

// InsertHost stores a new host record.
func (s *HostStore) InsertHost(ctx context.Context, record domain.HostRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.InsertErr != nil {
		return s.InsertErr
	}
	if _, ok := s.hosts[record.ID]; ok {
		return fmt.Errorf("host %s: %w", record.ID, domain.ErrAlreadyExists)
	}
	s.hosts[record.ID] = record
	return nil
}

// UpdateTotals sets the per-kind record totals for a host.
func (s *HostStore) UpdateTotals(ctx context.Context, hostID string, credentials, files, software int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.hosts[hostID]
	if !ok {
		return fmt.Errorf("host %s: %w", hostID, domain.ErrNotFound)
	}
	record.CredentialCount = credentials
	record.FileCount = files
	record.SoftwareCount = software
	s.hosts[hostID] = record
	return nil
}

// GetHost retrieves a host by ID or name.
func (s *HostStore) GetHost(ctx context.Context, idOrName string) (*domain.HostRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.hosts[idOrName]; ok {
		return &record, nil
	}
	for _, record := range s.hosts {
		if record.Name == idOrName {
			return &record, nil
		}
	}
	return nil, fmt.Errorf("host %s: %w", idOrName, domain.ErrNotFound)
}

// ListHosts returns all persisted hosts, newest first.
func (s *HostStore) ListHosts(ctx context.Context) ([]domain.HostRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.HostRecord, 0, len(s.hosts))
	for _, record := range s.hosts {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].IngestedAt.After(records[j].IngestedAt)
	})
	return records, nil
}
