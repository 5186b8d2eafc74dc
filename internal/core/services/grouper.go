package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// GroupHosts groups scanned entries by host in a single pass, then
// issues one bulk existence query with every group's hash and marks each
// group New or Skipped. Skipped groups keep their entries, but nothing
// ever reads their content.
func GroupHosts(
	ctx context.Context,
	entries []domain.ArchiveEntry,
	info domain.StructureInfo,
	hostStore driven.HostStore,
) ([]*domain.HostGroup, error) {
	var groups []*domain.HostGroup
	byName := make(map[string]*domain.HostGroup)

	nameIndex := 0
	if info.Kind == domain.TopologyPreDirectory {
		nameIndex = 1
	}

	for _, entry := range entries {
		name, ok := ResolveHostName(entry, info)
		if !ok {
			continue
		}
		group, exists := byName[name]
		if !exists {
			group = &domain.HostGroup{
				Name:      name,
				ID:        uuid.New().String(),
				Hash:      HostHash(name),
				Status:    domain.HostStatusNew,
				NameIndex: nameIndex,
			}
			byName[name] = group
			groups = append(groups, group)
		}
		group.Entries = append(group.Entries, entry)
	}

	if len(groups) == 0 {
		return nil, nil
	}

	hashes := make([]string, len(groups))
	for i, g := range groups {
		hashes[i] = g.Hash
	}
	existing, err := hostStore.BulkExists(ctx, hashes)
	if err != nil {
		return nil, fmt.Errorf("bulk existence lookup: %w", err)
	}

	for _, g := range groups {
		if _, ok := existing[g.Hash]; ok {
			g.Status = domain.HostStatusSkipped
		}
	}
	return groups, nil
}
