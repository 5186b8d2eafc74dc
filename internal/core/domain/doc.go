// Package domain defines the core business entities for Dredge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ArchiveEntry: One entry scanned from a bulk-drop archive
//   - StructureInfo: The inferred host topology of an archive
//   - HostGroup: An archive's entries grouped under one host
//   - Credential / SoftwareEntry / SystemInfo: Parsed per-host records
//   - FileMetadata: A materialized file's on-disk record
//   - RunSummary: The outcome of one ingestion run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
