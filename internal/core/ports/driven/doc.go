// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ArchiveReader: Streaming access to one bulk-drop archive
//   - HostStore: Host persistence and bulk existence lookup
//   - RelationalWriter: Bulk inserts of per-host child rows
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil or a no-op - the application degrades gracefully:
//
//   - ProgressSink: Run progress and log events. Fire-and-forget; a slow
//     or unavailable sink never stalls ingestion.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, archive, or parser package
package driven
