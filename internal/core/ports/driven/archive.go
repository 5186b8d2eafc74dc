package driven

import "github.com/stashware/dredge-cli/internal/core/domain"

// ArchiveReader is streaming access to one opened bulk-drop archive.
//
// The reader holds a single handle for the entire run: Scan is consumed
// once per pass, but content reads may be issued later, in any order,
// against the same handle. Implementations are not assumed safe for
// concurrent content reads; callers that parallelise around a reader
// must rely on the implementation's own serialization.
type ArchiveReader interface {
	// Scan returns metadata for every entry without decoding content.
	// Paths are normalized: forward slashes, no leading slash.
	Scan() ([]domain.ArchiveEntry, error)

	// ReadBytes decodes exactly one entry's content.
	ReadBytes(entry domain.ArchiveEntry) ([]byte, error)

	// ReadText decodes exactly one entry's content as text.
	ReadText(entry domain.ArchiveEntry) (string, error)

	// Close releases the archive handle.
	Close() error
}

// ArchiveOpener opens an archive by path. The orchestrator owns the
// returned reader's lifetime; nothing below it reopens the archive.
type ArchiveOpener func(path string) (ArchiveReader, error)
