package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrArchiveCorrupt indicates the archive's central index could not be
	// parsed. This is the only fatal ingestion error: the run aborts with
	// nothing written.
	ErrArchiveCorrupt = errors.New("archive index unreadable")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrHostInsert indicates the host's own record could not be persisted.
	// Child rows cannot reference an unknown host, so the host is skipped
	// and the run continues.
	ErrHostInsert = errors.New("host insert failed")

	// ErrReaderClosed indicates the archive reader has been closed.
	ErrReaderClosed = errors.New("archive reader closed")
)
