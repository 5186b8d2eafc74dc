package domain

import "time"

// HostStatus tracks whether a grouped host is new to the store.
type HostStatus string

// Host group statuses.
const (
	// HostStatusNew marks a host not yet on record: its entries will be
	// materialized, parsed and persisted.
	HostStatusNew HostStatus = "new"

	// HostStatusSkipped marks a host whose hash already exists in the
	// store. Its entries' content is never read.
	HostStatusSkipped HostStatus = "skipped"
)

// HostGroup groups one host's archive entries for processing.
// Created once during grouping; only Status changes afterwards.
type HostGroup struct {
	// Name is the host name as it appears in the archive.
	Name string

	// ID is freshly generated for this ingestion run.
	ID string

	// Hash is the stable hash of the lowercased host name. It identifies
	// the host across repeated ingestions of differently-named archives.
	Hash string

	// Entries are the member archive entries, in scan order.
	Entries []ArchiveEntry

	// NameIndex is the index of the host name segment within member
	// entry paths: 1 beneath a wrapper directory, 0 otherwise.
	NameIndex int

	// Status is New or Skipped after the bulk dedupe lookup.
	Status HostStatus
}

// HostRecord is the persisted shape of a host, including the system
// fingerprint parsed from its system-info file and per-kind totals.
type HostRecord struct {
	ID   string
	Name string
	Hash string

	// Fingerprint fields, best effort from the system-info parser.
	ComputerName string
	OSName       string
	UserName     string
	IPAddress    string
	Country      string
	HWID         string

	// LogDate is the normalized log date/time, or the untouched original
	// string if no layout matched.
	LogDate string

	CredentialCount int
	FileCount       int
	SoftwareCount   int

	IngestedAt time.Time
}
