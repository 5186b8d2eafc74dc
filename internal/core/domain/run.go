package domain

import "time"

// Severity classifies a run log line emitted through the progress sink.
type Severity string

// Log severities.
const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// ProgressEvent reports per-host progress through the sink.
// Fire-and-forget: a slow sink must never stall ingestion.
type ProgressEvent struct {
	// HostIndex is 1-based within the run.
	HostIndex int
	HostTotal int
	HostName  string
}

// LogEvent is a run log line routed through the progress sink.
type LogEvent struct {
	Line     string
	Severity Severity
}

// RunSummary is the final accounting of one ingestion run. Every
// non-fatal failure is reflected here instead of being propagated, so
// the caller can present a pass/fail picture without the pipeline
// throwing for anything but a corrupt archive.
type RunSummary struct {
	RunID       string
	ArchivePath string
	Topology    Topology

	HostsFound     int
	HostsProcessed int
	HostsSkipped   int
	HostsFailed    int

	CredentialsSaved   int
	PasswordStatsSaved int
	FilesSaved         int
	SoftwareSaved      int

	// RecordsSkipped counts rows lost to failed batches.
	RecordsSkipped int

	// FilesFailed counts entries whose read or write failed and were
	// excluded from persistence.
	FilesFailed int

	StartedAt time.Time
	Duration  time.Duration
}
