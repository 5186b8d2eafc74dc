package domain

// Default ingestion settings, used whenever the settings store is
// unreachable or carries an invalid value.
const (
	DefaultCredentialsBatchSize   = 500
	DefaultPasswordStatsBatchSize = 500
	DefaultFilesBatchSize         = 250
	DefaultFileWriteParallelLimit = 8
)

// IngestSettings holds the externally configured ingestion knobs.
// All sizes are positive integers; Normalized replaces anything else
// with the defaults so the pipeline never sees a zero batch.
type IngestSettings struct {
	// CredentialsBatchSize is the bulk-insert size for credential rows.
	CredentialsBatchSize int

	// PasswordStatsBatchSize is the bulk-insert size for password
	// frequency rows.
	PasswordStatsBatchSize int

	// FilesBatchSize is the bulk-insert size for file metadata rows.
	FilesBatchSize int

	// FileWriteParallelLimit bounds how many files the materializer may
	// hold in memory at once.
	FileWriteParallelLimit int

	// OutputRoot is the directory materialized files are written under.
	OutputRoot string
}

// DefaultIngestSettings returns settings with sensible defaults.
func DefaultIngestSettings() IngestSettings {
	return IngestSettings{
		CredentialsBatchSize:   DefaultCredentialsBatchSize,
		PasswordStatsBatchSize: DefaultPasswordStatsBatchSize,
		FilesBatchSize:         DefaultFilesBatchSize,
		FileWriteParallelLimit: DefaultFileWriteParallelLimit,
		OutputRoot:             ".",
	}
}

// Normalized returns a copy with every non-positive value replaced by
// its default.
func (s IngestSettings) Normalized() IngestSettings {
	defaults := DefaultIngestSettings()
	if s.CredentialsBatchSize <= 0 {
		s.CredentialsBatchSize = defaults.CredentialsBatchSize
	}
	if s.PasswordStatsBatchSize <= 0 {
		s.PasswordStatsBatchSize = defaults.PasswordStatsBatchSize
	}
	if s.FilesBatchSize <= 0 {
		s.FilesBatchSize = defaults.FilesBatchSize
	}
	if s.FileWriteParallelLimit <= 0 {
		s.FileWriteParallelLimit = defaults.FileWriteParallelLimit
	}
	if s.OutputRoot == "" {
		s.OutputRoot = defaults.OutputRoot
	}
	return s
}
