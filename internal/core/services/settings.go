package services

import (
	"errors"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
	"github.com/stashware/dredge-cli/internal/logger"
)

// Settings keys in the config store.
const (
	keyCredentialsBatchSize   = "ingest.credentials_batch_size"
	keyPasswordStatsBatchSize = "ingest.password_stats_batch_size"
	keyFilesBatchSize         = "ingest.files_batch_size"
	keyFileWriteParallelLimit = "ingest.file_write_parallel_limit"
	keyOutputRoot             = "ingest.output_root"
)

// SettingsService reads ingestion settings from the config store,
// falling back to defaults whenever the store is unreachable or a value
// is invalid. It is explicitly injected and explicitly refreshable -
// there is no module-level cache - so tests can supply deterministic
// batch sizes.
type SettingsService struct {
	store driven.ConfigStore

	// outputRootOverride, when non-empty, wins over the stored value for
	// the lifetime of this process. Set from a command-line flag.
	outputRootOverride string
}

// NewSettingsService creates a settings service backed by the given
// config store. A nil store yields pure defaults.
func NewSettingsService(store driven.ConfigStore) *SettingsService {
	return &SettingsService{store: store}
}

// Ingest returns the current ingestion settings. Every non-positive or
// missing value is replaced by its default; the pipeline never sees a
// zero batch size.
func (s *SettingsService) Ingest() domain.IngestSettings {
	settings := domain.DefaultIngestSettings()
	if s.store != nil {
		settings = domain.IngestSettings{
			CredentialsBatchSize:   s.store.GetInt(keyCredentialsBatchSize),
			PasswordStatsBatchSize: s.store.GetInt(keyPasswordStatsBatchSize),
			FilesBatchSize:         s.store.GetInt(keyFilesBatchSize),
			FileWriteParallelLimit: s.store.GetInt(keyFileWriteParallelLimit),
			OutputRoot:             s.store.GetString(keyOutputRoot),
		}
	}
	if s.outputRootOverride != "" {
		settings.OutputRoot = s.outputRootOverride
	}
	return settings.Normalized()
}

// OverrideOutputRoot forces the output root for this process without
// touching the stored configuration.
func (s *SettingsService) OverrideOutputRoot(path string) {
	s.outputRootOverride = path
}

// SetOutputRoot persists a new output root to the config store.
func (s *SettingsService) SetOutputRoot(path string) error {
	if s.store == nil {
		return errors.New("no config store configured")
	}
	return s.store.Set(keyOutputRoot, path)
}

// Refresh re-reads settings from the backing store. A load failure
// leaves the previous (or default) values in effect.
func (s *SettingsService) Refresh() {
	if s.store == nil {
		return
	}
	if err := s.store.Load(); err != nil {
		logger.Warn("Settings reload failed, keeping current values: %v", err)
	}
}
