package memory

import (
	"context"
	"sync"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// Ensure RelationalWriter implements the interface.
var _ driven.RelationalWriter = (*RelationalWriter)(nil)

// RelationalWriter is an in-memory implementation of
// driven.RelationalWriter for testing. Each insert call appends one
// batch, so tests can inspect batch boundaries as well as rows.
type RelationalWriter struct {
	mu sync.Mutex

	Credentials   map[string][]domain.Credential
	PasswordStats map[string][]domain.PasswordStat
	Files         map[string][]domain.FileMetadata
	Software      map[string][]domain.SoftwareEntry

	// CredentialBatches records the size of each InsertCredentials call.
	CredentialBatches []int

	// FailOn, when set, is consulted before every insert. Returning a
	// non-nil error fails that batch without recording its rows.
	FailOn func(kind string, batchIndex int) error

	batchIndex map[string]int
}

// NewRelationalWriter creates a new in-memory relational writer.
func NewRelationalWriter() *RelationalWriter {
	return &RelationalWriter{
		Credentials:   make(map[string][]domain.Credential),
		PasswordStats: make(map[string][]domain.PasswordStat),
		Files:         make(map[string][]domain.FileMetadata),
		Software:      make(map[string][]domain.SoftwareEntry),
		batchIndex:    make(map[string]int),
	}
}

// InsertCredentials appends one batch of credential rows.
func (w *RelationalWriter) InsertCredentials(ctx context.Context, hostID string, rows []domain.Credential) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkFail("credentials"); err != nil {
		return err
	}
	w.Credentials[hostID] = append(w.Credentials[hostID], rows...)
	w.CredentialBatches = append(w.CredentialBatches, len(rows))
	return nil
}

// InsertPasswordStats appends one batch of password stat rows.
func (w *RelationalWriter) InsertPasswordStats(ctx context.Context, hostID string, rows []domain.PasswordStat) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkFail("password_stats"); err != nil {
		return err
	}
	w.PasswordStats[hostID] = append(w.PasswordStats[hostID], rows...)
	return nil
}

// InsertFiles appends one batch of file metadata rows.
func (w *RelationalWriter) InsertFiles(ctx context.Context, hostID string, rows []domain.FileMetadata) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkFail("files"); err != nil {
		return err
	}
	w.Files[hostID] = append(w.Files[hostID], rows...)
	return nil
}

// InsertSoftware appends one batch of software rows.
func (w *RelationalWriter) InsertSoftware(ctx context.Context, hostID string, rows []domain.SoftwareEntry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkFail("software"); err != nil {
		return err
	}
	w.Software[hostID] = append(w.Software[hostID], rows...)
	return nil
}

func (w *RelationalWriter) checkFail(kind string) error {
	idx := w.batchIndex[kind]
	w.batchIndex[kind] = idx + 1
	if w.FailOn != nil {
		return w.FailOn(kind, idx)
	}
	return nil
}
