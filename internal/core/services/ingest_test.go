package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashware/dredge-cli/internal/adapters/driven/storage/memory"
	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// fakeArchive serves a fixed entry list and content map through the
// ArchiveReader port.
type fakeArchive struct {
	entries []domain.ArchiveEntry
	content map[string]string
	closed  bool
}

func (a *fakeArchive) Scan() ([]domain.ArchiveEntry, error) {
	return a.entries, nil
}

func (a *fakeArchive) ReadBytes(entry domain.ArchiveEntry) ([]byte, error) {
	text, ok := a.content[entry.Path]
	if !ok {
		return nil, errors.New("no such entry")
	}
	return []byte(text), nil
}

func (a *fakeArchive) ReadText(entry domain.ArchiveEntry) (string, error) {
	data, err := a.ReadBytes(entry)
	return string(data), err
}

func (a *fakeArchive) Close() error {
	a.closed = true
	return nil
}

func wrapperDumpArchive() *fakeArchive {
	content := map[string]string{
		"dump/DESKTOP-A/passwords.txt": "https://a.example.com | u1 | p1 | Chrome\n" +
			"https://b.example.com | u2 | p1\n",
		"dump/DESKTOP-A/system_info.txt": "Computer Name: DESKTOP-A\nOS: Windows 10\nLocal Time: 12/01/2024 10:30:05\n",
		"dump/DESKTOP-A/software.txt":    "7-Zip 19.00 (x64)\nSteam\n",
		"dump/DESKTOP-B/passwords.txt":   "https://c.example.com | u3 | p2\n",
	}
	var entries []domain.ArchiveEntry
	for _, path := range []string{
		"dump/DESKTOP-A/passwords.txt",
		"dump/DESKTOP-A/system_info.txt",
		"dump/DESKTOP-A/software.txt",
		"dump/DESKTOP-B/passwords.txt",
	} {
		entries = append(entries, domain.ArchiveEntry{Path: path, Size: int64(len(content[path]))})
	}
	return &fakeArchive{entries: entries, content: content}
}

func newTestOrchestrator(
	t *testing.T,
	archive *fakeArchive,
	hostStore *memory.HostStore,
	writer *memory.RelationalWriter,
	sink driven.ProgressSink,
) *IngestOrchestrator {
	t.Helper()

	config := memory.NewConfigStore()
	require.NoError(t, config.Set("ingest.output_root", t.TempDir()))

	opener := func(path string) (driven.ArchiveReader, error) {
		return archive, nil
	}
	return NewIngestOrchestrator(hostStore, writer, NewSettingsService(config), sink, opener)
}

func TestIngest_EndToEnd(t *testing.T) {
	archive := wrapperDumpArchive()
	hostStore := memory.NewHostStore()
	writer := memory.NewRelationalWriter()
	sink := &recordingSink{}
	o := newTestOrchestrator(t, archive, hostStore, writer, sink)

	summary, err := o.Ingest(context.Background(), "drop.zip")
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, domain.TopologyPreDirectory, summary.Topology)
	assert.Equal(t, 2, summary.HostsFound)
	assert.Equal(t, 2, summary.HostsProcessed)
	assert.Equal(t, 0, summary.HostsSkipped)
	assert.Equal(t, 0, summary.HostsFailed)
	assert.Equal(t, 3, summary.CredentialsSaved)
	assert.Equal(t, 4, summary.FilesSaved)
	assert.Equal(t, 2, summary.SoftwareSaved)
	assert.Equal(t, 0, summary.FilesFailed)
	assert.True(t, archive.closed)

	hosts, err := hostStore.ListHosts(context.Background())
	require.NoError(t, err)
	require.Len(t, hosts, 2)

	hostA, err := hostStore.GetHost(context.Background(), "DESKTOP-A")
	require.NoError(t, err)
	assert.Equal(t, "DESKTOP-A", hostA.ComputerName)
	assert.Equal(t, "Windows 10", hostA.OSName)
	assert.Equal(t, "2024-01-12 10:30:05", hostA.LogDate)
	assert.Equal(t, 2, hostA.CredentialCount)
	assert.Equal(t, 3, hostA.FileCount)
	assert.Equal(t, 2, hostA.SoftwareCount)

	creds := writer.Credentials[hostA.ID]
	require.Len(t, creds, 2)
	assert.Equal(t, "a.example.com", creds[0].Domain)
	assert.Equal(t, "com", creds[0].TLD)

	stats := writer.PasswordStats[hostA.ID]
	require.Len(t, stats, 1)
	assert.Equal(t, "p1", stats[0].Password)
	assert.Equal(t, 2, stats[0].Count)

	// The final progress event is always emitted.
	require.NotEmpty(t, sink.progress)
	last := sink.progress[len(sink.progress)-1]
	assert.Equal(t, 2, last.HostIndex)
	assert.Equal(t, 2, last.HostTotal)
}

func TestIngest_CredentialFreeHostStillCountsFiles(t *testing.T) {
	content := map[string]string{
		"dump/DESKTOP-A/passwords.txt": "https://a.example.com | u1 | p1 | Chrome\n" +
			"https://b.example.com | u2 | p2\n",
		"dump/DESKTOP-A/system_info.txt": "Computer Name: DESKTOP-A\n",
		"dump/DESKTOP-A/software.txt":    "Steam\n",
		"dump/DESKTOP-B/notes.txt":       "nothing of interest\n",
	}
	var entries []domain.ArchiveEntry
	for _, path := range []string{
		"dump/DESKTOP-A/passwords.txt",
		"dump/DESKTOP-A/system_info.txt",
		"dump/DESKTOP-A/software.txt",
		"dump/DESKTOP-B/notes.txt",
	} {
		entries = append(entries, domain.ArchiveEntry{Path: path, Size: int64(len(content[path]))})
	}
	archive := &fakeArchive{entries: entries, content: content}
	hostStore := memory.NewHostStore()
	writer := memory.NewRelationalWriter()
	o := newTestOrchestrator(t, archive, hostStore, writer, nil)

	summary, err := o.Ingest(context.Background(), "drop.zip")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.HostsFound)
	assert.Equal(t, 2, summary.HostsProcessed)
	assert.Equal(t, 2, summary.CredentialsSaved)
	assert.Equal(t, 4, summary.FilesSaved)

	hostB, err := hostStore.GetHost(context.Background(), "DESKTOP-B")
	require.NoError(t, err)
	assert.Equal(t, 0, hostB.CredentialCount)
	assert.Equal(t, 1, hostB.FileCount)
	assert.Empty(t, writer.Credentials[hostB.ID])
}

func TestIngest_MaterializesUnderRunDirectory(t *testing.T) {
	archive := wrapperDumpArchive()
	hostStore := memory.NewHostStore()
	writer := memory.NewRelationalWriter()

	config := memory.NewConfigStore()
	outputRoot := t.TempDir()
	require.NoError(t, config.Set("ingest.output_root", outputRoot))
	opener := func(string) (driven.ArchiveReader, error) { return archive, nil }
	o := NewIngestOrchestrator(hostStore, writer, NewSettingsService(config), nil, opener)

	summary, err := o.Ingest(context.Background(), "drop.zip")
	require.NoError(t, err)

	hostA, err := hostStore.GetHost(context.Background(), "DESKTOP-A")
	require.NoError(t, err)

	extracted := filepath.Join(outputRoot, "extracted",
		summary.StartedAt.Format("2006-01-02"), summary.RunID, hostA.ID, "passwords.txt")
	data, err := os.ReadFile(extracted)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.example.com")
}

func TestIngest_KnownHostSkippedWithoutReads(t *testing.T) {
	archive := wrapperDumpArchive()
	hostStore := memory.NewHostStore()
	require.NoError(t, hostStore.InsertHost(context.Background(), domain.HostRecord{
		ID:   "prior",
		Name: "DESKTOP-A",
		Hash: HostHash("DESKTOP-A"),
	}))
	writer := memory.NewRelationalWriter()
	o := newTestOrchestrator(t, archive, hostStore, writer, nil)

	summary, err := o.Ingest(context.Background(), "drop.zip")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.HostsFound)
	assert.Equal(t, 1, summary.HostsProcessed)
	assert.Equal(t, 1, summary.HostsSkipped)
	// Only DESKTOP-B's single credential line lands.
	assert.Equal(t, 1, summary.CredentialsSaved)
	assert.Equal(t, 1, summary.FilesSaved)
	assert.Empty(t, writer.Credentials["prior"])
}

func TestIngest_HostInsertFailureIsolated(t *testing.T) {
	archive := wrapperDumpArchive()
	hostStore := memory.NewHostStore()
	hostStore.InsertErr = errors.New("disk full")
	writer := memory.NewRelationalWriter()
	sink := &recordingSink{}
	o := newTestOrchestrator(t, archive, hostStore, writer, sink)

	summary, err := o.Ingest(context.Background(), "drop.zip")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.HostsFailed)
	assert.Equal(t, 0, summary.HostsProcessed)
	assert.Equal(t, 0, summary.CredentialsSaved)
	assert.Empty(t, writer.Credentials)
}

func TestIngest_OpenFailurePropagates(t *testing.T) {
	opener := func(string) (driven.ArchiveReader, error) {
		return nil, domain.ErrArchiveCorrupt
	}
	o := NewIngestOrchestrator(memory.NewHostStore(), memory.NewRelationalWriter(),
		NewSettingsService(nil), nil, opener)

	summary, err := o.Ingest(context.Background(), "bad.zip")

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrArchiveCorrupt)
}

func TestIngest_CancelledContextStopsHostLoop(t *testing.T) {
	archive := wrapperDumpArchive()
	hostStore := memory.NewHostStore()
	writer := memory.NewRelationalWriter()
	o := newTestOrchestrator(t, archive, hostStore, writer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := o.Ingest(ctx, "drop.zip")

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.HostsFound)
	assert.Equal(t, 0, summary.HostsProcessed)
}

func TestIngest_EmptyArchiveFindsZeroHosts(t *testing.T) {
	archive := &fakeArchive{}
	hostStore := memory.NewHostStore()
	writer := memory.NewRelationalWriter()
	o := newTestOrchestrator(t, archive, hostStore, writer, nil)

	summary, err := o.Ingest(context.Background(), "empty.zip")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.HostsFound)
	assert.Equal(t, 0, summary.HostsProcessed)
}
