package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashware/dredge-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testHost(id, name, hash string) domain.HostRecord {
	return domain.HostRecord{
		ID:         id,
		Name:       name,
		Hash:       hash,
		IngestedAt: time.Now().UTC(),
	}
}

func TestNewStore_RunsMigrations(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	var version int
	row := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations")
	require.NoError(t, row.Scan(&version))
	assert.GreaterOrEqual(t, version, 1)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.HostStore().InsertHost(context.Background(),
		testHost("h1", "DESKTOP-A", "hash-a")))
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations or lose data.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	host, err := store.HostStore().GetHost(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, "DESKTOP-A", host.Name)
}

func TestHostStore_InsertAndGet(t *testing.T) {
	store := newTestStore(t)
	hosts := store.HostStore()
	ctx := context.Background()

	record := domain.HostRecord{
		ID:           "h1",
		Name:         "DESKTOP-A",
		Hash:         "hash-a",
		ComputerName: "DESKTOP-A",
		OSName:       "Windows 10 Pro",
		UserName:     "jsmith",
		IPAddress:    "192.0.2.10",
		Country:      "DE",
		HWID:         "1A2B-3C4D",
		LogDate:      "2024-01-12 10:30:05",
		IngestedAt:   time.Now().UTC(),
	}
	require.NoError(t, hosts.InsertHost(ctx, record))

	byID, err := hosts.GetHost(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, record.Name, byID.Name)
	assert.Equal(t, record.OSName, byID.OSName)
	assert.Equal(t, record.LogDate, byID.LogDate)

	byName, err := hosts.GetHost(ctx, "DESKTOP-A")
	require.NoError(t, err)
	assert.Equal(t, "h1", byName.ID)
}

func TestHostStore_GetHost_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.HostStore().GetHost(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHostStore_DuplicateHashRejected(t *testing.T) {
	store := newTestStore(t)
	hosts := store.HostStore()
	ctx := context.Background()

	require.NoError(t, hosts.InsertHost(ctx, testHost("h1", "DESKTOP-A", "same-hash")))
	assert.Error(t, hosts.InsertHost(ctx, testHost("h2", "desktop-a", "same-hash")))
}

func TestHostStore_BulkExists(t *testing.T) {
	store := newTestStore(t)
	hosts := store.HostStore()
	ctx := context.Background()

	require.NoError(t, hosts.InsertHost(ctx, testHost("h1", "A", "hash-a")))
	require.NoError(t, hosts.InsertHost(ctx, testHost("h2", "B", "hash-b")))

	existing, err := hosts.BulkExists(ctx, []string{"hash-a", "hash-b", "hash-c"})
	require.NoError(t, err)

	assert.Len(t, existing, 2)
	assert.Contains(t, existing, "hash-a")
	assert.Contains(t, existing, "hash-b")
	assert.NotContains(t, existing, "hash-c")
}

func TestHostStore_BulkExists_EmptyInput(t *testing.T) {
	store := newTestStore(t)

	existing, err := store.HostStore().BulkExists(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, existing)
}

func TestHostStore_UpdateTotals(t *testing.T) {
	store := newTestStore(t)
	hosts := store.HostStore()
	ctx := context.Background()

	require.NoError(t, hosts.InsertHost(ctx, testHost("h1", "A", "hash-a")))
	require.NoError(t, hosts.UpdateTotals(ctx, "h1", 12, 34, 5))

	host, err := hosts.GetHost(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, 12, host.CredentialCount)
	assert.Equal(t, 34, host.FileCount)
	assert.Equal(t, 5, host.SoftwareCount)
}

func TestHostStore_ListHosts_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	hosts := store.HostStore()
	ctx := context.Background()

	older := testHost("h1", "A", "hash-a")
	older.IngestedAt = time.Now().UTC().Add(-time.Hour)
	newer := testHost("h2", "B", "hash-b")

	require.NoError(t, hosts.InsertHost(ctx, older))
	require.NoError(t, hosts.InsertHost(ctx, newer))

	list, err := hosts.ListHosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "h2", list[0].ID)
	assert.Equal(t, "h1", list[1].ID)
}

func TestRelationalWriter_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.HostStore().InsertHost(ctx, testHost("h1", "A", "hash-a")))

	writer := store.RelationalWriter()
	version := "19.00"

	require.NoError(t, writer.InsertCredentials(ctx, "h1", []domain.Credential{
		{URL: "https://a.example.com", Domain: "a.example.com", TLD: "com",
			Username: "u1", Password: "p1", Browser: "Chrome", SourceFilePath: "A/passwords.txt"},
		{URL: "https://b.example.com", Username: "u2", Password: "", SourceFilePath: "A/passwords.txt"},
	}))
	require.NoError(t, writer.InsertPasswordStats(ctx, "h1", []domain.PasswordStat{
		{Password: "p1", Count: 1},
	}))
	require.NoError(t, writer.InsertFiles(ctx, "h1", []domain.FileMetadata{
		{Path: "passwords.txt", Name: "passwords.txt", Size: 10,
			Type: domain.FileTypeText, LocalDiskPath: "/tmp/x"},
		{Path: "Browsers", Name: "Browsers", IsDir: true, Type: domain.FileTypeUnknown},
	}))
	require.NoError(t, writer.InsertSoftware(ctx, "h1", []domain.SoftwareEntry{
		{Name: "7-Zip", Version: &version, SourceFile: "A/software.txt"},
		{Name: "Steam", SourceFile: "A/software.txt"},
	}))

	var count int
	for _, q := range []string{
		"SELECT COUNT(*) FROM credentials WHERE host_id = 'h1'",
		"SELECT COUNT(*) FROM files WHERE host_id = 'h1'",
		"SELECT COUNT(*) FROM software WHERE host_id = 'h1'",
	} {
		require.NoError(t, store.db.QueryRow(q).Scan(&count))
		assert.Equal(t, 2, count)
	}

	// Empty password stored as empty string, not NULL.
	var password string
	require.NoError(t, store.db.QueryRow(
		"SELECT password FROM credentials WHERE username = 'u2'").Scan(&password))
	assert.Equal(t, "", password)

	// Nil version stored as NULL.
	var nullVersions int
	require.NoError(t, store.db.QueryRow(
		"SELECT COUNT(*) FROM software WHERE version IS NULL").Scan(&nullVersions))
	assert.Equal(t, 1, nullVersions)
}

func TestRelationalWriter_PasswordStatsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.HostStore().InsertHost(ctx, testHost("h1", "A", "hash-a")))

	writer := store.RelationalWriter()
	require.NoError(t, writer.InsertPasswordStats(ctx, "h1", []domain.PasswordStat{
		{Password: "p1", Count: 2},
	}))
	require.NoError(t, writer.InsertPasswordStats(ctx, "h1", []domain.PasswordStat{
		{Password: "p1", Count: 3},
	}))

	var count int
	require.NoError(t, store.db.QueryRow(
		"SELECT count FROM password_stats WHERE host_id = 'h1' AND password = 'p1'").Scan(&count))
	assert.Equal(t, 5, count)
}

func TestRelationalWriter_UnknownHostRejected(t *testing.T) {
	store := newTestStore(t)

	err := store.RelationalWriter().InsertCredentials(context.Background(), "ghost",
		[]domain.Credential{{URL: "https://x", Username: "u", Password: "p"}})
	assert.Error(t, err)
}

func TestRelationalWriter_FailedBatchRollsBackWhole(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.HostStore().InsertHost(ctx, testHost("h1", "A", "hash-a")))

	writer := store.RelationalWriter()
	require.NoError(t, writer.InsertFiles(ctx, "h1", []domain.FileMetadata{
		{Path: "ok.txt", Name: "ok.txt", Type: domain.FileTypeText},
	}))

	// A batch against an unknown host fails as a whole: no partial rows.
	err := writer.InsertFiles(ctx, "ghost", []domain.FileMetadata{
		{Path: "a.txt", Name: "a.txt", Type: domain.FileTypeText},
		{Path: "b.txt", Name: "b.txt", Type: domain.FileTypeText},
	})
	require.Error(t, err)

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&count))
	assert.Equal(t, 1, count)
}
