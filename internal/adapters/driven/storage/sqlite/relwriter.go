package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stashware/dredge-cli/internal/core/domain"
	"github.com/stashware/dredge-cli/internal/core/ports/driven"
)

// relationalWriter implements driven.RelationalWriter. Every call runs
// one prepared statement inside one transaction, so a batch either
// commits in full or rolls back in full.
type relationalWriter struct {
	store *Store
}

var _ driven.RelationalWriter = (*relationalWriter)(nil)

// InsertCredentials bulk-inserts credential rows for a host.
func (w *relationalWriter) InsertCredentials(ctx context.Context, hostID string, rows []domain.Credential) error {
	return w.inTx(ctx, "inserting credentials", `
		INSERT INTO credentials (host_id, url, domain, tld, username, password, browser, source_file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, hostID, r.URL, nullString(r.Domain), nullString(r.TLD),
			r.Username, r.Password, nullString(r.Browser), r.SourceFilePath)
		return err
	})
}

// InsertPasswordStats bulk-upserts password frequency rows for a host.
func (w *relationalWriter) InsertPasswordStats(ctx context.Context, hostID string, rows []domain.PasswordStat) error {
	return w.inTx(ctx, "inserting password stats", `
		INSERT INTO password_stats (host_id, password, count)
		VALUES (?, ?, ?)
		ON CONFLICT(host_id, password) DO UPDATE SET
			count = count + excluded.count
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, hostID, r.Password, r.Count)
		return err
	})
}

// InsertFiles bulk-inserts file metadata rows for a host.
func (w *relationalWriter) InsertFiles(ctx context.Context, hostID string, rows []domain.FileMetadata) error {
	return w.inTx(ctx, "inserting files", `
		INSERT INTO files (host_id, path, name, parent_path, is_directory, size, type, local_disk_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		_, err := stmt.ExecContext(ctx, hostID, r.Path, r.Name, r.ParentPath,
			r.IsDir, r.Size, r.Type.String(), nullString(r.LocalDiskPath))
		return err
	})
}

// InsertSoftware bulk-inserts software inventory rows for a host.
func (w *relationalWriter) InsertSoftware(ctx context.Context, hostID string, rows []domain.SoftwareEntry) error {
	return w.inTx(ctx, "inserting software", `
		INSERT INTO software (host_id, name, version, source_file)
		VALUES (?, ?, ?, ?)
	`, len(rows), func(stmt *sql.Stmt, i int) error {
		r := rows[i]
		var version sql.NullString
		if r.Version != nil {
			version = sql.NullString{String: *r.Version, Valid: true}
		}
		_, err := stmt.ExecContext(ctx, hostID, r.Name, version, r.SourceFile)
		return err
	})
}

// inTx runs n executions of a prepared statement inside one transaction.
func (w *relationalWriter) inTx(
	ctx context.Context,
	action, query string,
	n int,
	exec func(stmt *sql.Stmt, i int) error,
) error {
	if n == 0 {
		return nil
	}

	tx, err := w.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: beginning transaction: %w", action, err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: preparing statement: %w", action, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("%s: row %d: %w", action, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: committing transaction: %w", action, err)
	}
	return nil
}

// nullString maps "" onto NULL for optional columns.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
