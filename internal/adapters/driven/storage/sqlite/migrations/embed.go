// Package migrations embeds the SQLite schema migration files.
package migrations

import "embed"

// FS holds the .up.sql migration files, applied in version order.
//
//go:embed *.sql
var FS embed.FS
