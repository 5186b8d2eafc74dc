// Package sqlite provides the SQLite-backed persistence adapters: the
// host store with its bulk existence lookup, and the relational writer
// that commits one batch of child rows per transaction.
//
// The database runs in WAL mode with foreign keys enforced. Schema
// migrations are embedded .up.sql files applied in version order.
package sqlite
