// Package storage provides the SQLite persistence backend for audit
// records. The database runs in WAL mode with a single writer connection;
// the hot-path insert uses a prepared statement.
package storage
