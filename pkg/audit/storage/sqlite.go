package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/callisto/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// DefaultQueryLimit caps Query results when the filter sets no limit.
	// Default: 1000
	DefaultQueryLimit int
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:              "data/audit.db",
		BusyTimeout:       5 * time.Second,
		DefaultQueryLimit: 1000,
	}
}

// SQLiteStorage implements audit.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	insertStmt *sql.Stmt
}

// NewSQLiteStorage creates a new SQLite storage backend. It opens the
// database in WAL mode, initializes the schema, and prepares the hot-path
// insert statement.
func NewSQLiteStorage(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if config.BusyTimeout == 0 {
		config.BusyTimeout = 5 * time.Second
	}
	if config.DefaultQueryLimit == 0 {
		config.DefaultQueryLimit = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	// modernc.org/sqlite expects pragmas as _pragma=name(value) parameters.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		config.Path, int(config.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger.With("component", "audit.storage"),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parse_records (
		id TEXT PRIMARY KEY,
		request_id TEXT,
		grammar TEXT NOT NULL,
		grammar_version TEXT,
		field TEXT NOT NULL,
		input_length INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		captured_fields TEXT,
		duration_ns INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recorded_at ON parse_records(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_grammar ON parse_records(grammar);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStorage) prepareStatements() error {
	var err error
	s.insertStmt, err = s.db.Prepare(`
		INSERT INTO parse_records
			(id, request_id, grammar, grammar_version, field, input_length,
			 outcome, captured_fields, duration_ns, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	return err
}

// WriteRecord implements audit.Storage.
func (s *SQLiteStorage) WriteRecord(ctx context.Context, record *audit.Record) error {
	captured, err := json.Marshal(record.CapturedFields)
	if err != nil {
		return fmt.Errorf("failed to encode captured fields: %w", err)
	}

	_, err = s.insertStmt.ExecContext(ctx,
		record.ID,
		record.RequestID,
		record.Grammar,
		record.GrammarVersion,
		record.Field,
		record.InputLength,
		string(record.Outcome),
		string(captured),
		record.Duration.Nanoseconds(),
		record.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit record %q: %w", record.ID, err)
	}
	return nil
}

// Query implements audit.Storage.
func (s *SQLiteStorage) Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Record, error) {
	query := `
		SELECT id, request_id, grammar, grammar_version, field, input_length,
		       outcome, captured_fields, duration_ns, recorded_at
		FROM parse_records
		WHERE 1=1`
	var args []any

	if filter.Grammar != "" {
		query += " AND grammar = ?"
		args = append(args, filter.Grammar)
	}
	if !filter.Since.IsZero() {
		query += " AND recorded_at >= ?"
		args = append(args, filter.Since.UnixNano())
	}
	if !filter.Until.IsZero() {
		query += " AND recorded_at < ?"
		args = append(args, filter.Until.UnixNano())
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = s.config.DefaultQueryLimit
	}
	query += " ORDER BY recorded_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit query failed: %w", err)
	}
	defer rows.Close()

	var records []*audit.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Count implements audit.Storage.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM parse_records").Scan(&n)
	return n, err
}

// DeleteBefore implements audit.Storage.
func (s *SQLiteStorage) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM parse_records WHERE recorded_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired records: %w", err)
	}
	return res.RowsAffected()
}

// TrimToMax implements audit.Storage.
func (s *SQLiteStorage) TrimToMax(ctx context.Context, max int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM parse_records WHERE id IN (
			SELECT id FROM parse_records
			ORDER BY recorded_at DESC
			LIMIT -1 OFFSET ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to trim records: %w", err)
	}
	return res.RowsAffected()
}

// Close implements audit.Storage.
func (s *SQLiteStorage) Close() error {
	if s.insertStmt != nil {
		s.insertStmt.Close()
	}
	return s.db.Close()
}

func scanRecord(rows *sql.Rows) (*audit.Record, error) {
	var (
		record     audit.Record
		outcome    string
		captured   string
		durationNs int64
		recordedAt int64
	)
	if err := rows.Scan(
		&record.ID,
		&record.RequestID,
		&record.Grammar,
		&record.GrammarVersion,
		&record.Field,
		&record.InputLength,
		&outcome,
		&captured,
		&durationNs,
		&recordedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to scan audit record: %w", err)
	}

	record.Outcome = audit.Outcome(outcome)
	record.Duration = time.Duration(durationNs)
	record.RecordedAt = time.Unix(0, recordedAt)
	if captured != "" {
		if err := json.Unmarshal([]byte(captured), &record.CapturedFields); err != nil {
			return nil, fmt.Errorf("failed to decode captured fields for %q: %w", record.ID, err)
		}
	}
	return &record, nil
}
