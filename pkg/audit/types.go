package audit

import (
	"context"
	"time"
)

// Outcome classifies the result of one recorded parse operation.
type Outcome string

const (
	OutcomeMatch   Outcome = "match"    // A process tree produced captures
	OutcomeNoMatch Outcome = "no_match" // No alternative matched
	OutcomeError   Outcome = "error"    // Request-level error (e.g. unknown field)
)

// Record is the audit trail entry for a single parse operation.
//
// The raw input is deliberately not recorded: address fragments are
// personal data, and the trail only needs the operational shape of the
// request (which grammar, how long the input was, what matched).
type Record struct {
	// Identity
	ID        string `json:"id"`         // UUID v4
	RequestID string `json:"request_id"` // From the HTTP layer, if any

	// What was parsed
	Grammar        string `json:"grammar"`
	GrammarVersion string `json:"grammar_version"`
	Field          string `json:"field"`
	InputLength    int    `json:"input_length"`

	// Result
	Outcome        Outcome  `json:"outcome"`
	CapturedFields []string `json:"captured_fields,omitempty"`

	// Timing
	Duration   time.Duration `json:"duration"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// QueryFilter selects records from storage.
type QueryFilter struct {
	Grammar string    // Exact grammar name; empty matches all
	Since   time.Time // Inclusive lower bound on RecordedAt; zero means unbounded
	Until   time.Time // Exclusive upper bound on RecordedAt; zero means unbounded
	Limit   int       // Maximum records to return; 0 uses the backend default
}

// Storage is the persistence backend for audit records.
type Storage interface {
	// WriteRecord persists one record.
	WriteRecord(ctx context.Context, record *Record) error

	// Query returns records matching the filter, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]*Record, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteBefore removes records recorded before cutoff and returns the
	// number deleted.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// TrimToMax removes the oldest records until at most max remain,
	// returning the number deleted.
	TrimToMax(ctx context.Context, max int64) (int64, error)

	// Close releases backend resources.
	Close() error
}
