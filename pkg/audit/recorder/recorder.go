package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/callisto/pkg/audit"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// Enabled enables audit recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// OnDrop is invoked when a record is dropped because the buffer is
	// full. Optional; used to feed the backpressure counter.
	OnDrop func()
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes audit records asynchronously so the parse path never
// blocks on storage. Under backpressure (full buffer) records are dropped
// and counted rather than queued unboundedly; the audit trail is an
// operational aid, not a ledger.
type Recorder struct {
	storage    audit.Storage
	config     *Config
	recordChan chan *audit.Record
	wg         sync.WaitGroup
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a new audit recorder over the given storage backend
// and starts its background writer.
func NewRecorder(storage audit.Storage, config *Config, logger *slog.Logger) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *audit.Record, config.AsyncBuffer),
		logger:     logger.With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)
	return r
}

// Record finalizes and enqueues a record for async writing. It assigns the
// record ID and timestamp, returns immediately, and never blocks: if the
// buffer is full the record is dropped and OnDrop fires.
func (r *Recorder) Record(record *audit.Record) {
	if !r.config.Enabled {
		return
	}

	record.ID = uuid.New().String()
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	select {
	case r.recordChan <- record:
	default:
		if r.config.OnDrop != nil {
			r.config.OnDrop()
		}
		r.logger.Warn("audit buffer full, dropping record",
			"grammar", record.Grammar,
			"outcome", record.Outcome,
		)
	}
}

// Close stops accepting records, drains the buffer, and waits for the
// writer to finish.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.recordChan)
	})
	r.wg.Wait()
}

// worker drains the record channel into storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for record := range r.recordChan {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
		err := r.storage.WriteRecord(ctx, record)
		cancel()

		if err != nil {
			r.logger.Error("failed to write audit record",
				"record_id", record.ID,
				"error", err,
			)
			continue
		}
		r.logger.Debug("audit record written",
			"record_id", record.ID,
			"grammar", record.Grammar,
			"outcome", record.Outcome,
		)
	}
}
